package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound reports that a query matched no rows. It is distinct from
// ErrUnavailable so callers never mistake an empty result for an outage.
var ErrNotFound = errors.New("not found")

// ErrUnavailable reports an infrastructure failure: pool exhausted, network
// error, or transaction machinery failing. Handlers map it to a 500 with a
// generic message; the underlying cause is only logged.
var ErrUnavailable = errors.New("database unavailable")

// NotFoundOr translates pgx's no-rows sentinel into ErrNotFound and wraps
// anything else as an infrastructure failure.
func NotFoundOr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return Unavailable(err)
}

// Unavailable wraps err as an infrastructure failure, preserving the cause
// for logs.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
