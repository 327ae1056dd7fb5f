package prescription

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/clinic/internal/platform/db"
)

func TestDuplicateOr_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "prescriptions_appointment_id_key"}
	if got := duplicateOr(pgErr); !errors.Is(got, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a unique violation, got %v", got)
	}
	if got := duplicateOr(fmt.Errorf("wrapped: %w", pgErr)); !errors.Is(got, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for a wrapped unique violation, got %v", got)
	}
}

func TestDuplicateOr_OtherErrors(t *testing.T) {
	otherPG := &pgconn.PgError{Code: "23503"}
	if got := duplicateOr(otherPG); !errors.Is(got, db.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for a non-unique constraint error, got %v", got)
	}
	if got := duplicateOr(errors.New("connection reset")); !errors.Is(got, db.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for a plain error, got %v", got)
	}
}
