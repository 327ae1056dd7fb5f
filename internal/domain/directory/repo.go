package directory

import (
	"context"
	"time"

	"github.com/clinic/clinic/pkg/pagination"
)

type DoctorRepository interface {
	Search(ctx context.Context, f SearchFilter, page pagination.Params) ([]*DoctorSummary, error)
	GetByID(ctx context.Context, doctorID int64) (*DoctorDetail, error)
	// AvailableSlots returns bookable slots in [from, to], keyed by
	// YYYY-MM-DD date and ordered by start time within each date.
	AvailableSlots(ctx context.Context, doctorID int64, from, to time.Time) (map[string][]SlotView, error)
}
