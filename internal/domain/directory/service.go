package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/pkg/pagination"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("doctor not found")
)

const (
	defaultWindowDays = 7
	maxWindowDays     = 90
)

type Service struct {
	doctors DoctorRepository
	now     func() time.Time
}

func NewService(doctors DoctorRepository) *Service {
	return &Service{doctors: doctors, now: time.Now}
}

func (s *Service) Search(ctx context.Context, f SearchFilter, page pagination.Params) ([]*DoctorSummary, error) {
	return s.doctors.Search(ctx, f, page)
}

func (s *Service) Details(ctx context.Context, doctorID int64) (*DoctorDetail, error) {
	d, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// Timeslots returns the doctor's bookable slots grouped by date. With an
// explicit date the window is that single day; otherwise it spans today
// through today+days.
func (s *Service) Timeslots(ctx context.Context, doctorID int64, date, days string) (map[string][]SlotView, error) {
	var from, to time.Time
	switch {
	case date != "":
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
		}
		from, to = d, d
	default:
		n := defaultWindowDays
		if days != "" {
			v, err := strconv.Atoi(days)
			if err != nil || v < 1 || v > maxWindowDays {
				return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrValidation, maxWindowDays)
			}
			n = v
		}
		today := s.now()
		from = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		to = from.AddDate(0, 0, n)
	}

	slots, err := s.doctors.AvailableSlots(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = map[string][]SlotView{}
	}
	return slots, nil
}
