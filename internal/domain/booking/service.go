package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// Errors surfaced by the booking workflow.
var (
	ErrValidation      = errors.New("validation failed")
	ErrForbidden       = errors.New("not allowed")
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrSlotUnavailable = errors.New("slot not available")
	ErrNotFound        = errors.New("appointment not found")
)

type Service struct {
	slots        SlotRepository
	appointments AppointmentRepository
	tx           db.Runner
}

func NewService(slots SlotRepository, appointments AppointmentRepository, tx db.Runner) *Service {
	return &Service{slots: slots, appointments: appointments, tx: tx}
}

// Book validates the request and creates the appointment. The slot lookup,
// the conditional reserve, and the appointment insert share one transaction:
// if any step fails after the reserve, the rollback restores availability,
// so either the appointment exists and the slot is taken, or neither.
func (s *Service) Book(ctx context.Context, identity auth.Identity, in BookingInput) (int64, error) {
	if identity.Role != auth.RolePatient {
		return 0, fmt.Errorf("%w: only patients can book appointments", ErrForbidden)
	}
	if in.DoctorID <= 0 {
		return 0, fmt.Errorf("%w: missing field: doctor_id", ErrValidation)
	}
	if in.SlotID <= 0 {
		return 0, fmt.Errorf("%w: missing field: slot_id", ErrValidation)
	}
	if in.ReasonForVisit == "" {
		return 0, fmt.Errorf("%w: missing field: reason_for_visit", ErrValidation)
	}

	appt := &Appointment{
		PatientID:      identity.ID,
		DoctorID:       in.DoctorID,
		SlotID:         in.SlotID,
		ReasonForVisit: in.ReasonForVisit,
		Status:         StatusScheduled,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.slots.GetForDoctor(ctx, in.SlotID, in.DoctorID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrInvalidSlot
			}
			return err
		}
		if err := s.slots.Reserve(ctx, in.SlotID); err != nil {
			return err
		}
		return s.appointments.Create(ctx, appt)
	})
	if err != nil {
		return 0, err
	}
	return appt.ID, nil
}

// List returns the caller's appointments, optionally filtered by status.
func (s *Service) List(ctx context.Context, identity auth.Identity, status string) ([]*AppointmentDetail, error) {
	switch status {
	case "", StatusScheduled, StatusCompleted, StatusCancelled:
	default:
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}

	if identity.Role == auth.RoleDoctor {
		return s.appointments.ListByDoctor(ctx, identity.ID, status)
	}
	return s.appointments.ListByPatient(ctx, identity.ID, status)
}

// Cancel marks the caller's scheduled appointment cancelled and releases its
// slot, in one transaction.
func (s *Service) Cancel(ctx context.Context, identity auth.Identity, appointmentID int64) error {
	if identity.Role != auth.RolePatient {
		return fmt.Errorf("%w: only patients can cancel appointments", ErrForbidden)
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		appt, err := s.appointments.GetByID(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if appt.PatientID != identity.ID {
			return fmt.Errorf("%w: appointment belongs to another patient", ErrForbidden)
		}
		if appt.Status != StatusScheduled {
			return fmt.Errorf("%w: only scheduled appointments can be cancelled", ErrValidation)
		}

		if err := s.appointments.UpdateStatus(ctx, appointmentID, StatusCancelled); err != nil {
			return err
		}
		return s.slots.Release(ctx, appt.SlotID)
	})
}
