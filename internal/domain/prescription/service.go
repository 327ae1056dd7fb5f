package prescription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("not allowed")
	// ErrInvalidAppointment covers every reason the appointment can't
	// take a prescription: missing, another doctor's, or not completed.
	ErrInvalidAppointment = errors.New("invalid or unauthorized appointment")
	ErrDuplicate          = errors.New("prescription already exists for this appointment")
	ErrNotFound           = errors.New("prescription not found")
)

type Service struct {
	repo Repository
	tx   db.Runner
}

func NewService(repo Repository, tx db.Runner) *Service {
	return &Service{repo: repo, tx: tx}
}

// Issue writes the prescription and its medicines in one transaction.
// The completed-appointment check and the duplicate check run inside
// that transaction too; the UNIQUE constraint on appointment_id is the
// backstop for two doctors racing past the check.
func (s *Service) Issue(ctx context.Context, identity auth.Identity, in IssueInput) (int64, error) {
	if identity.Role != auth.RoleDoctor {
		return 0, fmt.Errorf("%w: only doctors can upload prescriptions", ErrForbidden)
	}
	if in.AppointmentID <= 0 {
		return 0, fmt.Errorf("%w: missing field: appointment_id", ErrValidation)
	}
	if in.Diagnosis == "" {
		return 0, fmt.Errorf("%w: missing field: diagnosis", ErrValidation)
	}
	if len(in.Medicines) == 0 {
		return 0, fmt.Errorf("%w: medicines must be a non-empty list", ErrValidation)
	}
	for _, m := range in.Medicines {
		switch {
		case m.MedicineID <= 0:
			return 0, fmt.Errorf("%w: missing field in medicine: medicine_id", ErrValidation)
		case m.Dosage == "":
			return 0, fmt.Errorf("%w: missing field in medicine: dosage", ErrValidation)
		case m.Frequency == "":
			return 0, fmt.Errorf("%w: missing field in medicine: frequency", ErrValidation)
		case m.Duration == "":
			return 0, fmt.Errorf("%w: missing field in medicine: duration", ErrValidation)
		case m.Quantity <= 0:
			return 0, fmt.Errorf("%w: missing field in medicine: quantity", ErrValidation)
		}
	}

	var followUp *time.Time
	if in.FollowUpDate != "" {
		d, err := time.Parse("2006-01-02", in.FollowUpDate)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid follow-up date format, expected YYYY-MM-DD", ErrValidation)
		}
		followUp = &d
	}

	p := &Prescription{
		AppointmentID: in.AppointmentID,
		Diagnosis:     in.Diagnosis,
		Instructions:  in.Instructions,
		FollowUpDate:  followUp,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.HasCompletedAppointment(ctx, in.AppointmentID, identity.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidAppointment
		}

		exists, err := s.repo.ExistsForAppointment(ctx, in.AppointmentID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}

		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.repo.AddMedicines(ctx, p.ID, in.Medicines)
	})
	if err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Get returns the prescription detail for its patient or its doctor.
func (s *Service) Get(ctx context.Context, identity auth.Identity, prescriptionID int64) (*View, error) {
	v, err := s.repo.GetView(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	switch identity.Role {
	case auth.RolePatient:
		if v.PatientID != identity.ID {
			return nil, ErrForbidden
		}
	case auth.RoleDoctor:
		if v.DoctorID != identity.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	meds, err := s.repo.Medicines(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	if meds == nil {
		meds = []MedicineDetail{}
	}
	v.Medicines = meds
	return v, nil
}

// List returns the caller's prescriptions, newest first.
func (s *Service) List(ctx context.Context, identity auth.Identity) ([]*Summary, error) {
	if identity.Role == auth.RoleDoctor {
		return s.repo.ListByDoctor(ctx, identity.ID)
	}
	return s.repo.ListByPatient(ctx, identity.ID)
}
