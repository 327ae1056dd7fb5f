package booking

import "context"

// SlotRepository is the single source of truth for slot availability.
type SlotRepository interface {
	// GetForDoctor returns the slot only when it belongs to the doctor.
	GetForDoctor(ctx context.Context, slotID, doctorID int64) (*TimeSlot, error)
	// Reserve flips is_available from true to false with a conditional
	// write and returns ErrSlotUnavailable when no row changed. Run it
	// inside the booking transaction.
	Reserve(ctx context.Context, slotID int64) error
	// Release makes a slot bookable again after a cancellation.
	Release(ctx context.Context, slotID int64) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID int64, status string) ([]*AppointmentDetail, error)
	ListByDoctor(ctx context.Context, doctorID int64, status string) ([]*AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
