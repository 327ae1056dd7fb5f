package prescription

import "context"

// Repository persists prescriptions. Issue-time checks and inserts are
// meant to run inside one transaction so the duplicate check and the
// UNIQUE(appointment_id) constraint agree.
type Repository interface {
	// HasCompletedAppointment reports whether the appointment exists,
	// belongs to the doctor, and is completed.
	HasCompletedAppointment(ctx context.Context, appointmentID, doctorID int64) (bool, error)
	// ExistsForAppointment reports whether a prescription was already
	// issued for the appointment.
	ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error)
	Create(ctx context.Context, p *Prescription) error
	// AddMedicines stores the list in input order.
	AddMedicines(ctx context.Context, prescriptionID int64, meds []MedicineInput) error
	// GetView returns the prescription detail without its medicines.
	GetView(ctx context.Context, prescriptionID int64) (*View, error)
	// Medicines returns the prescribed list in the order it was written.
	Medicines(ctx context.Context, prescriptionID int64) ([]MedicineDetail, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Summary, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]*Summary, error)
}
