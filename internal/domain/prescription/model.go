package prescription

import "time"

// Prescription maps to the prescriptions table. One per appointment.
type Prescription struct {
	ID            int64      `db:"prescription_id" json:"prescription_id"`
	AppointmentID int64      `db:"appointment_id" json:"appointment_id"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Instructions  string     `db:"instructions" json:"instructions"`
	FollowUpDate  *time.Time `db:"follow_up_date" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// MedicineInput is one prescribed medicine as submitted by the doctor.
// List order is preserved on read-back.
type MedicineInput struct {
	MedicineID   int64  `json:"medicine_id"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions,omitempty"`
}

// IssueInput is the prescription upload payload.
type IssueInput struct {
	AppointmentID int64           `json:"appointment_id"`
	Diagnosis     string          `json:"diagnosis"`
	Instructions  string          `json:"instructions"`
	FollowUpDate  string          `json:"follow_up_date"`
	Medicines     []MedicineInput `json:"medicines"`
}

// MedicineDetail is a prescribed medicine joined with its catalog entry.
type MedicineDetail struct {
	MedicineName string `json:"medicine_name"`
	GenericName  string `json:"generic_name"`
	MedicineType string `json:"medicine_type"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// View is the full prescription detail: the record, the visit it came
// from, and both parties' names.
type View struct {
	PrescriptionID  int64            `json:"prescription_id"`
	AppointmentID   int64            `json:"appointment_id"`
	AppointmentDate string           `json:"appointment_date"`
	PatientID       int64            `json:"patient_id"`
	PatientName     string           `json:"patient_name"`
	DateOfBirth     string           `json:"date_of_birth"`
	Gender          string           `json:"gender"`
	DoctorID        int64            `json:"doctor_id"`
	DoctorName      string           `json:"doctor_name"`
	Qualification   string           `json:"qualification"`
	DepartmentName  string           `json:"department_name"`
	Diagnosis       string           `json:"diagnosis"`
	Instructions    string           `json:"instructions"`
	FollowUpDate    *string          `json:"follow_up_date"`
	CreatedAt       time.Time        `json:"created_at"`
	Medicines       []MedicineDetail `json:"medicines"`
}

// Summary is one row of the prescription listing.
type Summary struct {
	PrescriptionID  int64   `json:"prescription_id"`
	AppointmentID   int64   `json:"appointment_id"`
	AppointmentDate string  `json:"appointment_date"`
	PatientName     string  `json:"patient_name"`
	DoctorName      string  `json:"doctor_name"`
	Diagnosis       string  `json:"diagnosis"`
	FollowUpDate    *string `json:"follow_up_date"`
}
