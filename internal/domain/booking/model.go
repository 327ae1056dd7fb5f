package booking

import "time"

// Appointment lifecycle states. A slot's availability flips exactly once,
// at booking; cancellation releases it again.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// TimeSlot maps to the time_slots table. Start and end times are wall-clock
// strings (HH:MM:SS) scoped to Date.
type TimeSlot struct {
	ID          int64     `db:"slot_id" json:"slot_id"`
	DoctorID    int64     `db:"doctor_id" json:"doctor_id"`
	Date        time.Time `db:"slot_date" json:"slot_date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	IsAvailable bool      `db:"is_available" json:"is_available"`
}

// Appointment maps to the appointments table. A slot backs at most one
// appointment that is not cancelled; cancelling frees the slot for a new
// booking.
type Appointment struct {
	ID             int64     `db:"appointment_id" json:"appointment_id"`
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	DoctorID       int64     `db:"doctor_id" json:"doctor_id"`
	SlotID         int64     `db:"slot_id" json:"slot_id"`
	ReasonForVisit string    `db:"reason_for_visit" json:"reason_for_visit"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// AppointmentDetail is the listing row: the appointment joined with its
// slot and the counterpart's name.
type AppointmentDetail struct {
	ID             int64  `json:"appointment_id"`
	DoctorID       int64  `json:"doctor_id"`
	PatientID      int64  `json:"patient_id"`
	DoctorName     string `json:"doctor_name"`
	PatientName    string `json:"patient_name"`
	Date           string `json:"slot_date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	ReasonForVisit string `json:"reason_for_visit"`
	Status         string `json:"status"`
}

// BookingInput is the booking request payload.
type BookingInput struct {
	DoctorID       int64  `json:"doctor_id"`
	SlotID         int64  `json:"slot_id"`
	ReasonForVisit string `json:"reason_for_visit"`
}
