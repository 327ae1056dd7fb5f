package identity

import "time"

// User maps to the users table. PasswordHash never leaves the package in a
// response body.
type User struct {
	ID           int64     `db:"user_id" json:"user_id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"user_type" json:"user_type"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Patient maps to the patients table, one-to-one with users.
type Patient struct {
	UserID           int64     `db:"patient_id" json:"patient_id"`
	DateOfBirth      time.Time `db:"date_of_birth" json:"date_of_birth"`
	Gender           string    `db:"gender" json:"gender"`
	BloodGroup       *string   `db:"blood_group" json:"blood_group,omitempty"`
	EmergencyContact *string   `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Address          *string   `db:"address" json:"address,omitempty"`
	MedicalHistory   *string   `db:"medical_history" json:"medical_history,omitempty"`
}

// RegisterInput is the patient self-registration payload.
type RegisterInput struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Phone            string  `json:"phone"`
	DateOfBirth      string  `json:"date_of_birth"`
	Gender           string  `json:"gender"`
	BloodGroup       *string `json:"blood_group,omitempty"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`
	Address          *string `json:"address,omitempty"`
	MedicalHistory   *string `json:"medical_history,omitempty"`
}
