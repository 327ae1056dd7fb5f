package directory

// DoctorSummary is one row of the doctor search listing.
type DoctorSummary struct {
	DoctorID        int64    `json:"doctor_id"`
	DoctorName      string   `json:"doctor_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	DepartmentName  string   `json:"department_name"`
	Qualification   string   `json:"qualification"`
	ExperienceYears int      `json:"experience_years"`
	ConsultationFee float64  `json:"consultation_fee"`
	Bio             string   `json:"bio"`
	AvailableDays   string   `json:"available_days"`
	Specializations []string `json:"specializations"`
}

// Specialization pairs a name with its description, as shown on the
// doctor detail page.
type Specialization struct {
	Name        string `json:"specialization_name"`
	Description string `json:"description"`
}

// DoctorDetail extends the summary with the fields only the detail
// endpoint exposes.
type DoctorDetail struct {
	DoctorID           int64            `json:"doctor_id"`
	DoctorName         string           `json:"doctor_name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	DepartmentName     string           `json:"department_name"`
	DepartmentLocation string           `json:"department_location"`
	LicenseNumber      string           `json:"license_number"`
	Qualification      string           `json:"qualification"`
	ExperienceYears    int              `json:"experience_years"`
	ConsultationFee    float64          `json:"consultation_fee"`
	Bio                string           `json:"bio"`
	AvailableDays      string           `json:"available_days"`
	Specializations    []Specialization `json:"specializations"`
}

// SearchFilter narrows the doctor listing. Empty fields match everything.
type SearchFilter struct {
	Specialization string
	Department     string
	Name           string
}

// SlotView is one bookable slot inside the grouped timeslot response.
type SlotView struct {
	SlotID    int64  `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
