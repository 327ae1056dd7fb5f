package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

const uniqueViolation = "23505"

// duplicateOr maps a unique violation on prescriptions.appointment_id to
// ErrDuplicate. Two issuers can both pass the in-transaction duplicate
// check; the constraint decides the race and the loser still gets the
// duplicate error, not an infrastructure failure.
func duplicateOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return db.Unavailable(err)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) HasCompletedAppointment(ctx context.Context, appointmentID, doctorID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE appointment_id = $1 AND doctor_id = $2 AND status = 'completed')`,
		appointmentID, doctorID,
	).Scan(&exists)
	return exists, db.Unavailable(err)
}

func (r *repoPG) ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM prescriptions WHERE appointment_id = $1)`,
		appointmentID,
	).Scan(&exists)
	return exists, db.Unavailable(err)
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (appointment_id, diagnosis, instructions, follow_up_date)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING prescription_id, created_at`,
		p.AppointmentID, p.Diagnosis, p.Instructions, p.FollowUpDate,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return duplicateOr(err)
	}
	return nil
}

func (r *repoPG) AddMedicines(ctx context.Context, prescriptionID int64, meds []MedicineInput) error {
	for i, m := range meds {
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO prescription_medicines
				(prescription_id, medicine_id, position, dosage, frequency, duration, quantity, instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`,
			prescriptionID, m.MedicineID, i, m.Dosage, m.Frequency, m.Duration, m.Quantity, m.Instructions)
		if err != nil {
			return db.Unavailable(err)
		}
	}
	return nil
}

func (r *repoPG) GetView(ctx context.Context, prescriptionID int64) (*View, error) {
	var v View
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT p.prescription_id, p.appointment_id,
			to_char(ts.slot_date, 'YYYY-MM-DD'),
			a.patient_id, pat_u.first_name || ' ' || pat_u.last_name,
			to_char(pat.date_of_birth, 'YYYY-MM-DD'), pat.gender,
			a.doctor_id, doc_u.first_name || ' ' || doc_u.last_name,
			COALESCE(doc.qualification, ''), dept.department_name,
			p.diagnosis, COALESCE(p.instructions, ''),
			to_char(p.follow_up_date, 'YYYY-MM-DD'), p.created_at
		FROM prescriptions p
		JOIN appointments a ON p.appointment_id = a.appointment_id
		JOIN time_slots ts ON a.slot_id = ts.slot_id
		JOIN doctors doc ON a.doctor_id = doc.doctor_id
		JOIN users doc_u ON doc.doctor_id = doc_u.user_id
		JOIN departments dept ON doc.department_id = dept.department_id
		JOIN patients pat ON a.patient_id = pat.patient_id
		JOIN users pat_u ON pat.patient_id = pat_u.user_id
		WHERE p.prescription_id = $1`, prescriptionID,
	).Scan(&v.PrescriptionID, &v.AppointmentID, &v.AppointmentDate,
		&v.PatientID, &v.PatientName, &v.DateOfBirth, &v.Gender,
		&v.DoctorID, &v.DoctorName, &v.Qualification, &v.DepartmentName,
		&v.Diagnosis, &v.Instructions, &v.FollowUpDate, &v.CreatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &v, nil
}

func (r *repoPG) Medicines(ctx context.Context, prescriptionID int64) ([]MedicineDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.medicine_name, COALESCE(m.generic_name, ''), COALESCE(m.medicine_type, ''),
			pm.dosage, pm.frequency, pm.duration, pm.quantity, COALESCE(pm.instructions, '')
		FROM prescription_medicines pm
		JOIN medicines m ON pm.medicine_id = m.medicine_id
		WHERE pm.prescription_id = $1
		ORDER BY pm.position`, prescriptionID)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	meds := []MedicineDetail{}
	for rows.Next() {
		var m MedicineDetail
		if err := rows.Scan(&m.MedicineName, &m.GenericName, &m.MedicineType,
			&m.Dosage, &m.Frequency, &m.Duration, &m.Quantity, &m.Instructions); err != nil {
			return nil, db.Unavailable(err)
		}
		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return meds, nil
}

const summaryQuery = `
	SELECT p.prescription_id, p.appointment_id,
		to_char(ts.slot_date, 'YYYY-MM-DD'),
		pat.first_name || ' ' || pat.last_name,
		doc.first_name || ' ' || doc.last_name,
		p.diagnosis, to_char(p.follow_up_date, 'YYYY-MM-DD')
	FROM prescriptions p
	JOIN appointments a ON p.appointment_id = a.appointment_id
	JOIN time_slots ts ON a.slot_id = ts.slot_id
	JOIN users pat ON a.patient_id = pat.user_id
	JOIN users doc ON a.doctor_id = doc.user_id
	WHERE %s = $1
	ORDER BY p.created_at DESC`

func (r *repoPG) listBy(ctx context.Context, query string, id int64) ([]*Summary, error) {
	rows, err := r.conn(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var items []*Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.PrescriptionID, &s.AppointmentID, &s.AppointmentDate,
			&s.PatientName, &s.DoctorName, &s.Diagnosis, &s.FollowUpDate); err != nil {
			return nil, db.Unavailable(err)
		}
		items = append(items, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return items, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Summary, error) {
	return r.listBy(ctx, fmt.Sprintf(summaryQuery, "a.patient_id"), patientID)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID int64) ([]*Summary, error) {
	return r.listBy(ctx, fmt.Sprintf(summaryQuery, "a.doctor_id"), doctorID)
}
