package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

// -- Slot repository --

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewSlotRepoPG(pool *pgxpool.Pool) SlotRepository { return &slotRepoPG{pool: pool} }

func (r *slotRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *slotRepoPG) GetForDoctor(ctx context.Context, slotID, doctorID int64) (*TimeSlot, error) {
	var s TimeSlot
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT slot_id, doctor_id, slot_date, start_time::text, end_time::text, is_available
		FROM time_slots
		WHERE slot_id = $1 AND doctor_id = $2`,
		slotID, doctorID,
	).Scan(&s.ID, &s.DoctorID, &s.Date, &s.StartTime, &s.EndTime, &s.IsAvailable)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &s, nil
}

// Reserve is the conditional write that closes the double-booking race:
// two concurrent transactions both see is_available = true, but only one
// update matches the WHERE clause; the other sees zero rows affected.
func (r *slotRepoPG) Reserve(ctx context.Context, slotID int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE time_slots SET is_available = FALSE
		WHERE slot_id = $1 AND is_available = TRUE`, slotID)
	if err != nil {
		return db.Unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (r *slotRepoPG) Release(ctx context.Context, slotID int64) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE time_slots SET is_available = TRUE WHERE slot_id = $1`, slotID)
	return db.Unavailable(err)
}

// -- Appointment repository --

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, slot_id, reason_for_visit, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING appointment_id, created_at`,
		a.PatientID, a.DoctorID, a.SlotID, a.ReasonForVisit, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	return db.Unavailable(err)
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT appointment_id, patient_id, doctor_id, slot_id, reason_for_visit, status, created_at
		FROM appointments WHERE appointment_id = $1`, id,
	).Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.SlotID, &a.ReasonForVisit, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &a, nil
}

const detailQuery = `
	SELECT a.appointment_id, a.doctor_id, a.patient_id,
		doc.first_name || ' ' || doc.last_name,
		pat.first_name || ' ' || pat.last_name,
		to_char(ts.slot_date, 'YYYY-MM-DD'), ts.start_time::text, ts.end_time::text,
		a.reason_for_visit, a.status
	FROM appointments a
	JOIN time_slots ts ON a.slot_id = ts.slot_id
	JOIN users doc ON a.doctor_id = doc.user_id
	JOIN users pat ON a.patient_id = pat.user_id
	WHERE %s = $1 AND ($2 = '' OR a.status = $2)
	ORDER BY ts.slot_date, ts.start_time`

func (r *appointmentRepoPG) listBy(ctx context.Context, column string, id int64, status string) ([]*AppointmentDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(detailQuery, column), id, status)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var items []*AppointmentDetail
	for rows.Next() {
		var d AppointmentDetail
		if err := rows.Scan(&d.ID, &d.DoctorID, &d.PatientID, &d.DoctorName, &d.PatientName,
			&d.Date, &d.StartTime, &d.EndTime, &d.ReasonForVisit, &d.Status); err != nil {
			return nil, db.Unavailable(err)
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return items, nil
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID int64, status string) ([]*AppointmentDetail, error) {
	return r.listBy(ctx, "a.patient_id", patientID, status)
}

func (r *appointmentRepoPG) ListByDoctor(ctx context.Context, doctorID int64, status string) ([]*AppointmentDetail, error) {
	return r.listBy(ctx, "a.doctor_id", doctorID, status)
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $2 WHERE appointment_id = $1`, id, status)
	if err != nil {
		return db.Unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
