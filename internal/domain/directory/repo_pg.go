package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/pkg/pagination"
)

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *doctorRepoPG) Search(ctx context.Context, f SearchFilter, page pagination.Params) ([]*DoctorSummary, error) {
	var (
		where strings.Builder
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Specialization != "" {
		fmt.Fprintf(&where, " AND s.specialization_name ILIKE %s", arg("%"+f.Specialization+"%"))
	}
	if f.Department != "" {
		fmt.Fprintf(&where, " AND dept.department_name ILIKE %s", arg("%"+f.Department+"%"))
	}
	if f.Name != "" {
		p := arg("%" + f.Name + "%")
		fmt.Fprintf(&where, " AND (u.first_name ILIKE %s OR u.last_name ILIKE %s)", p, p)
	}

	query := fmt.Sprintf(`
		SELECT d.doctor_id,
			u.first_name || ' ' || u.last_name,
			u.email, COALESCE(u.phone, ''),
			dept.department_name,
			COALESCE(d.qualification, ''), COALESCE(d.experience_years, 0),
			COALESCE(d.consultation_fee, 0), COALESCE(d.bio, ''),
			COALESCE(d.available_days, ''),
			array_remove(array_agg(DISTINCT s.specialization_name), NULL)
		FROM doctors d
		JOIN users u ON d.doctor_id = u.user_id
		JOIN departments dept ON d.department_id = dept.department_id
		LEFT JOIN doctor_specializations ds ON d.doctor_id = ds.doctor_id
		LEFT JOIN specializations s ON ds.specialization_id = s.specialization_id
		WHERE TRUE%s
		GROUP BY d.doctor_id, u.first_name, u.last_name, u.email, u.phone, dept.department_name
		ORDER BY u.last_name, u.first_name
		LIMIT %s OFFSET %s`, where.String(), arg(page.Limit), arg(page.Offset))

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	var items []*DoctorSummary
	for rows.Next() {
		var d DoctorSummary
		if err := rows.Scan(&d.DoctorID, &d.DoctorName, &d.Email, &d.Phone,
			&d.DepartmentName, &d.Qualification, &d.ExperienceYears,
			&d.ConsultationFee, &d.Bio, &d.AvailableDays, &d.Specializations); err != nil {
			return nil, db.Unavailable(err)
		}
		if d.Specializations == nil {
			d.Specializations = []string{}
		}
		items = append(items, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return items, nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, doctorID int64) (*DoctorDetail, error) {
	var d DoctorDetail
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT d.doctor_id,
			u.first_name || ' ' || u.last_name,
			u.email, COALESCE(u.phone, ''),
			dept.department_name, COALESCE(dept.location, ''),
			COALESCE(d.license_number, ''), COALESCE(d.qualification, ''),
			COALESCE(d.experience_years, 0), COALESCE(d.consultation_fee, 0),
			COALESCE(d.bio, ''), COALESCE(d.available_days, '')
		FROM doctors d
		JOIN users u ON d.doctor_id = u.user_id
		JOIN departments dept ON d.department_id = dept.department_id
		WHERE d.doctor_id = $1`, doctorID,
	).Scan(&d.DoctorID, &d.DoctorName, &d.Email, &d.Phone,
		&d.DepartmentName, &d.DepartmentLocation, &d.LicenseNumber,
		&d.Qualification, &d.ExperienceYears, &d.ConsultationFee,
		&d.Bio, &d.AvailableDays)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.specialization_name, COALESCE(s.description, '')
		FROM doctor_specializations ds
		JOIN specializations s ON ds.specialization_id = s.specialization_id
		WHERE ds.doctor_id = $1
		ORDER BY s.specialization_name`, doctorID)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	d.Specializations = []Specialization{}
	for rows.Next() {
		var s Specialization
		if err := rows.Scan(&s.Name, &s.Description); err != nil {
			return nil, db.Unavailable(err)
		}
		d.Specializations = append(d.Specializations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return &d, nil
}

func (r *doctorRepoPG) AvailableSlots(ctx context.Context, doctorID int64, from, to time.Time) (map[string][]SlotView, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT slot_id, to_char(slot_date, 'YYYY-MM-DD'),
			start_time::text, end_time::text
		FROM time_slots
		WHERE doctor_id = $1 AND slot_date BETWEEN $2 AND $3 AND is_available
		ORDER BY slot_date, start_time`, doctorID, from, to)
	if err != nil {
		return nil, db.Unavailable(err)
	}
	defer rows.Close()

	byDate := make(map[string][]SlotView)
	for rows.Next() {
		var (
			s    SlotView
			date string
		)
		if err := rows.Scan(&s.SlotID, &date, &s.StartTime, &s.EndTime); err != nil {
			return nil, db.Unavailable(err)
		}
		byDate[date] = append(byDate[date], s)
	}
	if err := rows.Err(); err != nil {
		return nil, db.Unavailable(err)
	}
	return byDate, nil
}
