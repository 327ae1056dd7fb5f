package identity

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const userCols = `user_id, email, password_hash, user_type, first_name, last_name, COALESCE(phone, ''), created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.Phone, &u.CreatedAt)
	if err != nil {
		return nil, db.NotFoundOr(err)
	}
	return &u, nil
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email))
}

func (r *userRepoPG) GetByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE user_id = $1`, id))
}

func (r *userRepoPG) CreateUser(ctx context.Context, u *User) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (email, password_hash, user_type, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING user_id, created_at`,
		u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
	return db.Unavailable(err)
}

func (r *userRepoPG) CreatePatient(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (patient_id, date_of_birth, gender, blood_group,
			emergency_contact, address, medical_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.UserID, p.DateOfBirth, p.Gender, p.BloodGroup,
		p.EmergencyContact, p.Address, p.MedicalHistory)
	return db.Unavailable(err)
}
