package identity

import "context"

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, u *User) error
	CreatePatient(ctx context.Context, p *Patient) error
}
