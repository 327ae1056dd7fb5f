package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/db"
)

// Errors surfaced by the identity service.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	users UserRepository
	tx    db.Runner
}

func NewService(users UserRepository, tx db.Runner) *Service {
	return &Service{users: users, tx: tx}
}

// Register creates a patient account. The user row and the patient detail
// row are written in one transaction so a half-registered account can never
// exist.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	required := []struct {
		name, value string
	}{
		{"email", in.Email},
		{"password", in.Password},
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"phone", in.Phone},
		{"date_of_birth", in.DateOfBirth},
		{"gender", in.Gender},
	}
	for _, f := range required {
		if f.value == "" {
			return 0, fmt.Errorf("%w: missing field: %s", ErrValidation, f.name)
		}
	}

	dob, err := time.Parse("2006-01-02", in.DateOfBirth)
	if err != nil {
		return 0, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         auth.RolePatient,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.users.GetByEmail(ctx, in.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		if err := s.users.CreateUser(ctx, user); err != nil {
			return err
		}
		return s.users.CreatePatient(ctx, &Patient{
			UserID:           user.ID,
			DateOfBirth:      dob,
			Gender:           in.Gender,
			BloodGroup:       in.BloodGroup,
			EmergencyContact: in.EmergencyContact,
			Address:          in.Address,
			MedicalHistory:   in.MedicalHistory,
		})
	})
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Login checks the credentials and returns the user on success. The same
// error covers unknown email and wrong password so responses don't reveal
// which one failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Current returns the user behind an authenticated session.
func (s *Service) Current(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}
