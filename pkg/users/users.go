// Package users implements registration and authentication of account
// holders over an injected credential store and password hasher.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finbook/models"
)

var (
	// ErrDuplicateEmail rejects a registration for an email that already
	// has an account.
	ErrDuplicateEmail = errors.New("a user is already registered with this email")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// CredentialStore persists user records. Lookups that find nothing return
// (nil, nil); errors are reserved for store failures.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// PasswordHasher is a one-way salted hash over plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// Service is the user manager. Collaborators are injected at construction;
// the service itself holds no state.
type Service struct {
	store  CredentialStore
	hasher PasswordHasher
}

func NewService(store CredentialStore, hasher PasswordHasher) *Service {
	return &Service{store: store, hasher: hasher}
}

// Register creates a new user after an email-uniqueness precheck. The
// precheck is not atomic with the insert, so a unique-constraint violation
// from the store is mapped to ErrDuplicateEmail as well.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.Save(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Authenticate verifies a password against the stored hash. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID returns the user or (nil, nil) when absent.
func (s *Service) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.store.FindByID(ctx, id)
}

// isUniqueViolation sniffs driver error text for a duplicate-key insert.
// Covers Postgres ("duplicate key ... unique constraint") and the wording
// other engines use.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint")
}
