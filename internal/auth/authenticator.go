package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong
// password alike.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialStore is the lookup the authenticator needs from the employee store.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
}

// Authenticator verifies email and password pairs.
type Authenticator struct {
	store  CredentialStore
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthenticator wires the authenticator.
func NewAuthenticator(store CredentialStore, hasher PasswordHasher) *Authenticator {
	return &Authenticator{store: store, hasher: hasher}
}

// Authenticate returns the principal for a matching email and password.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (domain.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		a.burn(password)
		return domain.Principal{}, ErrInvalidCredentials
	}

	employee, err := a.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			a.burn(password)
			return domain.Principal{}, ErrInvalidCredentials
		}
		return domain.Principal{}, err
	}
	if !a.hasher.Verify(password, employee.PasswordHash) {
		return domain.Principal{}, ErrInvalidCredentials
	}
	return employee.Principal(), nil
}

// burn runs a verification that cannot succeed so unknown emails cost the
// same as wrong passwords.
func (a *Authenticator) burn(password string) {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash("unused-placeholder-credential")
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash != "" {
		_ = a.hasher.Verify(password, a.dummyHash)
	}
}
