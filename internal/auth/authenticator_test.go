package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository/memory"
)

type failingStore struct{ err error }

func (f failingStore) GetByEmail(context.Context, string) (*domain.Employee, error) {
	return nil, f.err
}

func seedEmployee(t *testing.T, hasher PasswordHasher) (*Authenticator, *domain.Employee) {
	t.Helper()
	store := memory.NewStore().Employees()
	hash, err := hasher.Hash("secret123")
	require.NoError(t, err)
	employee := &domain.Employee{Name: "John Doe", Email: "john@x.com", PasswordHash: hash, Position: "Engineer"}
	require.NoError(t, store.Create(context.Background(), employee))
	return NewAuthenticator(store, hasher), employee
}

func TestAuthenticator_Success(t *testing.T) {
	authn, employee := seedEmployee(t, NewBcryptHasher(bcrypt.MinCost))

	principal, err := authn.Authenticate(context.Background(), "john@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{
		ID:       employee.ID,
		Name:     "John Doe",
		Email:    "john@x.com",
		Position: "Engineer",
	}, principal)
}

func TestAuthenticator_FailuresAreIndistinguishable(t *testing.T) {
	authn, _ := seedEmployee(t, NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	_, wrongPassword := authn.Authenticate(ctx, "john@x.com", "wrong")
	_, unknownEmail := authn.Authenticate(ctx, "nobody@x.com", "secret123")
	_, emptyEmail := authn.Authenticate(ctx, "   ", "secret123")

	for _, err := range []error{wrongPassword, unknownEmail, emptyEmail} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, ErrInvalidCredentials.Error(), err.Error())
	}
}

func TestAuthenticator_PropagatesStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	authn := NewAuthenticator(failingStore{err: boom}, NewBcryptHasher(bcrypt.MinCost))

	_, err := authn.Authenticate(context.Background(), "john@x.com", "secret123")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
