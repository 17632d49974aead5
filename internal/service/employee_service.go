package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/accept/school-service/internal/auth"
	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/repository"
	"github.com/accept/school-service/internal/validation"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// Login outcomes reported to the AuthRecorder.
const (
	LoginSucceeded = "success"
	LoginRejected  = "invalid_credentials"
	LoginThrottled = "throttled"
	LoginErrored   = "error"
)

// AuthRecorder receives login outcomes.
type AuthRecorder interface {
	RecordLogin(outcome string)
}

// EmployeeService coordinates employee registration, login and maintenance.
type EmployeeService struct {
	employees  repository.EmployeeRepository
	hasher     auth.PasswordHasher
	authn      *auth.Authenticator
	tokens     *auth.TokenManager
	throttle   auth.LoginThrottle
	dispatcher events.Dispatcher
	recorder   AuthRecorder
	logger     *zap.Logger
}

// EmployeeDependencies bundles collaborators for the employee service.
// Throttle, Dispatcher, Recorder and Logger are optional.
type EmployeeDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	Hasher       auth.PasswordHasher
	Tokens       *auth.TokenManager
	Throttle     auth.LoginThrottle
	Dispatcher   events.Dispatcher
	Recorder     AuthRecorder
	Logger       *zap.Logger
}

// RegisterEmployeeInput describes a new employee.
type RegisterEmployeeInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Position string `json:"position" validate:"required,max=255"`
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateEmployeeInput holds the fields to change. Nil or blank fields are left
// untouched.
type UpdateEmployeeInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=255"`
}

func (in UpdateEmployeeInput) normalized() UpdateEmployeeInput {
	out := UpdateEmployeeInput{
		Name:     trimmedOrNil(in.Name),
		Email:    trimmedOrNil(in.Email),
		Position: trimmedOrNil(in.Position),
	}
	if out.Email != nil {
		email := normalizeEmail(*out.Email)
		out.Email = &email
	}
	if in.Password != nil && *in.Password != "" {
		password := *in.Password
		out.Password = &password
	}
	return out
}

func (in UpdateEmployeeInput) empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil && in.Position == nil
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Principal domain.Principal
	Token     domain.AccessToken
}

// NewEmployeeService constructs the service.
func NewEmployeeService(deps EmployeeDependencies) *EmployeeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:  deps.EmployeeRepo,
		hasher:     deps.Hasher,
		authn:      auth.NewAuthenticator(deps.EmployeeRepo, deps.Hasher),
		tokens:     deps.Tokens,
		throttle:   deps.Throttle,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		logger:     logger,
	}
}

// Register creates an employee with a hashed password.
func (s *EmployeeService) Register(ctx context.Context, input RegisterEmployeeInput) (*domain.Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.Position = strings.TrimSpace(input.Position)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, storeError(repository.ErrDuplicateEmail, "employee", "")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, s.internal("lookup employee by email", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, s.internal("hash password", err)
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Position:     input.Position,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, s.mapStoreError(err, "")
	}

	s.logger.Info("employee registered", zap.String("employee_id", employee.ID), zap.String("email", employee.Email))
	publish(ctx, s.dispatcher, events.New(events.EventEmployeeRegistered, employee.ID, events.Actor{}, events.EmployeePayload{
		Name:     employee.Name,
		Email:    employee.Email,
		Position: employee.Position,
	}))
	return employee, nil
}

// Login authenticates the employee and issues a bearer token. Unknown emails
// and wrong passwords fail identically.
func (s *EmployeeService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	if s.throttle != nil {
		locked, err := s.throttle.Locked(ctx, email)
		if err != nil {
			s.logger.Warn("login throttle unavailable", zap.Error(err))
		} else if locked {
			s.record(LoginThrottled)
			s.logger.Info("login throttled", zap.String("email", email))
			return nil, apperrors.NewTooManyRequests("too many failed login attempts, try again later")
		}
	}

	principal, err := s.authn.Authenticate(ctx, email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.record(LoginRejected)
			s.logger.Info("login rejected", zap.String("email", email))
			if s.throttle != nil {
				if err := s.throttle.RecordFailure(ctx, email); err != nil {
					s.logger.Warn("record login failure", zap.Error(err))
				}
			}
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		s.record(LoginErrored)
		return nil, s.internal("authenticate", err)
	}

	token, err := s.tokens.GenerateToken(principal.Email)
	if err != nil {
		s.record(LoginErrored)
		return nil, s.internal("issue token", err)
	}
	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn("reset login failures", zap.Error(err))
		}
	}

	s.record(LoginSucceeded)
	publish(ctx, s.dispatcher, events.New(events.EventEmployeeLoggedIn, principal.ID, principalActor(principal), nil))
	return &LoginResult{Principal: principal, Token: token}, nil
}

// List returns employees ordered by creation time.
func (s *EmployeeService) List(ctx context.Context, filter repository.ListFilter) ([]domain.Employee, error) {
	employees, err := s.employees.List(ctx, filter.Normalize())
	if err != nil {
		return nil, s.internal("list employees", err)
	}
	return employees, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	employeeID, err := parseID(id, "employee")
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, s.mapStoreError(err, employeeID)
	}
	return employee, nil
}

// Authorize resolves the employee behind a bearer token. Tokens whose subject
// no longer exists are rejected like expired ones.
func (s *EmployeeService) Authorize(ctx context.Context, token string) (domain.Principal, error) {
	subject, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenMalformed) {
			s.logger.Debug("malformed bearer token")
		}
		return domain.Principal{}, apperrors.NewUnauthorized("invalid or expired token")
	}

	employee, err := s.employees.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Info("token subject no longer exists", zap.String("email", subject))
			return domain.Principal{}, apperrors.NewUnauthorized("invalid or expired token")
		}
		return domain.Principal{}, s.internal("resolve token subject", err)
	}
	return employee.Principal(), nil
}

// UpdateAuthenticated applies changes to an employee on behalf of the bearer
// of token. The token is checked before the store is touched; the password is
// re-hashed only when a new one is supplied.
func (s *EmployeeService) UpdateAuthenticated(ctx context.Context, token, id string, input UpdateEmployeeInput) (*domain.Employee, error) {
	caller, err := s.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	input = input.normalized()
	if input.empty() {
		return nil, apperrors.NewValidationError("no fields to update", map[string]any{"body": "at least one field is required"})
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	employeeID, err := parseID(id, "employee")
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, s.mapStoreError(err, employeeID)
	}

	var fields []string
	if input.Email != nil && *input.Email != normalizeEmail(employee.Email) {
		existing, err := s.employees.GetByEmail(ctx, *input.Email)
		switch {
		case err == nil && existing.ID != employee.ID:
			return nil, storeError(repository.ErrDuplicateEmail, "employee", employeeID)
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, s.internal("lookup employee by email", err)
		}
		employee.Email = *input.Email
		fields = append(fields, "email")
	}
	if input.Name != nil {
		employee.Name = *input.Name
		fields = append(fields, "name")
	}
	if input.Position != nil {
		employee.Position = *input.Position
		fields = append(fields, "position")
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, s.internal("hash password", err)
		}
		employee.PasswordHash = hash
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, s.mapStoreError(err, employeeID)
	}

	publish(ctx, s.dispatcher, events.New(events.EventEmployeeUpdated, employee.ID, principalActor(caller), events.EmployeeUpdatedPayload{
		Fields:          fields,
		PasswordChanged: input.Password != nil,
	}))
	return employee, nil
}

// Delete removes an employee.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	employeeID, err := parseID(id, "employee")
	if err != nil {
		return err
	}
	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return s.internal("check employee exists", err)
	}
	if !exists {
		return storeError(repository.ErrNotFound, "employee", employeeID)
	}
	if err := s.employees.Delete(ctx, employeeID); err != nil {
		return s.mapStoreError(err, employeeID)
	}
	s.logger.Info("employee deleted", zap.String("employee_id", employeeID))
	publish(ctx, s.dispatcher, events.New(events.EventEmployeeDeleted, employeeID, events.Actor{}, nil))
	return nil
}

func (s *EmployeeService) mapStoreError(err error, id string) error {
	mapped := storeError(err, "employee", id)
	if apperrors.CodeOf(mapped) == apperrors.CodeInternal {
		s.logger.Error("employee store failure", zap.Error(err))
	}
	return mapped
}

func (s *EmployeeService) internal(op string, err error) error {
	s.logger.Error(op, zap.Error(err))
	return apperrors.NewInternalError(err)
}

func (s *EmployeeService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordLogin(outcome)
	}
}
