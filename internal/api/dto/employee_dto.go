package dto

import (
	"time"

	"github.com/accept/school-service/internal/domain"
)

// EmployeeCreateRequest payload for POST /employees/create.
type EmployeeCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Position string `json:"position"`
}

// EmployeeLoginRequest payload for POST /employees/login.
type EmployeeLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmployeeUpdateRequest payload for PUT /employees/update/:id. Omitted fields
// stay unchanged.
type EmployeeUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Position *string `json:"position"`
}

// EmployeeResponse is the public view of an employee. It has no password field.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrincipalResponse describes the authenticated employee.
type PrincipalResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Employee PrincipalResponse `json:"employee"`
	Auth     AuthResponse      `json:"auth"`
}

// NewEmployeeResponse maps an employee, dropping the password hash.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// NewEmployeeResponses maps a list of employees.
func NewEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, NewEmployeeResponse(&employees[i]))
	}
	return out
}

// NewLoginResponse maps a principal and its token.
func NewLoginResponse(p domain.Principal, token domain.AccessToken) LoginResponse {
	return LoginResponse{
		Employee: PrincipalResponse{ID: p.ID, Name: p.Name, Email: p.Email, Position: p.Position},
		Auth: AuthResponse{
			Token:     token.Token,
			TokenType: "Bearer",
			ExpiresAt: token.ExpiresAt,
		},
	}
}
