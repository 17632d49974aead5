package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadHeader     = errors.New("invalid authorization header")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errBadHeader
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errBadHeader
	}
	return token, nil
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	store  CredentialStore
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, store CredentialStore, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, store: store, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}

	subject, err := m.tokens.Validate(raw)
	if err != nil {
		if errors.Is(err, ErrTokenMalformed) {
			m.logger.Debug("malformed bearer token", zap.String("path", c.Path()))
		}
		return apperrors.NewUnauthorized("invalid token")
	}

	employee, err := m.store.GetByEmail(c.UserContext(), subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("employee not found")
		}
		return apperrors.NewInternalError(err)
	}

	c.Locals(principalKey, employee.Principal())
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated employee.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok
}
