package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/accept/school-service/internal/auth"
	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/repository"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func listFilter(c *fiber.Ctx) repository.ListFilter {
	return repository.ListFilter{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return p, nil
}
