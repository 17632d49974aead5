package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/accept/school-service/internal/domain"
	"github.com/accept/school-service/internal/events"
	"github.com/accept/school-service/internal/repository"
	apperrors "github.com/accept/school-service/pkg/util/errorutil"
)

// publish sends the event when a dispatcher is configured.
func publish(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

func principalActor(p domain.Principal) events.Actor {
	return events.Actor{EmployeeID: p.ID, Email: p.Email}
}

// parseID canonicalizes a path identifier. Anything that is not a UUID
// cannot name a stored record.
func parseID(id, resource string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return parsed.String(), nil
}

// storeError converts repository failures into API errors.
func storeError(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
	case errors.Is(err, repository.ErrDuplicateName):
		return apperrors.NewConflict(resource+" name already exists", map[string]any{"field": "full_name"})
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.NewNotFound("classroom", nil)
	}
	return apperrors.NewInternalError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// trimmedOrNil treats blank optional strings as absent.
func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
