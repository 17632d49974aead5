package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/accept/school-service/internal/config"
	"github.com/accept/school-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

var notifiedEvents = []events.EventType{
	events.EventEmployeeRegistered,
	events.EventEmployeeUpdated,
	events.EventEmployeeDeleted,
	events.EventEmployeeLoggedIn,
	events.EventClassroomCreated,
	events.EventClassroomUpdated,
	events.EventClassroomDeleted,
	events.EventStudentCreated,
	events.EventStudentUpdated,
	events.EventStudentDeleted,
}

// Subscriptions lists the event types Handle reacts to.
func (n *NotificationService) Subscriptions() []events.EventType {
	return append([]events.EventType(nil), notifiedEvents...)
}

// RegisterHandlers subscribes Handle synchronously to every notified event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, et := range notifiedEvents {
		n.dispatcher.Subscribe(et, n.Handle)
	}
}

// Handle routes one event to its notification handler.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventEmployeeRegistered:
		return n.handleEmployeeRegistered(ctx, event)
	case events.EventEmployeeUpdated:
		return n.handleEmployeeUpdated(ctx, event)
	case events.EventEmployeeDeleted, events.EventEmployeeLoggedIn:
		return n.handleAudit(ctx, event)
	default:
		return n.handleSchoolChange(ctx, event)
	}
}

func (n *NotificationService) handleEmployeeRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeRegistered", zap.String("employee_id", event.EntityID))
	if payload, ok := event.Payload.(events.EmployeePayload); ok {
		n.sendEmailNotificationStub(ctx, event, payload.Email)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeUpdated",
		zap.String("employee_id", event.EntityID),
		zap.String("actor", event.Actor.Email),
		zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.EmployeeUpdatedPayload); ok && payload.PasswordChanged {
		n.sendEmailNotificationStub(ctx, event, "")
	}
	return nil
}

func (n *NotificationService) handleAudit(_ context.Context, event events.Event) error {
	n.logger.Info("EmployeeActivity",
		zap.String("event_type", string(event.Type)),
		zap.String("employee_id", event.EntityID))
	return nil
}

func (n *NotificationService) handleSchoolChange(ctx context.Context, event events.Event) error {
	n.logger.Info("SchoolRecordChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID),
		zap.String("actor", event.Actor.Email),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("entity_id", event.EntityID),
		zap.String("event_type", string(event.Type)))
}
