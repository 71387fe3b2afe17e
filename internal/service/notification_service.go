package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/config"
	"github.com/spec-kit/autoclose-service/internal/events"
)

// NotificationService mirrors engine events to the operator-facing
// channels (email/webhook stubs). Per-user notification records are
// written by the closer through the notification repository; this service
// only covers operational signalling.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to engine events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAutoClosed, n.handleTicketAutoClosed)
	n.dispatcher.Subscribe(events.EventAutoCloseRunFinished, n.handleRunFinished)
}

func (n *NotificationService) handleTicketAutoClosed(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketAutoClosed", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleRunFinished(ctx context.Context, event events.Event) error {
	n.logger.Info("AutoCloseRunFinished", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("run_id", event.RunID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("run_id", event.RunID),
		zap.String("event_type", string(event.Type)))
}
