package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/repository"
)

// ticketCloser executes the closing transaction for one ticket. Only the
// status transition decides the outcome; the note and the notification
// records are a best-effort tier whose failures are logged and swallowed.
type ticketCloser struct {
	tickets       repository.TicketRepository
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func newTicketCloser(
	tickets repository.TicketRepository,
	messages repository.MessageRepository,
	notifications repository.NotificationRepository,
	logger *zap.Logger,
) *ticketCloser {
	return &ticketCloser{
		tickets:       tickets,
		messages:      messages,
		notifications: notifications,
		logger:        logger,
	}
}

// Close transitions the ticket into the closed status and performs the
// rule's optional side effects.
func (c *ticketCloser) Close(ctx context.Context, ticket domain.Ticket, rule domain.AutoCloseRule, closedStatusID int64) domain.TicketOutcome {
	outcome := domain.TicketOutcome{
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		RuleID:       rule.ID,
		RuleName:     rule.Name,
	}

	if err := c.tickets.Close(ctx, ticket.ID, closedStatusID); err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Success = true

	if rule.AddNote && strings.TrimSpace(rule.NoteText) != "" {
		note := &domain.TicketMessage{
			TicketID:    ticket.ID,
			AuthorType:  domain.AuthorTypeSystem,
			MessageType: domain.MessageTypeInternalNote,
			Body:        rule.NoteText,
		}
		if err := c.messages.Create(ctx, note); err != nil {
			// The ticket is already closed; a cosmetic failure must not
			// revert the user-visible state.
			c.logger.Warn("failed to append auto-close note",
				zap.String("ticket_id", ticket.ID),
				zap.Int64("ticket_number", ticket.Number),
				zap.String("rule_id", rule.ID),
				zap.Error(err))
		}
	}

	if rule.NotifyUser || rule.NotifyAgent {
		c.sendNotifications(ctx, ticket, rule)
	}

	return outcome
}

func (c *ticketCloser) sendNotifications(ctx context.Context, ticket domain.Ticket, rule domain.AutoCloseRule) {
	contact, err := c.tickets.GetContact(ctx, ticket.ID)
	if err != nil {
		c.logger.Warn("failed to load ticket contact for notifications",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}

	message := fmt.Sprintf("Ticket #%d (%s) was closed automatically by rule %q.",
		contact.Number, contact.Subject, rule.Name)

	var records []domain.Notification
	if rule.NotifyUser {
		records = append(records, notificationFor(contact.RequesterID, contact.TicketID, message))
	}
	if rule.NotifyAgent && contact.AssignedToID != nil {
		records = append(records, notificationFor(*contact.AssignedToID, contact.TicketID, message))
	}
	if len(records) == 0 {
		return
	}

	if err := c.notifications.CreateBatch(ctx, records); err != nil {
		c.logger.Warn("failed to insert auto-close notifications",
			zap.String("ticket_id", ticket.ID),
			zap.Int("count", len(records)),
			zap.Error(err))
	}
}

func notificationFor(userID, ticketID, message string) domain.Notification {
	return domain.Notification{
		UserID:        userID,
		Title:         "Ticket closed automatically",
		Message:       message,
		Type:          domain.NotificationTicketClosed,
		ReferenceType: "ticket",
		ReferenceID:   ticketID,
		IsRead:        false,
	}
}
