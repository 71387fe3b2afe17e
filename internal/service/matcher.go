package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/repository"
)

// ruleMatcher resolves the set of tickets eligible under one rule. It never
// fails a batch: a store error or an unusable rule value degrades to zero
// matches for that rule, logged.
type ruleMatcher struct {
	tickets  repository.TicketRepository
	statuses repository.StatusRepository
	logger   *zap.Logger
}

func newRuleMatcher(tickets repository.TicketRepository, statuses repository.StatusRepository, logger *zap.Logger) *ruleMatcher {
	return &ruleMatcher{tickets: tickets, statuses: statuses, logger: logger}
}

// Match returns the tickets eligible under rule as of now. Final-status
// tickets are excluded at the store level for every condition type.
func (m *ruleMatcher) Match(ctx context.Context, rule domain.AutoCloseRule, now time.Time) []domain.Ticket {
	cutoff := cutoffBefore(now, rule.AfterDays, rule.AfterHours)
	filter := repository.EligibilityFilter{UpdatedBefore: cutoff}

	switch rule.ConditionType {
	case domain.ConditionUserConfirmed:
		// Closed only through an explicit user confirmation elsewhere,
		// never by the periodic scan.
		return nil

	case domain.ConditionStatus:
		statusID, err := strconv.ParseInt(rule.ConditionValue, 10, 64)
		if err != nil {
			m.logger.Warn("rule has non-numeric status condition value",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.String("condition_value", rule.ConditionValue))
			return nil
		}
		filter.StatusID = &statusID

	case domain.ConditionPending:
		ids, err := m.statuses.FindIDsByNameLike(ctx, "pending")
		if err != nil {
			m.logger.Error("pending status lookup failed",
				zap.String("rule_id", rule.ID),
				zap.String("rule_name", rule.Name),
				zap.Error(err))
			return nil
		}
		if len(ids) == 0 {
			return nil
		}
		filter.StatusIDs = ids

	case domain.ConditionNoResponse:
		// The store exposes no last-responder signal; staleness by
		// updated_at is the documented approximation for this type.

	default:
		m.logger.Warn("rule has unknown condition type",
			zap.String("rule_id", rule.ID),
			zap.String("condition_type", string(rule.ConditionType)))
		return nil
	}

	tickets, err := m.tickets.ListEligible(ctx, filter)
	if err != nil {
		m.logger.Error("ticket query failed for rule",
			zap.String("rule_id", rule.ID),
			zap.String("rule_name", rule.Name),
			zap.Error(err))
		return nil
	}
	return tickets
}
