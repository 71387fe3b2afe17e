package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

func staleTicket(id string, number int64, statusID int64, age time.Duration) domain.Ticket {
	return domain.Ticket{
		ID:          id,
		Number:      number,
		Subject:     "subject " + id,
		StatusID:    statusID,
		RequesterID: "user-" + id,
		UpdatedAt:   time.Now().Add(-age),
	}
}

func TestMatchUserConfirmedAlwaysEmpty(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{staleTicket("t1", 1, 5, 96*time.Hour)}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionUserConfirmed}
	got := matcher.Match(context.Background(), rule, time.Now())

	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
	if tickets.listCalls != 0 {
		t.Errorf("expected no store query for USER_CONFIRMED, got %d", tickets.listCalls)
	}
}

func TestMatchStatusCondition(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{
		staleTicket("t1", 1, 5, 96*time.Hour),
		staleTicket("t2", 2, 7, 96*time.Hour),
	}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{
		ID:             "r1",
		ConditionType:  domain.ConditionStatus,
		ConditionValue: "5",
		AfterDays:      3,
	}
	got := matcher.Match(context.Background(), rule, time.Now())

	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected only t1, got %v", got)
	}
	if tickets.lastFilter.StatusID == nil || *tickets.lastFilter.StatusID != 5 {
		t.Errorf("expected status filter 5, got %v", tickets.lastFilter.StatusID)
	}
}

func TestMatchStatusConditionBadValue(t *testing.T) {
	tickets := newMockTicketRepo()
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionStatus, ConditionValue: "open"}
	if got := matcher.Match(context.Background(), rule, time.Now()); len(got) != 0 {
		t.Errorf("expected no matches for unparseable status value, got %d", len(got))
	}
	if tickets.listCalls != 0 {
		t.Errorf("expected no store query, got %d", tickets.listCalls)
	}
}

func TestMatchPendingResolvesStatusSet(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{
		staleTicket("t1", 1, 3, 96*time.Hour),
		staleTicket("t2", 2, 9, 96*time.Hour),
	}
	statuses := &mockStatusRepo{pendingIDs: []int64{3, 4}}
	matcher := newRuleMatcher(tickets, statuses, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionPending, AfterDays: 1}
	got := matcher.Match(context.Background(), rule, time.Now())

	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected only t1, got %v", got)
	}
	if len(tickets.lastFilter.StatusIDs) != 2 {
		t.Errorf("expected status id set of 2, got %v", tickets.lastFilter.StatusIDs)
	}
}

func TestMatchPendingEmptySetShortCircuits(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{staleTicket("t1", 1, 3, 96*time.Hour)}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionPending}
	if got := matcher.Match(context.Background(), rule, time.Now()); len(got) != 0 {
		t.Errorf("expected no matches when no pending statuses exist, got %d", len(got))
	}
	if tickets.listCalls != 0 {
		t.Errorf("expected no ticket query, got %d", tickets.listCalls)
	}
}

func TestMatchPendingLookupFailureIsZeroMatches(t *testing.T) {
	tickets := newMockTicketRepo()
	statuses := &mockStatusRepo{pendingErr: errors.New("db down")}
	matcher := newRuleMatcher(tickets, statuses, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionPending}
	if got := matcher.Match(context.Background(), rule, time.Now()); len(got) != 0 {
		t.Errorf("expected no matches on lookup failure, got %d", len(got))
	}
}

func TestMatchNoResponseUsesOnlyCutoff(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{
		staleTicket("old", 1, 2, 96*time.Hour),
		staleTicket("fresh", 2, 2, time.Hour),
	}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionNoResponse, AfterDays: 2}
	got := matcher.Match(context.Background(), rule, time.Now())

	if len(got) != 1 || got[0].ID != "old" {
		t.Fatalf("expected only the stale ticket, got %v", got)
	}
	if tickets.lastFilter.StatusID != nil || len(tickets.lastFilter.StatusIDs) != 0 {
		t.Errorf("NO_RESPONSE must not constrain status, got %+v", tickets.lastFilter)
	}
}

func TestMatchExcludesFinalStatuses(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.finalStatuses[9] = true
	tickets.tickets = []domain.Ticket{
		staleTicket("closed", 1, 9, 96*time.Hour),
		staleTicket("open", 2, 2, 96*time.Hour),
	}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionNoResponse, AfterDays: 1}
	got := matcher.Match(context.Background(), rule, time.Now())

	for _, ticket := range got {
		if ticket.StatusID == 9 {
			t.Errorf("matcher returned final-status ticket %s", ticket.ID)
		}
	}
	if len(got) != 1 {
		t.Errorf("expected 1 match, got %d", len(got))
	}
}

func TestMatchQueryFailureIsZeroMatches(t *testing.T) {
	tickets := newMockTicketRepo()
	tickets.listErr = errors.New("connection reset")
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionNoResponse}
	if got := matcher.Match(context.Background(), rule, time.Now()); len(got) != 0 {
		t.Errorf("expected no matches on query failure, got %d", len(got))
	}
}

func TestMatchCutoffIsInclusive(t *testing.T) {
	now := time.Now()
	tickets := newMockTicketRepo()
	tickets.tickets = []domain.Ticket{{
		ID:        "boundary",
		Number:    1,
		StatusID:  2,
		UpdatedAt: cutoffBefore(now, 2, 0),
	}}
	matcher := newRuleMatcher(tickets, &mockStatusRepo{}, zap.NewNop())

	rule := domain.AutoCloseRule{ID: "r1", ConditionType: domain.ConditionNoResponse, AfterDays: 2}
	if got := matcher.Match(context.Background(), rule, now); len(got) != 1 {
		t.Errorf("ticket updated exactly at the cutoff must be eligible, got %d matches", len(got))
	}
}
