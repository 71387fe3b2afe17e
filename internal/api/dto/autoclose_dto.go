package dto

import (
	"time"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// TicketOutcomeResponse reports one close attempt.
type TicketOutcomeResponse struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber int64  `json:"ticket_number"`
	RuleID       string `json:"rule_id"`
	RuleName     string `json:"rule_name"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// RunResponse is the result of one Process invocation.
type RunResponse struct {
	RunID     string                  `json:"run_id"`
	Processed int                     `json:"processed"`
	Closed    int                     `json:"closed"`
	Errors    []string                `json:"errors"`
	Details   []TicketOutcomeResponse `json:"details"`
}

// PreviewTicket is a sampled ticket in a dry run.
type PreviewTicket struct {
	ID        string    `json:"id"`
	Number    int64     `json:"number"`
	Subject   string    `json:"subject"`
	StatusID  int64     `json:"status_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RulePreviewResponse reports what one rule would close.
type RulePreviewResponse struct {
	RuleID      string          `json:"rule_id"`
	RuleName    string          `json:"rule_name"`
	TicketCount int             `json:"ticket_count"`
	Tickets     []PreviewTicket `json:"tickets"`
}

// PreviewResponse is the result of a dry run.
type PreviewResponse struct {
	Rules        []RulePreviewResponse `json:"rules"`
	TotalTickets int                   `json:"total_tickets"`
}

// RunFromDomain maps an engine result to its response shape.
func RunFromDomain(result *domain.EngineResult) RunResponse {
	details := make([]TicketOutcomeResponse, 0, len(result.Details))
	for _, outcome := range result.Details {
		details = append(details, TicketOutcomeResponse{
			TicketID:     outcome.TicketID,
			TicketNumber: outcome.TicketNumber,
			RuleID:       outcome.RuleID,
			RuleName:     outcome.RuleName,
			Success:      outcome.Success,
			Error:        outcome.Error,
		})
	}
	return RunResponse{
		RunID:     result.RunID,
		Processed: result.Processed,
		Closed:    result.Closed,
		Errors:    result.Errors,
		Details:   details,
	}
}

// PreviewFromDomain maps a preview result to its response shape.
func PreviewFromDomain(result *domain.PreviewResult) PreviewResponse {
	rules := make([]RulePreviewResponse, 0, len(result.Rules))
	for _, rp := range result.Rules {
		tickets := make([]PreviewTicket, 0, len(rp.Tickets))
		for _, t := range rp.Tickets {
			tickets = append(tickets, PreviewTicket{
				ID:        t.ID,
				Number:    t.Number,
				Subject:   t.Subject,
				StatusID:  t.StatusID,
				UpdatedAt: t.UpdatedAt,
			})
		}
		rules = append(rules, RulePreviewResponse{
			RuleID:      rp.RuleID,
			RuleName:    rp.RuleName,
			TicketCount: rp.TicketCount,
			Tickets:     tickets,
		})
	}
	return PreviewResponse{Rules: rules, TotalTickets: result.TotalTickets}
}
