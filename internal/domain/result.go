package domain

// TicketOutcome records the result of one close attempt.
type TicketOutcome struct {
	TicketID     string
	TicketNumber int64
	RuleID       string
	RuleName     string
	Success      bool
	Error        string
}

// EngineResult aggregates one engine pass. It is created fresh per
// invocation and never persisted; only rule counters survive a run.
type EngineResult struct {
	RunID     string
	Processed int
	Closed    int
	Errors    []string
	Details   []TicketOutcome
}

// RulePreview reports what one rule would close in a dry run.
type RulePreview struct {
	RuleID      string
	RuleName    string
	TicketCount int
	Tickets     []Ticket
}

// PreviewResult is the read-only counterpart of EngineResult.
type PreviewResult struct {
	Rules        []RulePreview
	TotalTickets int
}
