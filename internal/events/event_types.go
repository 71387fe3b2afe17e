package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAutoClosed     EventType = "autoclose_ticket_closed"
	EventAutoCloseRunFinished EventType = "autoclose_run_completed"
)

// Event represents a domain event emitted by the engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RunID     string      `json:"run_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketAutoClosedPayload payload.
type TicketAutoClosedPayload struct {
	TicketID     string `json:"ticket_id"`
	TicketNumber int64  `json:"ticket_number"`
	RuleID       string `json:"rule_id"`
	RuleName     string `json:"rule_name"`
}

// RunFinishedPayload payload.
type RunFinishedPayload struct {
	Processed  int           `json:"processed"`
	Closed     int           `json:"closed"`
	ErrorCount int           `json:"error_count"`
	Duration   time.Duration `json:"duration"`
}
