package domain

import "time"

// RuleConditionType discriminates the matching strategy of an auto-close rule.
type RuleConditionType string

const (
	// ConditionStatus matches tickets in the exact status named by the
	// rule's condition value.
	ConditionStatus RuleConditionType = "STATUS"
	// ConditionPending matches tickets whose status name contains
	// "pending" (case-insensitive).
	ConditionPending RuleConditionType = "PENDING"
	// ConditionNoResponse matches tickets stale past the cutoff regardless
	// of which party last responded. The ticket store exposes no
	// last-responder signal, so time-since-update is the only criterion.
	ConditionNoResponse RuleConditionType = "NO_RESPONSE"
	// ConditionUserConfirmed is never matched by the periodic scan; tickets
	// under such rules are closed by an explicit user confirmation outside
	// this engine.
	ConditionUserConfirmed RuleConditionType = "USER_CONFIRMED"
)

// Valid reports whether t is one of the known condition types.
func (t RuleConditionType) Valid() bool {
	switch t {
	case ConditionStatus, ConditionPending, ConditionNoResponse, ConditionUserConfirmed:
		return true
	}
	return false
}

// AutoCloseRule is an administrator-owned policy describing when and how to
// auto-close matching tickets. The engine reads every field and writes only
// TicketsClosed (and the update timestamp) after a sweep.
type AutoCloseRule struct {
	ID             string
	Name           string
	IsActive       bool
	ConditionType  RuleConditionType
	ConditionValue string
	AfterDays      int
	AfterHours     int
	NotifyUser     bool
	NotifyAgent    bool
	AddNote        bool
	NoteText       string
	TicketsClosed  int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
