package dto

import (
	"time"

	"github.com/spec-kit/autoclose-service/internal/domain"
)

// SaveRuleRequest payload for creating or updating a rule.
type SaveRuleRequest struct {
	Name           string                   `json:"name"`
	IsActive       bool                     `json:"is_active"`
	ConditionType  domain.RuleConditionType `json:"condition_type"`
	ConditionValue string                   `json:"condition_value"`
	AfterDays      int                      `json:"after_days"`
	AfterHours     int                      `json:"after_hours"`
	NotifyUser     bool                     `json:"notify_user"`
	NotifyAgent    bool                     `json:"notify_agent"`
	AddNote        bool                     `json:"add_note"`
	NoteText       string                   `json:"note_text"`
}

// RuleResponse response.
type RuleResponse struct {
	ID             string                   `json:"id"`
	Name           string                   `json:"name"`
	IsActive       bool                     `json:"is_active"`
	ConditionType  domain.RuleConditionType `json:"condition_type"`
	ConditionValue string                   `json:"condition_value"`
	AfterDays      int                      `json:"after_days"`
	AfterHours     int                      `json:"after_hours"`
	NotifyUser     bool                     `json:"notify_user"`
	NotifyAgent    bool                     `json:"notify_agent"`
	AddNote        bool                     `json:"add_note"`
	NoteText       string                   `json:"note_text"`
	TicketsClosed  int64                    `json:"tickets_closed"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// RuleFromDomain maps a rule to its response shape.
func RuleFromDomain(rule *domain.AutoCloseRule) RuleResponse {
	return RuleResponse{
		ID:             rule.ID,
		Name:           rule.Name,
		IsActive:       rule.IsActive,
		ConditionType:  rule.ConditionType,
		ConditionValue: rule.ConditionValue,
		AfterDays:      rule.AfterDays,
		AfterHours:     rule.AfterHours,
		NotifyUser:     rule.NotifyUser,
		NotifyAgent:    rule.NotifyAgent,
		AddNote:        rule.AddNote,
		NoteText:       rule.NoteText,
		TicketsClosed:  rule.TicketsClosed,
		CreatedAt:      rule.CreatedAt,
		UpdatedAt:      rule.UpdatedAt,
	}
}
