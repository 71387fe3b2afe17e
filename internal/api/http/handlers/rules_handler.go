package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/autoclose-service/internal/api/dto"
	"github.com/spec-kit/autoclose-service/internal/domain"
	"github.com/spec-kit/autoclose-service/internal/repository"
	apperrors "github.com/spec-kit/autoclose-service/pkg/util"
)

// RulesHandler manages the administrator rule CRUD endpoints.
type RulesHandler struct {
	rules repository.RuleRepository
}

// NewRulesHandler constructs handler.
func NewRulesHandler(rules repository.RuleRepository) *RulesHandler {
	return &RulesHandler{rules: rules}
}

// List GET /admin/autoclose/rules.
func (h *RulesHandler) List(c *fiber.Ctx) error {
	rules, err := h.rules.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.RuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, dto.RuleFromDomain(&rules[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /admin/autoclose/rules/:id.
func (h *RulesHandler) Get(c *fiber.Ctx) error {
	rule, err := h.rules.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RuleFromDomain(rule)})
}

// Create POST /admin/autoclose/rules.
func (h *RulesHandler) Create(c *fiber.Ctx) error {
	var req dto.SaveRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule, err := ruleFromRequest(req)
	if err != nil {
		return err
	}
	if err := h.rules.Create(c.UserContext(), rule); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.RuleFromDomain(rule)})
}

// Update PUT /admin/autoclose/rules/:id.
func (h *RulesHandler) Update(c *fiber.Ctx) error {
	var req dto.SaveRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	rule, err := ruleFromRequest(req)
	if err != nil {
		return err
	}
	rule.ID = c.Params("id")
	if err := h.rules.Update(c.UserContext(), rule); err != nil {
		return err
	}
	updated, err := h.rules.GetByID(c.UserContext(), rule.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RuleFromDomain(updated)})
}

// Delete DELETE /admin/autoclose/rules/:id.
func (h *RulesHandler) Delete(c *fiber.Ctx) error {
	if err := h.rules.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func ruleFromRequest(req dto.SaveRuleRequest) (*domain.AutoCloseRule, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if !req.ConditionType.Valid() {
		return nil, apperrors.NewValidationError("unknown condition_type", map[string]any{
			"condition_type": req.ConditionType,
		})
	}
	if req.AfterDays < 0 || req.AfterHours < 0 {
		return nil, apperrors.NewValidationError("after_days and after_hours must be non-negative", nil)
	}
	if req.AddNote && strings.TrimSpace(req.NoteText) == "" {
		return nil, apperrors.NewValidationError("note_text required when add_note is set", nil)
	}
	return &domain.AutoCloseRule{
		Name:           strings.TrimSpace(req.Name),
		IsActive:       req.IsActive,
		ConditionType:  req.ConditionType,
		ConditionValue: strings.TrimSpace(req.ConditionValue),
		AfterDays:      req.AfterDays,
		AfterHours:     req.AfterHours,
		NotifyUser:     req.NotifyUser,
		NotifyAgent:    req.NotifyAgent,
		AddNote:        req.AddNote,
		NoteText:       req.NoteText,
	}, nil
}
