package handlers

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-mailarchive/internal/api/response"
	"github.com/welldanyogia/webrana-mailarchive/internal/models"
	"github.com/welldanyogia/webrana-mailarchive/internal/repository"
)

// RuleHandler handles the priority rule HTTP requests. Creating a rule that
// already exists answers 409.
type RuleHandler struct {
	rules repository.RuleRepository
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(rules repository.RuleRepository) *RuleHandler {
	return &RuleHandler{rules: rules}
}

// ListAddresses handles GET /api/rules/addresses
func (h *RuleHandler) ListAddresses(c echo.Context) error {
	rules, err := h.rules.ListAddressRules(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	if rules == nil {
		rules = []models.AddressRule{}
	}
	return response.Success(c, rules)
}

// CreateAddress handles POST /api/rules/addresses
func (h *RuleHandler) CreateAddress(c echo.Context) error {
	var req models.AddressRuleCreate
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	rule, err := h.rules.CreateAddressRule(c.Request().Context(), req.Address, req.Priority)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, rule)
}

// UpdateAddress handles PATCH /api/rules/addresses/:id
func (h *RuleHandler) UpdateAddress(c echo.Context) error {
	return h.update(c, h.rules.UpdateAddressRule)
}

// DeleteAddress handles DELETE /api/rules/addresses/:id
func (h *RuleHandler) DeleteAddress(c echo.Context) error {
	return h.delete(c, h.rules.DeleteAddressRule)
}

// ListWords handles GET /api/rules/dictionaries
func (h *RuleHandler) ListWords(c echo.Context) error {
	rules, err := h.rules.ListWordRules(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	if rules == nil {
		rules = []models.PriorityWord{}
	}
	return response.Success(c, rules)
}

// CreateWord handles POST /api/rules/dictionaries
func (h *RuleHandler) CreateWord(c echo.Context) error {
	var req models.WordRuleCreate
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	rule, err := h.rules.CreateWordRule(c.Request().Context(), req.Word, req.Priority)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, rule)
}

// UpdateWord handles PATCH /api/rules/dictionaries/:id
func (h *RuleHandler) UpdateWord(c echo.Context) error {
	return h.update(c, h.rules.UpdateWordRule)
}

// DeleteWord handles DELETE /api/rules/dictionaries/:id
func (h *RuleHandler) DeleteWord(c echo.Context) error {
	return h.delete(c, h.rules.DeleteWordRule)
}

func (h *RuleHandler) update(c echo.Context, apply func(ctx context.Context, id uint, priority int) error) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	var req models.PriorityUpdate
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := apply(c.Request().Context(), id, req.Priority); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *RuleHandler) delete(c echo.Context, apply func(ctx context.Context, id uint) error) error {
	id, err := idParam(c, "id")
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	if err := apply(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}
