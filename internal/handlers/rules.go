package handlers

import (
	"errors"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/models"
	"reclaim/internal/repositories"
	"reclaim/internal/services/policy"
	"reclaim/internal/utils"
	"reclaim/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RuleHandler manages per-merchant policy overrides. Edits only affect
// receipts confirmed afterwards; computed dates on older receipts are not
// recomputed.
type RuleHandler struct {
	rules repositories.MerchantRuleRepository
}

func NewRuleHandler(rules repositories.MerchantRuleRepository) *RuleHandler {
	return &RuleHandler{rules: rules}
}

type ruleInput struct {
	MerchantName     string `json:"merchant_name"`
	ReturnPolicyDays int    `json:"return_policy_days"`
	WarrantyMonths   int    `json:"warranty_months"`
}

func (h *RuleHandler) List(c *fiber.Ctx) error {
	rules, err := h.rules.List()
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"rules": rules})
}

func (h *RuleHandler) Create(c *fiber.Ctx) error {
	var body ruleInput
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.MerchantRule(body.MerchantName, body.ReturnPolicyDays, body.WarrantyMonths)
	if !v.Valid() {
		return utils.BadRequest(c, v.Summary())
	}

	rule := &models.MerchantRule{
		MerchantName:     policy.NormalizeMerchant(body.MerchantName),
		ReturnPolicyDays: body.ReturnPolicyDays,
		WarrantyMonths:   body.WarrantyMonths,
	}
	if err := h.rules.Create(rule); err != nil {
		if errors.Is(err, repositories.ErrDuplicateRule) {
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "rule already exists for merchant"})
		}
		return respondError(c, err)
	}
	return utils.Created(c, rule)
}

func (h *RuleHandler) Update(c *fiber.Ctx) error {
	ruleID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid rule id")
	}

	var body ruleInput
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	v := validation.New()
	v.MerchantRule(body.MerchantName, body.ReturnPolicyDays, body.WarrantyMonths)
	if !v.Valid() {
		return utils.BadRequest(c, v.Summary())
	}

	rule := &models.MerchantRule{
		MerchantName:     policy.NormalizeMerchant(body.MerchantName),
		ReturnPolicyDays: body.ReturnPolicyDays,
		WarrantyMonths:   body.WarrantyMonths,
	}
	rule.ID = ruleID

	if err := h.rules.Update(rule); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, rule)
}

func (h *RuleHandler) Delete(c *fiber.Ctx) error {
	ruleID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid rule id")
	}

	if err := h.rules.Delete(ruleID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return utils.DomainErrorResponse(c, domainErrors.ErrRuleNotFound)
		}
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"deleted": true})
}
