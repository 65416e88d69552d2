package handlers

import (
	"reclaim/internal/services/verify"
	"reclaim/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// MerchantHandler exposes the merchant-side verification state machine.
type MerchantHandler struct {
	verifier *verify.Service
}

func NewMerchantHandler(verifier *verify.Service) *MerchantHandler {
	return &MerchantHandler{verifier: verifier}
}

// Lookup finds a claim by code without the PIN. It reports expiry/usage flags
// so a terminal can show status before the customer relays the PIN.
func (h *MerchantHandler) Lookup(c *fiber.Ctx) error {
	result, err := h.verifier.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}

// Verify checks the relayed PIN and moves the claim to verified.
func (h *MerchantHandler) Verify(c *fiber.Ctx) error {
	staffID := c.Locals("userID").(uint)

	var body struct {
		Pin string `json:"pin"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claim, err := h.verifier.Verify(c.Context(), staffID, c.Params("code"), body.Pin)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"claim": claim})
}

// Redeem approves a refund, fully or partially depending on the amount.
func (h *MerchantHandler) Redeem(c *fiber.Ctx) error {
	staffID := c.Locals("userID").(uint)

	var body struct {
		Pin          string  `json:"pin"`
		RefundAmount float64 `json:"refund_amount"`
		Notes        string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claim, err := h.verifier.Redeem(c.Context(), staffID, c.Params("code"), body.Pin, body.RefundAmount, body.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"claim": claim})
}

// Refuse rejects a verified claim with a reason.
func (h *MerchantHandler) Refuse(c *fiber.Ctx) error {
	staffID := c.Locals("userID").(uint)

	var body struct {
		Pin    string `json:"pin"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	claim, err := h.verifier.Refuse(c.Context(), staffID, c.Params("code"), body.Pin, body.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"claim": claim})
}

// Attempts returns the audit trail for a claim, for dispute resolution.
func (h *MerchantHandler) Attempts(c *fiber.Ctx) error {
	attempts, err := h.verifier.Attempts(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"attempts": attempts})
}
