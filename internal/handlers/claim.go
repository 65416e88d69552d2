package handlers

import (
	"encoding/base64"

	"reclaim/internal/services/claim"
	"reclaim/internal/services/verify"
	"reclaim/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ClaimHandler struct {
	claims   *claim.Service
	verifier *verify.Service
}

func NewClaimHandler(claims *claim.Service, verifier *verify.Service) *ClaimHandler {
	return &ClaimHandler{claims: claims, verifier: verifier}
}

// Issue creates a claim for one of the caller's receipts. The response is the
// only place the plaintext PIN ever appears.
func (h *ClaimHandler) Issue(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var body struct {
		ReceiptID uint   `json:"receipt_id"`
		ClaimType string `json:"claim_type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	result, err := h.claims.Issue(c.Context(), userID, body.ReceiptID, body.ClaimType)
	if err != nil {
		return respondError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"claim_code": result.Claim.ClaimCode,
		"pin":        result.Pin,
		"token":      result.Token,
		"claim_type": result.Claim.ClaimType,
		"expires_at": result.Claim.ExpiresAt,
		"qr_png":     base64.StdEncoding.EncodeToString(result.QRPNG),
	})
}

// QRImage renders the claim code as a PNG for display or download.
func (h *ClaimHandler) QRImage(c *fiber.Ctx) error {
	result, err := h.verifier.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}

	png, err := utils.EncodeClaimCodeQR(result.Claim.ClaimCode)
	if err != nil {
		return respondError(c, err)
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}
