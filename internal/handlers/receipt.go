package handlers

import (
	"io"
	"strconv"

	"reclaim/internal/services/receipt"
	"reclaim/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// maxUploadBytes caps receipt uploads at 10 MiB.
const maxUploadBytes = 10 << 20

type ReceiptHandler struct {
	receipts *receipt.Service
}

func NewReceiptHandler(receipts *receipt.Service) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Scan accepts a receipt file (multipart field "file") or a raw text body and
// returns the extraction preview. Nothing is persisted; the preview always
// succeeds, degrading to low confidence on unreadable input.
func (h *ReceiptHandler) Scan(c *fiber.Ctx) error {
	var data []byte
	contentType := c.Get("Content-Type")

	if file, err := c.FormFile("file"); err == nil {
		if file.Size > maxUploadBytes {
			return utils.BadRequest(c, "file too large")
		}
		f, err := file.Open()
		if err != nil {
			return utils.BadRequest(c, "could not read uploaded file")
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return utils.BadRequest(c, "could not read uploaded file")
		}
		contentType = file.Header.Get("Content-Type")
	} else {
		data = c.Body()
	}

	preview := h.receipts.Scan(c.Context(), data, contentType)
	return utils.Success(c, preview)
}

// Confirm persists the reviewed preview fields as a receipt.
func (h *ReceiptHandler) Confirm(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var input receipt.ConfirmInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	rec, created, err := h.receipts.Confirm(c.Context(), userID, input)
	if err != nil {
		return respondError(c, err)
	}

	if !created {
		return utils.Success(c, fiber.Map{"receipt": rec, "duplicate": true})
	}
	return utils.Created(c, fiber.Map{"receipt": rec, "duplicate": false})
}

// Get returns one receipt owned by the caller.
func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	receiptID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid receipt id")
	}

	rec, err := h.receipts.Get(c.Context(), userID, receiptID)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, rec)
}

// List returns the caller's receipts.
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	receipts, err := h.receipts.List(c.Context(), userID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"receipts": receipts})
}

// UpdateCategory changes the receipt's category, the only user-editable field
// after confirmation.
func (h *ReceiptHandler) UpdateCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	receiptID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid receipt id")
	}

	var body struct {
		Category string `json:"category"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request body")
	}

	rec, err := h.receipts.UpdateCategory(c.Context(), userID, receiptID, body.Category)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, rec)
}

// Delete removes a receipt. Receipts referenced by an active claim cannot be
// deleted.
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	receiptID, err := parseID(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "invalid receipt id")
	}

	if err := h.receipts.Delete(c.Context(), userID, receiptID); err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"deleted": true})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
