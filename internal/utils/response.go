package utils

import (
	domainErrors "reclaim/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusNotFound, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// DomainErrorResponse maps a domain error to its HTTP status and sends the
// code/message pair verbatim, as the UI layer expects.
func DomainErrorResponse(c *fiber.Ctx, err *domainErrors.DomainError) error {
	status := fiber.StatusBadRequest
	switch err.Code {
	case "RECEIPT_NOT_FOUND", "CLAIM_NOT_FOUND", "RULE_NOT_FOUND":
		status = fiber.StatusNotFound
	case "CLAIM_CONFLICT", "ALREADY_USED":
		status = fiber.StatusConflict
	case "CLAIM_EXPIRED":
		status = fiber.StatusGone
	case "PIN_MISMATCH":
		status = fiber.StatusUnauthorized
	case "TOO_MANY_ATTEMPTS":
		status = fiber.StatusTooManyRequests
	}
	return Respond(c, status, fiber.Map{
		"error": err.Message,
		"code":  err.Code,
	})
}
