package handlers

import (
	"errors"
	"log"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to their HTTP shape; anything else is an
// unexpected failure and becomes a 500.
func respondError(c *fiber.Ctx, err error) error {
	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		return utils.DomainErrorResponse(c, domainErr)
	}
	log.Printf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return utils.InternalError(c, "internal error")
}
