// Package middleware provides HTTP middleware for the application. The
// session token is minted by the external account service; this layer only
// parses it and trusts its contents.
package middleware

import (
	"errors"
	"strings"

	"reclaim/internal/config"
	"reclaim/internal/models"
	"reclaim/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Auth validates the session token and adds the claims to the request
// context.
func Auth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.GetEnv("SESSION_SECRET", "")), nil
	})
	if err != nil || !token.Valid {
		return utils.Unauthorized(c, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok {
		return utils.Unauthorized(c, "invalid claims")
	}

	// Tokens minted before the permission list existed carry none; fall back
	// to the role's defaults.
	if len(claims.Permissions) == 0 {
		claims.Permissions = models.GetDefaultPermissions(claims.Role)
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	c.Locals("role", claims.Role)

	return c.Next()
}

// RequireRole restricts a route to one role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.SessionClaims)
		if !ok || claims == nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.Role != role {
			return utils.Forbidden(c, "insufficient permissions")
		}
		return c.Next()
	}
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*models.SessionClaims)
		if !ok || claims == nil {
			return utils.Unauthorized(c, "unauthorized")
		}
		if claims.HasPermission(permission) {
			return c.Next()
		}
		return utils.Forbidden(c, "insufficient permissions")
	}
}
