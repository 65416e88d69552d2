package models

import "github.com/golang-jwt/jwt/v5"

// Roles supplied by the external account service
const (
	RoleConsumer = "consumer"
	RoleStaff    = "staff"
)

// Application permissions
const (
	PermissionReceiptRead  = "receipt:read"
	PermissionReceiptWrite = "receipt:write"
	PermissionClaimIssue   = "claim:issue"
	PermissionClaimVerify  = "claim:verify"
	PermissionRulesWrite   = "rules:write"
)

// SessionClaims is the session token payload minted by the external account
// service. The core trusts it completely and performs no authentication itself.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID      uint     `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *SessionClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleConsumer:
		return []string{
			PermissionReceiptRead,
			PermissionReceiptWrite,
			PermissionClaimIssue,
		}
	case RoleStaff:
		return []string{
			PermissionReceiptRead,
			PermissionClaimVerify,
			PermissionRulesWrite,
		}
	default:
		return []string{}
	}
}
