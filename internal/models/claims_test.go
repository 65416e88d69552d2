package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	claims := &SessionClaims{
		Permissions: []string{PermissionReceiptRead, PermissionClaimIssue},
	}

	assert.True(t, claims.HasPermission(PermissionReceiptRead))
	assert.True(t, claims.HasPermission(PermissionClaimIssue))
	assert.False(t, claims.HasPermission(PermissionClaimVerify))
	assert.False(t, claims.HasPermission(""))
}

func TestGetDefaultPermissions(t *testing.T) {
	consumer := GetDefaultPermissions(RoleConsumer)
	assert.Contains(t, consumer, PermissionReceiptWrite)
	assert.Contains(t, consumer, PermissionClaimIssue)
	assert.NotContains(t, consumer, PermissionClaimVerify)
	assert.NotContains(t, consumer, PermissionRulesWrite)

	staff := GetDefaultPermissions(RoleStaff)
	assert.Contains(t, staff, PermissionClaimVerify)
	assert.Contains(t, staff, PermissionRulesWrite)
	assert.NotContains(t, staff, PermissionClaimIssue)

	assert.Empty(t, GetDefaultPermissions("auditor"))
}
