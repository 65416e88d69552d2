package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateClaimCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateClaimCode()
		require.NoError(t, err)
		assert.Len(t, code, ClaimCodeLength)
		for _, r := range code {
			assert.Contains(t, ClaimCodeAlphabet, string(r))
		}
		seen[code] = true
	}
	// 50 draws from a 31^8 space colliding would point at a broken generator.
	assert.Len(t, seen, 50)
}

func TestGenerateClaimCodeExcludesConfusables(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I", "L"} {
		assert.NotContains(t, ClaimCodeAlphabet, banned)
	}
}

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 20; i++ {
		pin, err := GeneratePIN()
		require.NoError(t, err)
		assert.Len(t, pin, PinLength)
		for _, r := range pin {
			assert.True(t, r >= '0' && r <= '9', "pin contains non-digit %q", r)
		}
	}
}

func TestNormalizeClaimCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abcd2345", "ABCD2345"},
		{"  ABCD2345  ", "ABCD2345"},
		{"AbCd2345", "ABCD2345"},
		{strings.ToLower(ClaimCodeAlphabet), ClaimCodeAlphabet},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeClaimCode(tt.input))
	}
}
