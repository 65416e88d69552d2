package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// ClaimCodeAlphabet excludes visually confusable characters (0/O, 1/I/L) so
// codes survive being read aloud or retyped from a printout.
const ClaimCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// ClaimCodeLength is the length of the public lookup code.
const ClaimCodeLength = 8

// PinLength is the number of decimal digits in the redemption PIN.
const PinLength = 6

// GenerateClaimCode returns an 8-character code drawn uniformly from the
// unambiguous alphabet. Uniqueness is enforced at the storage layer; callers
// retry on collision.
func GenerateClaimCode() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(ClaimCodeAlphabet)))
	for i := 0; i < ClaimCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(ClaimCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// GeneratePIN returns 6 uniformly distributed decimal digits, generated
// independently of the claim code.
func GeneratePIN() (string, error) {
	var sb strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < PinLength; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// NormalizeClaimCode uppercases a user-supplied code; lookups are
// case-insensitive.
func NormalizeClaimCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
