// Package token signs and verifies the portable claim credential. The token
// proves origin only; authoritative state (redeemed or not) always lives in
// the claim record.
package token

import (
	"errors"
	"strconv"
	"time"

	"reclaim/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingSecret = errors.New("token secret not configured")
	ErrInvalidToken  = errors.New("invalid claim token")
)

// Claims binds a claim to its receipt inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	ClaimID   uint `json:"claim_id"`
	ReceiptID uint `json:"receipt_id"`
}

// Service signs claim tokens with an HMAC secret held by the deployment, not
// by this codebase.
type Service struct {
	secret   []byte
	validity time.Duration
}

func NewService(secret string) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &Service{
		secret:   []byte(secret),
		validity: models.ClaimValidity,
	}, nil
}

// Sign creates a signed token binding the claim and receipt identities with
// a 90-day expiry. Returns the token string and its expiry instant.
func (s *Service) Sign(claimID, receiptID uint) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.validity)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "reclaim-api",
			Subject:   strconv.FormatUint(uint64(claimID), 10),
		},
		ClaimID:   claimID,
		ReceiptID: receiptID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates the signature and expiry and returns the verified payload.
func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
