// Package auth issues and verifies the RS256 tokens that gate the storefront
// and admin endpoints. Role names match what the web clients expect.
package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

// ClaimsKey is the request context key under which verified claims are stored
// by the authentication middleware.
const ClaimsKey ctxKey = 1

const (
	RoleAdmin  = "ADMIN"
	RoleSeller = "SELLER"
	RoleClient = "CLIENT"
)

const tokenTTL = 8 * time.Hour

// Claims are the JWT claims carried by every issued token. Subject holds the
// user id, Role one of the Role* constants.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Keys holds the signing key pair for token issuance and verification.
type Keys struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewKeys parses the PEM-encoded RSA key pair.
func NewKeys(privatePEM, publicPEM []byte) (*Keys, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return &Keys{privateKey: privateKey, publicKey: publicKey}, nil
}

// NewKeysFromPrivate derives the verification key from the private key.
// Used by tests and single-binary deployments that only configure one PEM.
func NewKeysFromPrivate(privateKey *rsa.PrivateKey) *Keys {
	return &Keys{privateKey: privateKey, publicKey: &privateKey.PublicKey}
}

// GenerateToken signs a token for the given user id and role.
func (k *Keys) GenerateToken(userID, role string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "pasteleria-api",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(k.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry of a bearer token and
// returns its claims.
func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return k.publicKey, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSeller, RoleClient:
		return true
	}
	return false
}
