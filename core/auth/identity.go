// Package auth resolves the calling identity and role handed to the core.
// The core trusts what it is given; authentication happens here at the
// transport boundary, not inside the contract logic.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller as seen by scoping and audit generation.
type Identity struct {
	UserID string
	Role   string
}

// FromToken parses a signed bearer token into an Identity. Claims: "sub" is
// the user id, "role" is patient or auditor.
func FromToken(tokenString, secret string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return Identity{}, fmt.Errorf("token missing sub or role claim")
	}
	return Identity{UserID: sub, Role: role}, nil
}

// NewToken mints a signed token for an identity. Used by tests and the CLI's
// login helper; a real deployment would issue tokens from an identity
// provider instead.
func NewToken(id Identity, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  id.UserID,
		"role": id.Role,
	})
	return token.SignedString([]byte(secret))
}
