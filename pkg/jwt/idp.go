package jwt

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// IdPClaims is the payload of tokens minted by the corporate identity
// provider. The IdP uses different field names than the portal, and older
// tokens carry the pre-rename fields, so both forms are accepted:
// - current form: employee_id, display_name, email, groups
// - legacy form: user_id, nickname
type IdPClaims struct {
	jwt.RegisteredClaims
	EmployeeID  string   `json:"employee_id"`
	DisplayName string   `json:"display_name"`
	Email       string   `json:"email"`
	Groups      []string `json:"groups,omitempty"`
	// legacy form
	UserID   string `json:"user_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// GetUserID returns the employee ID, checking both forms.
func (c *IdPClaims) GetUserID() string {
	if c.EmployeeID != "" {
		return c.EmployeeID
	}
	return c.UserID
}

// GetUserName returns the display name, checking both forms.
func (c *IdPClaims) GetUserName() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Nickname
}

// IsAdmin reports whether the token carries the portal admin group.
func (c *IdPClaims) IsAdmin() bool {
	for _, g := range c.Groups {
		if g == "portal-admins" {
			return true
		}
	}
	return false
}

// IdPManager verifies identity-provider tokens. The IdP signs with its own
// shared secret, distinct from the portal's.
type IdPManager struct {
	secretKey []byte
}

// NewIdPManager creates a verifier for identity-provider tokens.
func NewIdPManager(secret string) *IdPManager {
	return &IdPManager{
		secretKey: []byte(secret),
	}
}

// VerifyToken validates an identity-provider token and returns its claims.
func (m *IdPManager) VerifyToken(tokenString string) (*IdPClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdPClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*IdPClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
