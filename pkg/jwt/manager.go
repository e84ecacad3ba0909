package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken token is malformed, has a bad signature or wrong method
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken token is past its expiry
	ErrExpiredToken = errors.New("expired token")
)

// Claims is the portal JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname,omitempty"`
	Level    int    `json:"level,omitempty"`
}

// Manager issues and verifies portal tokens.
type Manager struct {
	secretKey []byte
	expiresIn time.Duration
	refreshIn time.Duration
}

// NewManager creates a token manager. expiresIn/refreshIn are the access and
// refresh token lifetimes.
func NewManager(secret string, expiresIn, refreshIn time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secret),
		expiresIn: expiresIn,
		refreshIn: refreshIn,
	}
}

// GenerateAccessToken issues a signed access token for the given user.
func (m *Manager) GenerateAccessToken(userID, nickname string, level int) (string, error) {
	return m.generate(uuid.New().String(), userID, nickname, level, m.expiresIn)
}

// GenerateRefreshToken issues a signed refresh token carrying only the user ID.
func (m *Manager) GenerateRefreshToken(userID string) (string, error) {
	return m.generate(uuid.New().String(), userID, "", 0, m.refreshIn)
}

// GenerateTokenPair issues an access and refresh token sharing one token ID,
// so a single denylist entry revokes both on logout.
func (m *Manager) GenerateTokenPair(userID, nickname string, level int) (access, refresh string, err error) {
	jti := uuid.New().String()
	access, err = m.generate(jti, userID, nickname, level, m.expiresIn)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.generate(jti, userID, "", 0, m.refreshIn)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// RefreshTTL returns the refresh token lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshIn
}

func (m *Manager) generate(jti, userID, nickname string, level int, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Nickname: nickname,
		Level:    level,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// VerifyToken validates a portal token and returns its claims.
func (m *Manager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
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

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
