package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nexthub/intranet-backend/internal/common"
	"github.com/nexthub/intranet-backend/pkg/cache"
	"github.com/nexthub/intranet-backend/pkg/jwt"
)

// Admin level granted to members of the portal-admins IdP group. Regular
// employees get level 1.
const (
	LevelAdmin    = 10
	LevelEmployee = 1
)

// AuthService turns identity-provider tokens into portal sessions. The portal
// keeps no user table: identity lives in the IdP, the portal only re-signs
// the claims it needs.
type AuthService struct {
	jwtManager *jwt.Manager
	idpManager *jwt.IdPManager
	cache      cache.Service
}

// NewAuthService creates an AuthService. cacheService may be nil, in which
// case logout denylisting degrades to a no-op.
func NewAuthService(jwtManager *jwt.Manager, idpManager *jwt.IdPManager, cacheService cache.Service) *AuthService {
	return &AuthService{
		jwtManager: jwtManager,
		idpManager: idpManager,
		cache:      cacheService,
	}
}

// Session is the token pair handed to the frontend after exchange or refresh.
type Session struct {
	UserID       string `json:"user_id"`
	Nickname     string `json:"nickname"`
	Level        int    `json:"level"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Exchange verifies an identity-provider token and issues portal tokens.
func (s *AuthService) Exchange(idpToken string) (*Session, error) {
	claims, err := s.idpManager.VerifyToken(idpToken)
	if err != nil {
		return nil, fmt.Errorf("invalid identity provider token: %w", err)
	}

	userID := claims.GetUserID()
	if userID == "" {
		return nil, errors.New("employee id not found in token")
	}

	level := LevelEmployee
	if claims.IsAdmin() {
		level = LevelAdmin
	}
	return s.issue(userID, claims.GetUserName(), level)
}

// Refresh validates a refresh token and issues a new token pair. Tokens
// denylisted by a logout are rejected even before expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}
	if s.IsTokenDenied(ctx, claims.ID) {
		return nil, common.ErrUnauthorized
	}
	return s.issue(claims.UserID, claims.Nickname, claims.Level)
}

// Logout revokes the presented session. The access and refresh tokens of a
// pair share one token ID, so a single denylist entry covers both; it is kept
// until the refresh token would have expired anyway. Unparseable tokens are
// ignored: logging out with a dead token is still a successful logout.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	if s.cache == nil || accessToken == "" {
		return
	}
	claims, err := s.jwtManager.VerifyToken(accessToken)
	if err != nil || claims.ID == "" {
		return
	}
	ttl := s.jwtManager.RefreshTTL()
	if claims.IssuedAt != nil {
		ttl = time.Until(claims.IssuedAt.Time.Add(s.jwtManager.RefreshTTL()))
	}
	if ttl <= 0 {
		return
	}
	_ = s.cache.DenyToken(ctx, claims.ID, ttl)
}

// IsTokenDenied reports whether the token ID was revoked by a logout.
func (s *AuthService) IsTokenDenied(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	denied, err := s.cache.IsTokenDenied(ctx, tokenID)
	if err != nil {
		return false
	}
	return denied
}

func (s *AuthService) issue(userID, nickname string, level int) (*Session, error) {
	accessToken, refreshToken, err := s.jwtManager.GenerateTokenPair(userID, nickname, level)
	if err != nil {
		return nil, fmt.Errorf("generate token pair: %w", err)
	}
	return &Session{
		UserID:       userID,
		Nickname:     nickname,
		Level:        level,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
