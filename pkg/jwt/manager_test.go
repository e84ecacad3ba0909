package jwt

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken("e10042", "Jordan", 10)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if claims.UserID != "e10042" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "e10042")
	}
	if claims.Nickname != "Jordan" {
		t.Errorf("Nickname = %q, want %q", claims.Nickname, "Jordan")
	}
	if claims.Level != 10 {
		t.Errorf("Level = %d, want 10", claims.Level)
	}
	if claims.ID == "" {
		t.Error("expected a token ID (jti) for denylisting")
	}
}

func TestGenerateTokenPair_SharedID(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)

	access, refresh, err := m.GenerateTokenPair("e20", "Min", 1)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	accessClaims, err := m.VerifyToken(access)
	if err != nil {
		t.Fatalf("VerifyToken(access): %v", err)
	}
	refreshClaims, err := m.VerifyToken(refresh)
	if err != nil {
		t.Fatalf("VerifyToken(refresh): %v", err)
	}
	if accessClaims.ID == "" || accessClaims.ID != refreshClaims.ID {
		t.Errorf("token IDs differ: access %q, refresh %q", accessClaims.ID, refreshClaims.ID)
	}
	if refreshClaims.Level != 0 || refreshClaims.Nickname != "" {
		t.Error("refresh token should carry only the user ID")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	m := NewManager("secret-a", time.Hour, 24*time.Hour)
	other := NewManager("secret-b", time.Hour, 24*time.Hour)

	token, err := m.GenerateAccessToken("e1", "", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.VerifyToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("e1", "", 1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.VerifyToken(token); err != ErrExpiredToken {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestIdPClaims_DualFormat(t *testing.T) {
	current := IdPClaims{EmployeeID: "e7", DisplayName: "Sam", Groups: []string{"portal-admins"}}
	if current.GetUserID() != "e7" || current.GetUserName() != "Sam" {
		t.Errorf("current form not read: %q %q", current.GetUserID(), current.GetUserName())
	}
	if !current.IsAdmin() {
		t.Error("expected portal-admins group to grant admin")
	}

	legacy := IdPClaims{UserID: "e8", Nickname: "Kim"}
	if legacy.GetUserID() != "e8" || legacy.GetUserName() != "Kim" {
		t.Errorf("legacy form not read: %q %q", legacy.GetUserID(), legacy.GetUserName())
	}
	if legacy.IsAdmin() {
		t.Error("no groups should mean no admin")
	}
}
