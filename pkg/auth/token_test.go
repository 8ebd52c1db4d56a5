package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "higherself-network",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 10080,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, TokenPayload{
		UserID:   userID,
		Username: "rcastillo",
		Role:     "Project Manager",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s got %s", userID, claims.UserID)
	}
	if claims.Role != "Project Manager" {
		t.Fatalf("expected role preserved got %q", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("expected access type got %q", claims.TokenType)
	}
	if claims.ID == "" {
		t.Fatalf("expected generated jti")
	}
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	refresh, err := MintRefreshToken(cfg, now, TokenPayload{UserID: uuid.New(), Role: "Admin"})
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, refresh); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("expected type mismatch got %v", err)
	}
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	access, err := MintAccessToken(cfg, now, TokenPayload{UserID: uuid.New(), Role: "Admin"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseRefreshToken(cfg, access); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Fatalf("expected type mismatch got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().UTC().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, past, TokenPayload{UserID: uuid.New(), Role: "Admin"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().UTC(), TokenPayload{UserID: uuid.New(), Role: "Admin"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestMintPreservesSuppliedJTI(t *testing.T) {
	cfg := testJWTConfig()
	jti := uuid.NewString()

	token, err := MintRefreshToken(cfg, time.Now().UTC(), TokenPayload{
		UserID: uuid.New(),
		Role:   "Admin",
		JTI:    jti,
	})
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}
	claims, err := ParseRefreshToken(cfg, token)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims.ID != jti {
		t.Fatalf("expected jti %s got %s", jti, claims.ID)
	}
}
