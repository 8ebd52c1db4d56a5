package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrTokenTypeMismatch signals that a token of the wrong type was presented,
// e.g. a refresh token offered where an access token is required.
var ErrTokenTypeMismatch = fmt.Errorf("token type mismatch")

// MintAccessToken issues a signed access JWT using the configured access TTL.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg, now, payload, TokenTypeAccess, cfg.AccessTokenTTL())
}

// MintRefreshToken issues a signed refresh JWT using the configured refresh TTL.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mint(cfg, now, payload, TokenTypeRefresh, cfg.RefreshTokenTTL())
}

func mint(cfg config.JWTConfig, now time.Time, payload TokenPayload, tokenType TokenType, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := Claims{
		UserID:    payload.UserID,
		Username:  payload.Username,
		Role:      payload.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseAccessToken validates the JWT string as an access token.
func ParseAccessToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg, tokenString, TokenTypeAccess)
}

// ParseRefreshToken validates the JWT string as a refresh token.
func ParseRefreshToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	return parse(cfg, tokenString, TokenTypeRefresh)
}

func parse(cfg config.JWTConfig, tokenString string, wantType TokenType) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != wantType {
		return nil, ErrTokenTypeMismatch
	}

	return claims, nil
}
