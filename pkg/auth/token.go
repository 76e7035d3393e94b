package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/rateboard-backend/pkg/config"
	"github.com/angelmondragon/rateboard-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultExpiration applies when the config leaves the token lifetime unset.
const DefaultExpiration = 7 * 24 * time.Hour

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens and foreign issuers.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned once the validity window has passed.
	ErrTokenExpired = errors.New("token expired")
)

var jwtSigningMethod = jwt.SigningMethodHS256

// IssueToken signs a token embedding userID and role, valid from now for the configured window.
func IssueToken(cfg config.JWTConfig, now time.Time, userID uuid.UUID, role enums.Role) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", role)
	}

	ttl := cfg.Expiration
	if ttl <= 0 {
		ttl = DefaultExpiration
	}

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// VerifyToken validates tokenString and returns its claims. Failures are
// reported as ErrTokenExpired or ErrTokenInvalid.
func VerifyToken(cfg config.JWTConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
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
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.UserID == uuid.Nil || !claims.Role.IsValid() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
