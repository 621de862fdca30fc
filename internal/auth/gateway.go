package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"quiz-api-service/internal/domain"
)

// DefaultTokenTTL is the lifetime of an admin token when none is configured.
const DefaultTokenTTL = 24 * time.Hour

const issuer = "quiz-api-service"

// TokenRegistry remembers which issued tokens are still live.
type TokenRegistry interface {
	Register(ctx context.Context, tokenID string, ttl time.Duration) error
	Active(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, tokenID string) error
}

// Config carries the admin credentials. Password may be plain text or a
// bcrypt hash (anything starting with "$2").
type Config struct {
	Password string
	Secret   string
	TokenTTL time.Duration
}

// Claims are the JWT claims of an admin token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Gateway issues and verifies admin bearer tokens.
type Gateway struct {
	password string
	secret   []byte
	ttl      time.Duration
	registry TokenRegistry
	now      func() time.Time
}

func NewGateway(cfg Config, registry TokenRegistry) *Gateway {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Gateway{
		password: cfg.Password,
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		registry: registry,
		now:      time.Now,
	}
}

// Login exchanges the admin password for a signed token.
func (g *Gateway) Login(ctx context.Context, password string) (string, error) {
	if g.password == "" || !checkPassword(g.password, password) {
		return "", domain.ErrUnauthorized
	}
	now := g.now()
	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := g.registry.Register(ctx, claims.ID, g.ttl); err != nil {
		return "", fmt.Errorf("register token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, expiry and liveness of an admin token.
func (g *Gateway) Verify(ctx context.Context, token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(g.now),
	)
	if err != nil || !parsed.Valid || claims.Role != "admin" {
		return nil, domain.ErrUnauthorized
	}
	active, err := g.registry.Active(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token: %w", err)
	}
	if !active {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes a token that Verify accepted.
func (g *Gateway) Logout(ctx context.Context, claims *Claims) error {
	return g.registry.Revoke(ctx, claims.ID)
}

// HashPassword returns a bcrypt hash suitable for the admin password setting.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
