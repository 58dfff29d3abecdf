package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// localsKey is where the authenticated owner id is stored on the request.
const localsKey = "user_id"

// Config holds the token verification settings.
type Config struct {
	// Secret is the HS256 signing key. An empty secret rejects every request.
	Secret string
	// Issuer, when set, must match the token's iss claim.
	Issuer string
}

// Claims are the JWT claims carried by owner tokens. The subject is the owner id.
type Claims struct {
	jwt.RegisteredClaims
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// New returns a middleware that requires a valid bearer token and stores its
// subject as the request owner.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrMissingToken.Error()})
		}

		owner, err := Parse(cfg, strings.TrimSpace(raw))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": ErrInvalidToken.Error()})
		}

		c.Locals(localsKey, owner)
		return c.Next()
	}
}

// Parse verifies a token and returns its subject.
func Parse(cfg Config, token string) (string, error) {
	if cfg.Secret == "" {
		return "", ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Issue signs a token for the given owner.
func Issue(cfg Config, owner string, ttl time.Duration, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
}

// UserID returns the authenticated owner for the request, or "".
func UserID(c *fiber.Ctx) string {
	if s, ok := c.Locals(localsKey).(string); ok {
		return s
	}
	return ""
}
