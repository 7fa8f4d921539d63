package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the session cookie the gateway sets and the route guard
// inspects.
const CookieName = "accessToken"

// claims wraps the upstream access token inside the signed session cookie.
type claims struct {
	AccessToken string `json:"accessToken"`
	jwt.RegisteredClaims
}

// Store reads and writes the admin session cookie. The upstream access token
// is wrapped in an HS256-signed JWT so a tampered cookie reads as no session.
type Store struct {
	secret []byte
	ttl    time.Duration
}

// New creates a session store signing with secret and expiring sessions
// after ttl.
func New(secret string, ttl time.Duration) *Store {
	return &Store{secret: []byte(secret), ttl: ttl}
}

// Set persists the upstream access token as a root-path session cookie.
func (s *Store) Set(c *fiber.Ctx, accessToken string) error {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		AccessToken: accessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// Token returns the upstream access token for this request, or "" when there
// is no valid session. Expired or tampered cookies read as absent.
func (s *Store) Token(c *fiber.Ctx) string {
	raw := c.Cookies(CookieName)
	if raw == "" {
		return ""
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}

	cl, ok := parsed.Claims.(*claims)
	if !ok {
		return ""
	}
	return cl.AccessToken
}

// Clear removes the session cookie.
func (s *Store) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// IsAuthenticated reports whether the request carries a valid session.
func (s *Store) IsAuthenticated(c *fiber.Ctx) bool {
	return s.Token(c) != ""
}
