// Package auth issues and checks the admin tokens that guard catalog
// maintenance endpoints.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenTTL   = 72 * time.Hour
	roleAdmin  = "admin"
	claimsUser = "user"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Service checks the single configured admin account.
type Service struct {
	username string
	password string
	secret   []byte
	now      func() time.Time
}

func NewService(username, password, secret string) *Service {
	return &Service{
		username: username,
		password: password,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// Enabled reports whether admin sign-in is configured at all.
func (s *Service) Enabled() bool {
	return len(s.secret) > 0 && s.password != ""
}

// SignIn returns a signed HS256 token for valid admin credentials.
func (s *Service) SignIn(username, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  username,
		"role": roleAdmin,
		"exp":  s.now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Middleware validates the bearer token and then requires the admin role.
func (s *Service) Middleware() fiber.Handler {
	verify := jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		ContextKey: claimsUser,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
	return func(c *fiber.Ctx) error {
		if !s.Enabled() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "admin access is disabled"})
		}
		return verify(c)
	}
}

// RequireAdmin rejects tokens that do not carry the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	if RoleFromCtx(c) != roleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}
	return c.Next()
}

// RoleFromCtx extracts the role claim from the JWT stored by the middleware.
func RoleFromCtx(c *fiber.Ctx) string {
	tok, ok := c.Locals(claimsUser).(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
