package http

import (
	"context"
	"strings"

	"lostfound-board/internal/board/adapter/security"
	"lostfound-board/internal/shared/contextkeys"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Locals keys set by the auth middleware and read by handlers, including the
// websocket handler after the upgrade.
const (
	localsUserID   = "userID"
	localsUserName = "userName"
)

// AuthMiddleware identifies the caller from a bearer token.
type AuthMiddleware struct {
	tokens *security.TokenService
}

// NewAuthMiddleware creates the auth middleware over the token service.
func NewAuthMiddleware(tokens *security.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// CORS middleware for browser clients.
func (m *AuthMiddleware) CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With",
	})
}

// RequestID middleware.
func (m *AuthMiddleware) RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		ContextKey: string(contextkeys.RequestIDKey),
	})
}

// RequireAuth rejects requests without a valid token. The token travels in
// the Authorization header, or in the "token" query parameter for websocket
// clients that cannot set headers.
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		claims, err := m.tokens.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "please log in",
			})
		}

		c.Locals(localsUserID, claims.UserID)
		c.Locals(localsUserName, claims.Name)

		ctx := c.UserContext()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserNameKey, claims.Name)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

func viewerName(c *fiber.Ctx) string {
	name, _ := c.Locals(localsUserName).(string)
	return name
}
