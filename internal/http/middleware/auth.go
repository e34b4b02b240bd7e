package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/auth"
)

// PrincipalLocalKey is the key used to store the authenticated principal in Fiber's context locals.
const PrincipalLocalKey = "principal"

// RequireAuth verifies the bearer token and attaches the principal to the request.
// Requests without a valid token are rejected with 401 before reaching any handler.
func RequireAuth(v auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.ErrUnauthorized
		}

		p, err := v.Verify(token)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals(PrincipalLocalKey, p)
		c.SetUserContext(auth.WithPrincipal(c.UserContext(), p))
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
