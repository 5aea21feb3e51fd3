package httpapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/auth"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

const localsUserKey = "currentUser"

// RequireAuth validates the bearer token and loads the caller's user record
// into the request locals.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fail(c, common.ErrUnauthorized)
		}

		userID, err := auth.GetUserIDFromToken(token, []byte(s.config.SecretKey))
		if err != nil {
			return fail(c, err)
		}

		user, err := s.users.FindByID(c.Context(), userID)
		if err != nil {
			// a valid token for a deleted account is no longer an identity
			return fail(c, common.ErrUnauthorized)
		}

		c.Locals(localsUserKey, *user)
		return c.Next()
	}
}

// RequireAdmin gates an endpoint to admin users. Must run after RequireAuth.
func (s *Server) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin() {
			return fail(c, common.ErrPermissionDenied)
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) users.User {
	u, _ := c.Locals(localsUserKey).(users.User)
	return u
}
