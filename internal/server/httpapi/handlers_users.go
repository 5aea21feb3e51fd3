package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

// sanitize strips the credential hash before a user record leaves the API.
func sanitize(list []users.User) []users.User {
	out := make([]users.User, len(list))
	for i, u := range list {
		u.SecretHash = ""
		out[i] = u
	}
	return out
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	u := currentUser(c)
	u.SecretHash = ""
	return ok(c, fiber.StatusOK, u)
}

func (s *Server) handleUpdateProfile(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	update := users.ProfileUpdate{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := s.users.UpdateProfile(c.Context(), currentUser(c).ID, update); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	if err := s.users.ChangePassword(c.Context(), currentUser(c).ID, req.CurrentSecret, req.NewSecret); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	list, err := s.users.List(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, sanitize(list))
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	role := users.RoleAnalyst
	if req.Role == string(users.RoleAdmin) {
		role = users.RoleAdmin
	}

	profile := users.Profile{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Secret:    req.Secret,
	}
	user, err := s.users.CreateUser(c.Context(), profile, role, false)
	if err != nil {
		return fail(c, err)
	}

	user.SecretHash = ""
	return ok(c, fiber.StatusCreated, user)
}

func (s *Server) handleDeleteUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	if targetID == currentUser(c).ID {
		return fail(c, common.ErrPermissionDenied)
	}
	if err := s.users.DeleteUser(c.Context(), targetID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleSearchUsers(c *fiber.Ctx) error {
	list, err := s.users.Search(c.Context(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, sanitize(list))
}
