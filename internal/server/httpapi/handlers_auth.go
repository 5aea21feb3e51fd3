package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/auth"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	user, err := s.users.Login(c.Context(), req.Username, req.Secret)
	if err != nil {
		return fail(c, err)
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.config.SecretKey), s.config.SessionTokenValidityDuration)
	if err != nil {
		return fail(c, err)
	}

	user.SecretHash = ""
	return ok(c, fiber.StatusOK, tokenResponse{Token: token, User: user})
}

// handleRegister is the self-service signup. New accounts always get the
// analyst role; admins are provisioned through the user admin surface.
func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}
	if req.Username == "" || req.Email == "" || req.Secret == "" {
		return fail(c, common.ErrInvalidRequest)
	}

	profile := users.Profile{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Secret:    req.Secret,
	}
	user, err := s.users.CreateUser(c.Context(), profile, users.RoleAnalyst, true)
	if err != nil {
		return fail(c, err)
	}

	token, err := auth.GenerateToken(user.ID, []byte(s.config.SecretKey), s.config.SessionTokenValidityDuration)
	if err != nil {
		return fail(c, err)
	}

	user.SecretHash = ""
	return ok(c, fiber.StatusCreated, tokenResponse{Token: token, User: user})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	if err := s.users.Logout(c.Context()); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleRequestReset(c *fiber.Ctx) error {
	var req requestResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	// the code is delivered out of band; it never appears in the response
	if _, err := s.otp.RequestReset(c.Context(), req.Email); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleVerifyCode(c *fiber.Ctx) error {
	var req verifyCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	valid, err := s.otp.Verify(c.Context(), req.Email, req.Code)
	if err != nil {
		return fail(c, err)
	}
	if !valid {
		return fail(c, common.ErrInvalidOrExpiredCode)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	if err := s.otp.ResetPassword(c.Context(), req.Email, req.Code, req.NewSecret); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
