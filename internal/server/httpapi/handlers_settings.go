package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
)

func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	current, err := s.settings.Get(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, current)
}

func (s *Server) handleSaveSettings(c *fiber.Ctx) error {
	var req settings.Settings
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}
	if err := s.settings.Save(c.Context(), req); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, req)
}

func (s *Server) handleResetSettings(c *fiber.Ctx) error {
	defaults, err := s.settings.Reset(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, defaults)
}
