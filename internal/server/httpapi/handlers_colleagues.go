package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

func (s *Server) handleListColleagues(c *fiber.Ctx) error {
	list, err := s.colleagues.List(c.Context(), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, list)
}

func (s *Server) handleAddColleague(c *fiber.Ctx) error {
	var req addColleagueRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return fail(c, common.ErrInvalidRequest)
	}

	colleague, err := s.colleagues.Add(c.Context(), currentUser(c).ID, req.Username)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, colleague)
}

func (s *Server) handleRemoveColleague(c *fiber.Ctx) error {
	if err := s.colleagues.Remove(c.Context(), currentUser(c).ID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
