package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

func (s *Server) handleListPersonal(c *fiber.Ctx) error {
	records, err := s.library.ListPersonal(c.Context(), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, records)
}

func (s *Server) handleListCollective(c *fiber.Ctx) error {
	records, err := s.library.ListCollective(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, records)
}

func (s *Server) handlePersonalVendors(c *fiber.Ctx) error {
	groups, err := s.library.VendorGroupsPersonal(c.Context(), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, groups)
}

func (s *Server) handleCollectiveVendors(c *fiber.Ctx) error {
	groups, err := s.library.VendorGroupsCollective(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, groups)
}

func (s *Server) handlePublish(c *fiber.Ctx) error {
	if err := s.library.Publish(c.Context(), c.Params("id"), currentUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handlePublishGroup(c *fiber.Ctx) error {
	var req publishGroupRequest
	if err := c.BodyParser(&req); err != nil || len(req.RecordIDs) == 0 {
		return fail(c, common.ErrInvalidRequest)
	}
	if err := s.library.PublishGroup(c.Context(), req.RecordIDs, currentUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleSaveToPersonal(c *fiber.Ctx) error {
	record, err := s.library.SaveToPersonal(c.Context(), c.Params("id"), currentUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, record)
}

func (s *Server) handleDeletePersonal(c *fiber.Ctx) error {
	if err := s.library.DeletePersonal(c.Context(), c.Params("id"), currentUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleDeleteCollective(c *fiber.Ctx) error {
	if err := s.library.DeleteCollective(c.Context(), c.Params("id"), currentUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
