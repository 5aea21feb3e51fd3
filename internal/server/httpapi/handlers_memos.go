package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/memos"
)

func (s *Server) handleListMemos(c *fiber.Ctx) error {
	list, err := s.memos.List(c.Context(), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, list)
}

func (s *Server) handleListOrphanedMemos(c *fiber.Ctx) error {
	list, err := s.memos.ListOrphaned(c.Context(), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, list)
}

func (s *Server) handleMemosByRecord(c *fiber.Ctx) error {
	list, err := s.memos.ListByLinkedRecord(c.Context(), c.Params("recordId"), currentUser(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, list)
}

func (s *Server) handleCreateMemo(c *fiber.Ctx) error {
	var req createMemoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	memo, err := s.memos.Create(c.Context(), currentUser(c).ID, req.Title, req.Body, req.Labels, req.LinkedRecordID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, memo)
}

func (s *Server) handleUpdateMemo(c *fiber.Ctx) error {
	var req updateMemoRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, common.ErrInvalidRequest)
	}

	update := memos.Update{
		Title:          req.Title,
		Body:           req.Body,
		Labels:         req.Labels,
		LinkedRecordID: req.LinkedRecordID,
	}
	if err := s.memos.UpdateMemo(c.Context(), currentUser(c).ID, c.Params("id"), update); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

func (s *Server) handleDeleteMemo(c *fiber.Ctx) error {
	if err := s.memos.DeleteMemo(c.Context(), currentUser(c).ID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
