package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
)

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handleUploadURL(c *fiber.Ctx) error {
	key, url, err := s.documents.PresignedPutURL(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, uploadURLResponse{Key: key, URL: url})
}

func (s *Server) handleDownloadURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return fail(c, common.ErrNotFound)
	}
	url, err := s.documents.PresignedGetURL(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, fiber.Map{"url": url})
}
