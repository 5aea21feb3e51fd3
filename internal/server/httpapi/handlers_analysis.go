package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/server/analysis"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/library"
)

// The inline upload path keeps whole documents in memory; anything bigger
// belongs in the object store upload flow.
const maxDocumentSize = 20 << 20

type analyzeResponse struct {
	Record   *library.Record  `json:"record"`
	Analysis *analysis.Result `json:"analysis"`
}

// handleAnalyze runs one uploaded document through the model and records
// the outcome in the caller's personal library.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fmt.Errorf("%w: missing file part", analysis.ErrBadRequest))
	}
	if fileHeader.Size > maxDocumentSize {
		return fail(c, fmt.Errorf("%w: file exceeds %d bytes", analysis.ErrBadRequest, maxDocumentSize))
	}

	document, err := readUpload(fileHeader)
	if err != nil {
		return fail(c, fmt.Errorf("%w: unreadable upload", analysis.ErrBadRequest))
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	result, err := s.analyzer.Analyze(c.Context(), document, mimeType)
	if err != nil {
		return fail(c, err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fail(c, err)
	}

	record, err := s.library.Create(c.Context(), currentUser(c),
		fileHeader.Filename, recordVendorName(result), result.Score, payload)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, fiber.StatusOK, analyzeResponse{Record: record, Analysis: result})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// recordVendorName picks the name stored on the library record, preferring
// the identified vendor over the registered name from the document.
func recordVendorName(r *analysis.Result) string {
	if name := r.VendorName(); name != "" {
		return name
	}
	if r.VendorCheckInputs.RegisteredName != "" {
		return r.VendorCheckInputs.RegisteredName
	}
	return "Unknown"
}
