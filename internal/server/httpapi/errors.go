package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/common"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/analysis"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/memos"
)

// classifyError maps service errors onto HTTP status, machine code and the
// message the client shows. Unknown errors become opaque 500s.
func classifyError(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredential):
		return fiber.StatusUnauthorized, "invalid_credentials", "Invalid username or password."
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized", "Authentication required."
	case errors.Is(err, common.ErrPermissionDenied):
		return fiber.StatusForbidden, "forbidden", "You do not have permission to perform this action."
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound, "not_found", "The requested item does not exist."
	case errors.Is(err, common.ErrUnknownEmail):
		return fiber.StatusNotFound, "unknown_email", "No account is registered under this email."
	case errors.Is(err, common.ErrDuplicateEmail):
		return fiber.StatusConflict, "duplicate_email", "A user with this email already exists."
	case errors.Is(err, common.ErrDuplicateUsername):
		return fiber.StatusConflict, "duplicate_username", "A user with this username already exists."
	case errors.Is(err, common.ErrDuplicateMemo):
		return fiber.StatusConflict, "duplicate_memo", "An identical memo already exists."
	case errors.Is(err, common.ErrDuplicateColleague):
		return fiber.StatusConflict, "duplicate_colleague", "This user is already in your colleague list."
	case errors.Is(err, common.ErrSelfColleague):
		return fiber.StatusBadRequest, "self_colleague", "You cannot add yourself as a colleague."
	case errors.Is(err, common.ErrInvalidRequest):
		return fiber.StatusBadRequest, "invalid_request", "The request body is missing or malformed."
	case errors.Is(err, common.ErrInvalidOrExpiredCode):
		return fiber.StatusBadRequest, "invalid_code", "The code is invalid or has expired."
	case errors.Is(err, common.ErrVersionConflict):
		return fiber.StatusConflict, "conflict", "The data changed concurrently. Please retry."
	case errors.Is(err, memos.ErrEmptyBody):
		return fiber.StatusBadRequest, "empty_body", "Memo content cannot be empty."
	}

	if status, code := analysisStatus(err); status != 0 {
		return status, code, analysis.UserMessage(err)
	}

	return fiber.StatusInternalServerError, "internal", "Internal server error."
}

// analysisStatus returns 0 when err is not a gateway error.
func analysisStatus(err error) (int, string) {
	switch {
	case errors.Is(err, analysis.ErrMissingAPIKey), errors.Is(err, analysis.ErrBadCredential):
		return fiber.StatusBadGateway, "analysis_config"
	case errors.Is(err, analysis.ErrRateLimited):
		return fiber.StatusTooManyRequests, "analysis_rate_limited"
	case errors.Is(err, analysis.ErrUnavailable), errors.Is(err, analysis.ErrNetwork):
		return fiber.StatusBadGateway, "analysis_unavailable"
	case errors.Is(err, analysis.ErrSafetyBlocked), errors.Is(err, analysis.ErrRecitationBlocked):
		return fiber.StatusUnprocessableEntity, "analysis_blocked"
	case errors.Is(err, analysis.ErrEmptyResponse), errors.Is(err, analysis.ErrMalformedOutput):
		return fiber.StatusBadGateway, "analysis_failed"
	case errors.Is(err, analysis.ErrBadRequest):
		return fiber.StatusBadRequest, "analysis_bad_input"
	}
	return 0, ""
}
