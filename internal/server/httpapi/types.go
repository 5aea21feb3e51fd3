package httpapi

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint returns.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(APIResponse{Success: true, Data: data})
}

func fail(c *fiber.Ctx, err error) error {
	status, code, message := classifyError(err)
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Secret   string `json:"secret"`
}

type registerRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Secret    string `json:"secret"`
	Role      string `json:"role"`
}

type profileUpdateRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

type changePasswordRequest struct {
	CurrentSecret string `json:"currentSecret"`
	NewSecret     string `json:"newSecret"`
}

type requestResetRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetPasswordRequest struct {
	Email     string `json:"email"`
	Code      string `json:"code"`
	NewSecret string `json:"newSecret"`
}

type publishGroupRequest struct {
	RecordIDs []string `json:"recordIds"`
}

type createMemoRequest struct {
	Title          string   `json:"title"`
	Body           string   `json:"content"`
	Labels         []string `json:"labels"`
	LinkedRecordID string   `json:"linkedProposalId"`
}

type updateMemoRequest struct {
	Title          *string   `json:"title"`
	Body           *string   `json:"content"`
	Labels         *[]string `json:"labels"`
	LinkedRecordID *string   `json:"linkedProposalId"`
}

type addColleagueRequest struct {
	Username string `json:"username"`
}

type tokenResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}
