package httpapi

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/analysis"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/colleagues"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/config"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/library"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/memos"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

// Analyzer sends a proposal document off for analysis.
type Analyzer interface {
	Analyze(ctx context.Context, document []byte, mimeType string) (*analysis.Result, error)
}

// DocumentStore hands out presigned upload and download URLs.
type DocumentStore interface {
	PresignedPutURL(ctx context.Context) (string, string, error)
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

// Server is the HTTP surface over the proposal services.
type Server struct {
	config     *config.Config
	log        logging.Logger
	users      *users.Service
	otp        OTPService
	colleagues *colleagues.Service
	library    *library.Service
	memos      *memos.Service
	settings   *settings.Service
	analyzer   Analyzer
	documents  DocumentStore

	app *fiber.App
}

// OTPService is the password reset flow.
type OTPService interface {
	RequestReset(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) (bool, error)
	ResetPassword(ctx context.Context, email, code, newSecret string) error
}

type Deps struct {
	Config     *config.Config
	Log        logging.Logger
	Users      *users.Service
	OTP        OTPService
	Colleagues *colleagues.Service
	Library    *library.Service
	Memos      *memos.Service
	Settings   *settings.Service
	Analyzer   Analyzer
	Documents  DocumentStore
}

func NewServer(d Deps) *Server {
	s := &Server{
		config:     d.Config,
		log:        d.Log,
		users:      d.Users,
		otp:        d.OTP,
		colleagues: d.Colleagues,
		library:    d.Library,
		memos:      d.Memos,
		settings:   d.Settings,
		analyzer:   d.Analyzer,
		documents:  d.Documents,
	}

	app := fiber.New(fiber.Config{
		AppName:     "proposalkeeper",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	s.registerRoutes(app)
	s.app = app
	return s
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return ok(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", s.handleLogin)
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/request-reset", s.handleRequestReset)
	authGroup.Post("/verify-code", s.handleVerifyCode)
	authGroup.Post("/reset-password", s.handleResetPassword)

	protected := api.Group("", s.RequireAuth())
	protected.Post("/auth/logout", s.handleLogout)

	protected.Get("/me", s.handleMe)
	protected.Put("/me/profile", s.handleUpdateProfile)
	protected.Put("/me/password", s.handleChangePassword)

	// user search is open to every authenticated user, so it lives outside
	// the admin-gated /users prefix
	protected.Get("/user-search", s.handleSearchUsers)

	admin := protected.Group("/users", s.RequireAdmin())
	admin.Get("/", s.handleListUsers)
	admin.Post("/", s.handleCreateUser)
	admin.Delete("/:id", s.handleDeleteUser)

	lib := protected.Group("/library")
	lib.Get("/personal", s.handleListPersonal)
	lib.Get("/personal/vendors", s.handlePersonalVendors)
	lib.Get("/collective", s.handleListCollective)
	lib.Get("/collective/vendors", s.handleCollectiveVendors)
	lib.Post("/personal/:id/publish", s.handlePublish)
	lib.Post("/personal/publish", s.handlePublishGroup)
	lib.Post("/collective/:id/save", s.handleSaveToPersonal)
	lib.Delete("/personal/:id", s.handleDeletePersonal)
	lib.Delete("/collective/:id", s.handleDeleteCollective)

	memoGroup := protected.Group("/memos")
	memoGroup.Get("/", s.handleListMemos)
	memoGroup.Get("/orphaned", s.handleListOrphanedMemos)
	memoGroup.Get("/by-record/:recordId", s.handleMemosByRecord)
	memoGroup.Post("/", s.handleCreateMemo)
	memoGroup.Put("/:id", s.handleUpdateMemo)
	memoGroup.Delete("/:id", s.handleDeleteMemo)

	colleagueGroup := protected.Group("/colleagues")
	colleagueGroup.Get("/", s.handleListColleagues)
	colleagueGroup.Post("/", s.handleAddColleague)
	colleagueGroup.Delete("/:id", s.handleRemoveColleague)

	settingsGroup := protected.Group("/settings", s.RequireAdmin())
	settingsGroup.Get("/", s.handleGetSettings)
	settingsGroup.Put("/", s.handleSaveSettings)
	settingsGroup.Post("/reset", s.handleResetSettings)

	protected.Post("/analyze", s.handleAnalyze)

	docGroup := protected.Group("/documents")
	docGroup.Post("/upload-url", s.handleUploadURL)
	docGroup.Get("/download-url", s.handleDownloadURL)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.config.EndpointAddrHTTP)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info(ctx, "shutting down http server")
		return s.app.Shutdown()
	}
}
