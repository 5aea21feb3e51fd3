// Package server wires the proposal services together and runs the HTTP
// endpoint: it selects the storage backend, builds every service, handles
// OS signals and shuts down gracefully.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/proposalkeeper/internal/logging"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/analysis"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/colleagues"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/config"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/documents"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/kv"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/library"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/memos"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/otp"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/settings"
	"github.com/dmitrijs2005/proposalkeeper/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewDefault()

	var store kv.Store
	if c.DatabaseDSN != "" {
		pg, err := kv.NewPostgresStore(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		store = pg
	} else {
		store = kv.NewInMemoryStore()
	}

	userService := users.NewService(users.NewKVRepository(store), logger)
	otpService := otp.NewService(otp.NewKVRepository(store), userService, c.OTPValidityDuration, logger)
	libraryService := library.NewService(library.NewKVRepository(store), logger)
	memoService := memos.NewService(memos.NewKVRepository(store), libraryService, logger)
	colleagueService := colleagues.NewService(colleagues.NewKVRepository(store), userService)
	settingsService := settings.NewService(store, logger)
	gateway := analysis.NewGateway(c.AIAPIKey, c.AIBaseEndpoint, c.AITimeout, settingsService, logger)
	documentService := documents.NewService(c)

	server := httpapi.NewServer(httpapi.Deps{
		Config:     c,
		Log:        logger,
		Users:      userService,
		OTP:        otpService,
		Colleagues: colleagueService,
		Library:    libraryService,
		Memos:      memoService,
		Settings:   settingsService,
		Analyzer:   gateway,
		Documents:  documentService,
	})

	return &App{config: c, logger: logger, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
