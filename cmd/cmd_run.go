package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/thorbond/bond-indexer/internal/config"
	"github.com/thorbond/bond-indexer/modules/bondmarket"
	"github.com/thorbond/bond-indexer/pkg/automaxprocs"
	"github.com/thorbond/bond-indexer/pkg/errorhandler"
	"github.com/thorbond/bond-indexer/pkg/logger"
	"github.com/thorbond/bond-indexer/pkg/logger/slogx"
	"github.com/thorbond/bond-indexer/pkg/middleware/requestlogger"
)

func NewRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bond-indexer service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := automaxprocs.Init(); err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 0, "HTTP server port")
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return runCmd
}

const shutdownTimeout = 30 * time.Second

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	injector := do.New()
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	do.Provide(injector, bondmarket.New)

	module, err := do.Invoke[*bondmarket.Module](injector)
	if err != nil {
		return errors.Wrap(err, "can't init bondmarket module")
	}

	// Initialize HTTP server
	app := fiber.New(fiber.Config{
		AppName:      "Bond Indexer",
		ErrorHandler: errorhandler.NewHTTPErrorHandler(),
	})
	app.
		Use(cors.New()).
		Use(requestid.New()).
		Use(requestlogger.New(conf.HTTPServer.Logger)).
		Use(fiberrecover.New(fiberrecover.Config{
			EnableStackTrace: true,
			StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
				buf := make([]byte, 1024)
				buf = buf[:runtime.Stack(buf, false)]
				logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slogx.String("stacktrace", string(buf)))
			},
		})).
		Use(compress.New(compress.Config{
			Level: compress.LevelDefault,
		}))

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return errors.WithStack(c.SendStatus(http.StatusOK))
	})

	if err := module.Handler.Mount(app); err != nil {
		return errors.Wrap(err, "can't mount bondmarket routes")
	}

	// Warm the engine so the first read doesn't pay the fetch; reads keep
	// failing with NotInitialized until this succeeds or a refresh lands.
	go func() {
		if err := module.Usecase.Initialize(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to initialize engine", slogx.Error(err))
		}
	}()

	// Background refresh keeps the action window current
	if interval := conf.BondMarket.RefreshInterval; interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := module.Usecase.Refresh(ctx); err != nil {
						logger.WarnContext(ctx, "Failed to refresh engine", slogx.Error(err))
					}
				}
			}
		}()
	}

	// Run API server
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slogx.Int("port", conf.HTTPServer.Port))
		if err := app.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.ErrorContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.Fatal("Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout):
			logger.Fatal("Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := app.Shutdown(); err != nil {
		return errors.Wrap(err, "failed while gracefully shutting down HTTP server")
	}
	if err := injector.Shutdown(); err != nil {
		return errors.Wrap(err, "failed while gracefully shutting down")
	}
	return nil
}
