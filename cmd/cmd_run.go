package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/presale/common/errs"
	"github.com/gaze-network/presale/internal/config"
	"github.com/gaze-network/presale/modules/presale"
	"github.com/gaze-network/presale/pkg/automaxprocs"
	"github.com/gaze-network/presale/pkg/errorhandler"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/logger/slogx"
	"github.com/gaze-network/presale/pkg/middleware/requestcontext"
	"github.com/gaze-network/presale/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Register Modules
var Modules = do.Package(
	do.Lazy(presale.New),
)

func NewRunCommand() *cobra.Command {
	// Create command
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start presale service",
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, err := automaxprocs.Init()
			if err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			defer undo()
			return runHandler(cmd, args)
		},
	}

	// Add local flags
	flags := runCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")
	flags.String("database", "memory", "Database to store presale data. E.g. `postgres` or `memory`")

	// Bind flags to configuration
	config.BindPFlag("http_server.port", flags.Lookup("port"))
	config.BindPFlag("presale.database", flags.Lookup("database"))

	return runCmd
}

const (
	defaultShutdownTimeout = 60 * time.Second
)

func runHandler(cmd *cobra.Command, _ []string) error {
	conf := config.Load()

	// Validate inputs and configurations
	{
		if !conf.Network.IsSupported() {
			return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
		}
	}
	shutdownTimeout := utils.Default(conf.HTTPServer.ShutdownTimeout, defaultShutdownTimeout)

	// Initialize application process context
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx, slogx.Stringer("network", conf.Network))

	injector := do.New(Modules)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)

	// Initialize HTTP server
	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		app := fiber.New(fiber.Config{
			AppName:      "Presale",
			ErrorHandler: errorhandler.NewHTTPErrorHandler(),
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.RequestIP),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024) // bufLen = 1024
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", errors.Newf("panic: %v", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.Status(http.StatusOK).JSON(fiber.Map{
				"service": "presale",
				"version": Version,
				"network": conf.Network.String(),
			}))
		})

		return app, nil
	})

	// Deploy or load the presale and mount its API
	module, err := do.Invoke[*presale.Module](injector)
	if err != nil {
		return errors.Wrap(err, "can't init presale module")
	}
	state, err := module.Engine.State(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	logger.InfoContext(ctx, "Presale loaded",
		slogx.Address("owner", state.Owner),
		slogx.Uint256("total_raised", state.TotalRaised),
		slog.Bool("paused", state.Paused),
		slog.Bool("immediate_delivery", state.ImmediateDelivery),
		slog.String("payment_token_explorer", conf.Network.ExplorerURL("token", state.PaymentToken.Hex())),
	)

	// Run API server
	httpServer := do.MustInvoke[*fiber.App](injector)
	go func() {
		// stop main process if API stopped
		defer stop()

		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		if err := httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port)); err != nil {
			logger.PanicContext(ctx, "Something went wrong, error during running HTTP server", slogx.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Presale started")

	// Wait for interrupt signal to gracefully stop the server
	<-ctx.Done()

	// Force shutdown if timeout exceeded or got signal again
	go func() {
		defer os.Exit(1)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.FatalContext(ctx, "Received exit signal again. Force shutdown...")
		case <-time.After(shutdownTimeout + 15*time.Second):
			logger.FatalContext(ctx, "Shutdown timeout exceeded. Force shutdown...")
		}
	}()

	if err := httpServer.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.ErrorContext(ctx, "Failed while gracefully shutting down HTTP server", err)
	}
	if err := injector.Shutdown(); err != nil {
		logger.PanicContext(ctx, "Failed while gracefully shutting down", slogx.Error(err))
	}

	return nil
}
