package main

//
//  @title           tradelens API
//  @version         1.0
//  @description     Read-only views over a synthetic transaction dataset.
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tradelens
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        views
//  @tag.description Aggregation views of the computed report

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/tradelens/config"
	"github.com/guttosm/tradelens/internal/app"
	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
	"github.com/guttosm/tradelens/internal/service"
)

// Process exit codes, one per error kind.
const (
	exitOK      = 0
	exitFailure = 1
	exitConfig  = 2
	exitSchema  = 3
	exitEmpty   = 4
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., the held report).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// exitCode maps an error to the process exit status. Configuration, schema
// and empty-dataset failures each get their own code so launchers can tell
// them apart.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, models.ErrInvalidConfiguration):
		return exitConfig
	case errors.Is(err, models.ErrSchemaViolation):
		return exitSchema
	case errors.Is(err, models.ErrEmptyDataset):
		return exitEmpty
	}
	return exitFailure
}

// applyFlags overrides AppConfig with the flags the user actually set.
// An explicit empty --seed clears any configured seed.
func applyFlags(fs *flag.FlagSet, cfg *config.Config, seed string) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if f.Name != "seed" || err != nil {
			return
		}
		if strings.TrimSpace(seed) == "" {
			cfg.Generator.Seed = nil
			return
		}
		cfg.Generator.Seed, err = config.ParseSeed(seed)
	})
	return err
}

// run executes one mode and returns the first error encountered.
func run(ctx context.Context, mode string, cfg config.Config) error {
	lg := logger.Component("main")

	switch mode {
	case "generate":
		seed, err := app.GenerateDataset(ctx, cfg)
		if err != nil {
			return err
		}
		lg.Info().Uint64("seed", seed).Str("path", cfg.Paths.Dataset).Msg("dataset generated")

	case "analyze":
		res, err := app.Analyze(ctx, cfg)
		if err != nil {
			return err
		}
		lg.Info().Str("summary", res.Artifacts.Summary).Str("workbook", res.Artifacts.Workbook).Msg("report written")

	case "run":
		if _, err := app.RunPipeline(ctx, cfg); err != nil {
			return err
		}

	case "serve":
		// Serve mode: compute the report from the existing dataset, then expose it
		rep, err := app.BuildReport(ctx, cfg)
		if err != nil {
			return err
		}
		router, cleanup, err := app.InitializeApp(service.NewSnapshot(rep))
		if err != nil {
			return err
		}
		server := startServer(router, cfg.Server.Port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		return &models.ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q (generate|analyze|run|serve)", mode)}
	}
	return nil
}

// main is the entry point of the tradelens application.
//
// Modes (selected via --mode flag):
//   - generate: synthesize the dataset artifact.
//   - analyze:  validate the dataset and write the report.
//   - run:      generate then analyze (default).
//   - serve:    validate the dataset and expose the views over HTTP.
//
// Flags override the environment/.env configuration.
func main() {
	ctx := context.Background()

	// Initialize JSON logger
	logger.Init()

	// Load configuration from environment or .env file
	if err := config.LoadConfig(); err != nil {
		logger.L().Error().Err(err).Msg("invalid configuration")
		os.Exit(exitCode(err))
	}
	cfg := config.AppConfig

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	mode := fs.String("mode", "run", "Mode: generate, analyze, run or serve")
	fs.IntVar(&cfg.Generator.Count, "count", cfg.Generator.Count, "Number of transactions to generate")
	seed := fs.String("seed", "", "RNG seed (unsigned integer); empty draws a fresh one")
	fs.StringVar(&cfg.Paths.Dataset, "dataset", cfg.Paths.Dataset, "Dataset CSV path")
	fs.StringVar(&cfg.Paths.ReportDir, "out", cfg.Paths.ReportDir, "Report output directory")
	fs.IntVar(&cfg.Analysis.TopN, "top", cfg.Analysis.TopN, "Number of tickers in Top Investments")
	fs.IntVar(&cfg.Analysis.RecentMonths, "months", cfg.Analysis.RecentMonths, "Sector Performance window in months")
	fs.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Port for serve mode")
	_ = fs.Parse(os.Args[1:])

	err := applyFlags(fs, &cfg, *seed)
	if err == nil {
		config.AppConfig = cfg
		err = config.Validate()
	}
	if err == nil {
		err = run(ctx, *mode, cfg)
	}
	if err != nil {
		logger.L().Error().Err(err).Str("mode", *mode).Int("exit_code", exitCode(err)).Msg("run failed")
	}
	os.Exit(exitCode(err))
}
