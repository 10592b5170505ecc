package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/killallgit/blog-discovery-api/api"
	"github.com/killallgit/blog-discovery-api/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultShutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Blog Discovery API server with the configured settings.

The database schema is migrated before the server starts listening.

Example:
  discovery-api serve
  discovery-api serve --port 9090
  discovery-api serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "server host (overrides config)")
	serveCmd.Flags().Int("port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := *appConfig
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	log := logger.Named("serve")

	deps, cleanup, err := buildDependencies(&cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(cfg.Server)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info().
		Str("addr", server.Addr()).
		Str("environment", cfg.Environment).
		Str("cache", cfg.Cache.Backend).
		Msg("server is ready to handle requests")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	if err := <-serverErr; err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info().Msg("server gracefully stopped")
	return nil
}
