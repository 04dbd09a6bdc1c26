package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/strelkov/apexcoach/internal/api"
	"github.com/strelkov/apexcoach/internal/blob"
	"github.com/strelkov/apexcoach/internal/config"
	"github.com/strelkov/apexcoach/internal/gateway"
	"github.com/strelkov/apexcoach/internal/interview"
	"github.com/strelkov/apexcoach/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the apexcoach server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "apexcoach version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build the LLM gateway.
	gw, err := buildGateway(ctx, cfg.Gateway)
	if err != nil {
		return err
	}

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	blobs, err := blob.NewFSStore(filepath.Join(cfg.Storage.DataDir, "uploads"))
	if err != nil {
		return fmt.Errorf("opening upload store: %w", err)
	}

	svc := interview.NewService(gw, blobs, interview.Options{
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
		Audit:          store,
	})

	// Compose top-level router: interview API under /api.
	topRouter := chi.NewRouter()
	topRouter.Mount("/api", api.NewHandler(api.Deps{
		Service:        svc,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}))

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: topRouter,
	}

	// MCP server over stdio.
	mcpSrv := api.NewMCPServer(api.MCPDeps{Service: svc})
	stdioSrv := server.NewStdioServer(mcpSrv)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "apexcoach listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func buildGateway(ctx context.Context, cfg config.GatewayConfig) (interview.Gateway, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		slog.Info("using OpenAI-compatible gateway", "base_url", cfg.BaseURL, "model", cfg.Model)
		return gateway.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil
	case config.ProviderOllama:
		client := gateway.NewOllamaClient(cfg.BaseURL, cfg.Model)
		if !client.IsRunning(ctx) {
			return nil, fmt.Errorf("ollama is not reachable at %s — start it with `ollama serve`", cfg.BaseURL)
		}
		slog.Info("using Ollama gateway", "base_url", cfg.BaseURL, "model", cfg.Model)
		return client, nil
	default:
		return nil, fmt.Errorf("unknown gateway provider %q", cfg.Provider)
	}
}
