package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/harmful-image-api/internal/caption"
	"github.com/Brownie44l1/harmful-image-api/internal/config"
	"github.com/Brownie44l1/harmful-image-api/internal/handlers"
	"github.com/Brownie44l1/harmful-image-api/internal/model"
	"github.com/Brownie44l1/harmful-image-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := server.SetupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	modelPath := cfg.ModelPath()
	if err := model.EnsureLocal(ctx, modelFetcher(cfg), modelPath, logger); err != nil {
		return err
	}

	metadata, err := model.LoadMetadata(cfg.MetadataPath())
	if err != nil {
		return err
	}

	logger.Info("loading model", "path", modelPath, "input", metadata.InputName, "output", metadata.OutputName)
	session, err := model.NewSession(modelPath, metadata, cfg.OnnxRuntimeLib)
	if err != nil {
		return err
	}
	defer session.Close()
	classifier := model.NewClassifier(session)

	captions, err := caption.New(context.Background(), caption.Options{
		Provider: cfg.CaptionProvider,
		Model:    cfg.CaptionModel,
		APIKey:   cfg.CaptionAPIKey(),
		Timeout:  cfg.CaptionTimeout,
	})
	switch {
	case errors.Is(err, caption.ErrCaptionUnconfigured):
		logger.Warn("captioning disabled", "provider", cfg.CaptionProvider, "err", err)
	case err != nil:
		return err
	default:
		defer captions.Close()
		logger.Info("captioning enabled", "provider", captions.Provider(), "timeout", cfg.CaptionTimeout)
	}

	h := handlers.NewHandler(classifier, captions, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(server.CORS(cfg.CORSOrigins)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("endpoints",
		"root", "GET /",
		"health", "GET /health",
		"predict", "POST /predict",
		"tensor", "POST /predict/tensor",
		"caption", "POST /predict-with-caption",
	)
	return server.Run(ctx, srv, logger)
}

// modelFetcher picks the download source for a missing model: an explicit
// URL wins over a Google Drive file ID.
func modelFetcher(cfg *config.Config) model.Fetcher {
	switch {
	case cfg.ModelURL != "":
		return &model.HTTPFetcher{URL: cfg.ModelURL}
	case cfg.GDriveFileID != "":
		return &model.DriveFetcher{FileID: cfg.GDriveFileID, APIKey: cfg.GDriveAPIKey}
	default:
		return nil
	}
}
