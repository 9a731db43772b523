package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	h "github.com/veranemoloko/media-downloader/internal/api/http"
	cfgpkg "github.com/veranemoloko/media-downloader/internal/config"
	"github.com/veranemoloko/media-downloader/internal/engine"
	"github.com/veranemoloko/media-downloader/internal/progress"
	svc "github.com/veranemoloko/media-downloader/internal/service"
	"github.com/veranemoloko/media-downloader/internal/storage"
	"github.com/veranemoloko/media-downloader/internal/transcoder"
)

func main() {

	cfg, err := cfgpkg.Load(".env")
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			slog.Error("download directory could not be created", "error", err)
		} else {
			slog.Error("failed to load configuration", "error", err)
		}
		os.Exit(1)
	}

	logger := cfgpkg.SetupLogger(cfg)
	logger.Info("configuration loaded successfully",
		"download_dir", cfg.DownloadDir,
		"ffmpeg_path", cfg.FFmpegPath,
	)

	tools := transcoder.NewLocator(cfg.FFmpegPath)
	if err := tools.Verify(); err != nil {
		logger.Warn("transcoding tools not available, downloads will fail until installed", "error", err)
	} else {
		logger.Info("transcoding tools found", "ffmpeg", tools.Path(transcoder.FFmpeg))
	}

	fileStorage := storage.NewFileStorage(cfg.DownloadDir)
	store := progress.NewStore()
	ytdlp := engine.NewYTDLP(cfg.YTDLPPath, logger)

	downloadService := svc.NewDownloadService(cfg, ytdlp, store, fileStorage, tools, logger)

	router := h.NewRouter(downloadService, fileStorage, logger)
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:     router,
		ReadTimeout: cfg.HTTPTimeout,
		// A download request holds its connection until the file is placed.
		WriteTimeout: cfg.DownloadTimeout,
		IdleTimeout:  cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	} else {
		logger.Info("server stopped gracefully")
	}
}
