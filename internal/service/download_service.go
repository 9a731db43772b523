package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veranemoloko/media-downloader/internal/config"
	"github.com/veranemoloko/media-downloader/internal/domain"
	"github.com/veranemoloko/media-downloader/internal/engine"
	apperrors "github.com/veranemoloko/media-downloader/internal/errors"
	"github.com/veranemoloko/media-downloader/internal/metrics"
	"github.com/veranemoloko/media-downloader/internal/platform"
	"github.com/veranemoloko/media-downloader/internal/progress"
	"github.com/veranemoloko/media-downloader/internal/reconcile"
	"github.com/veranemoloko/media-downloader/internal/sanitize"
	"github.com/veranemoloko/media-downloader/internal/storage"
	"github.com/veranemoloko/media-downloader/internal/transcoder"
)

const videoExt = "mp4"

// DownloadService drives a single download from URL to a placed file:
// extraction, staged transfer, reconciliation and atomic placement.
//
// It has no queue. Callers run it concurrently; all runs share one progress store.
type DownloadService struct {
	cfg       *config.Config
	engine    engine.Engine
	store     *progress.Store
	files     *storage.FileStorage
	tools     *transcoder.Locator
	sanitizer *sanitize.Sanitizer
	logger    *slog.Logger
	now       func() time.Time
}

// NewDownloadService creates a DownloadService.
func NewDownloadService(
	cfg *config.Config,
	eng engine.Engine,
	store *progress.Store,
	files *storage.FileStorage,
	tools *transcoder.Locator,
	logger *slog.Logger,
) *DownloadService {
	return &DownloadService{
		cfg:       cfg,
		engine:    eng,
		store:     store,
		files:     files,
		tools:     tools,
		sanitizer: sanitize.New(cfg.FilenameMaxLength),
		logger:    logger,
		now:       time.Now,
	}
}

// Progress returns a snapshot of the shared progress state.
func (s *DownloadService) Progress() domain.ProgressState {
	return s.store.Snapshot()
}

// job is the per-run state threaded through the pipeline stages.
type job struct {
	id         string
	req        domain.DownloadRequest
	platform   domain.Platform
	token      string
	title      string
	stagingDir string
	stem       string
	ext        string
	logger     *slog.Logger
}

// Run downloads req and places the result in the download directory.
// On failure the progress store is set to error and a *errors.DownloadError is
// returned; no artifact is ever returned alongside an error.
func (s *DownloadService) Run(ctx context.Context, req domain.DownloadRequest) (*domain.FinalArtifact, error) {
	j := &job{
		id:       uuid.NewString(),
		req:      req,
		platform: platform.Classify(req.URL),
		token:    fmt.Sprintf("%d", s.now().Unix()),
	}
	j.logger = s.logger.With("request_id", j.id, "url", req.URL, "format", req.Format, "platform", j.platform)
	j.logger.Info("download request received")

	metrics.DownloadsTotal.Inc()
	metrics.DownloadsInProgress.Inc()
	defer metrics.DownloadsInProgress.Dec()

	start := time.Now()
	artifact, err := s.run(ctx, j)
	if err != nil {
		kind, _ := apperrors.KindOf(err)
		metrics.DownloadsFailed.WithLabelValues(kind.String()).Inc()
		s.store.Fail(err.Error())
		j.logger.Error("download failed", "kind", kind, "error", err)
		return nil, err
	}

	metrics.DownloadsSuccess.Inc()
	metrics.DownloadDuration.Observe(time.Since(start).Seconds())
	metrics.DownloadBytes.Add(float64(artifact.SizeBytes))

	s.store.Finish("Downloaded: " + artifact.Name)
	j.logger.Info("download completed", "file", artifact.Name, "bytes", artifact.SizeBytes, "duration", time.Since(start))
	return artifact, nil
}

func (s *DownloadService) run(ctx context.Context, j *job) (*domain.FinalArtifact, error) {
	if err := s.files.CheckWritable(); err != nil {
		return nil, apperrors.NewDownloadError(apperrors.KindDirectoryNotWritable, s.files.Dir(), err)
	}

	// Checked before any engine call: a download that cannot be post-processed is wasted.
	if err := s.tools.Verify(); err != nil {
		return nil, apperrors.NewDownloadError(apperrors.KindToolMissing, s.tools.Dir(), err)
	}

	s.store.Reset()

	j.title = s.resolveTitle(ctx, j)
	s.planNames(j)

	j.stagingDir = filepath.Join(s.cfg.TempDir, j.id)
	if err := os.MkdirAll(j.stagingDir, 0o755); err != nil {
		return nil, apperrors.NewDownloadError(apperrors.KindDirectoryNotWritable, "create staging directory", err)
	}
	defer func() {
		if err := os.RemoveAll(j.stagingDir); err != nil {
			j.logger.Warn("failed to remove staging directory", "path", j.stagingDir, "error", err)
		}
	}()

	if err := s.transfer(ctx, j); err != nil {
		return nil, err
	}

	match, err := reconcile.Resolve(j.stagingDir, j.expectedPath(), j.token)
	if err != nil {
		if errors.Is(err, reconcile.ErrNoOutput) {
			return nil, apperrors.NewDownloadError(apperrors.KindNoOutputProduced, "", nil)
		}
		return nil, apperrors.NewDownloadError(apperrors.KindNoOutputProduced, "scan staging directory", err)
	}
	metrics.ReconcileStrategy.WithLabelValues(string(match.Strategy)).Inc()
	j.logger.Debug("produced file resolved", "path", match.Path, "strategy", match.Strategy)

	return s.place(j, match.Path)
}

// resolveTitle fetches the title without downloading. Failure is not fatal:
// a timestamp title is used instead.
func (s *DownloadService) resolveTitle(ctx context.Context, j *job) string {
	fallback := sanitize.FallbackTitle(s.now())

	md, err := s.engine.ExtractMetadata(ctx, j.req.URL)
	if err != nil {
		metrics.MetadataFallbacks.Inc()
		j.logger.Warn("using fallback title",
			"error", apperrors.NewDownloadError(apperrors.KindMetadataExtractionFailed, "", err),
			"title", fallback,
		)
		return fallback
	}
	if md == nil || strings.TrimSpace(md.Title) == "" {
		metrics.MetadataFallbacks.Inc()
		return fallback
	}

	j.logger.Info("video title extracted", "title", md.Title)
	return md.Title
}

// planNames picks the staging stem and the extension the file should end up with.
// TikTok titles from the engine are unreliable, so TikTok uses a fixed stem.
func (s *DownloadService) planNames(j *job) {
	if j.platform == domain.PlatformTikTok {
		j.stem = fmt.Sprintf("%s_video_%s", domain.PlatformTikTok, j.token)
	} else {
		j.stem = fmt.Sprintf("%s_%s", s.sanitizer.Sanitize(j.title), j.token)
	}

	j.ext = videoExt
	if j.req.Format.IsAudio() {
		j.ext = s.cfg.AudioCodec
	}
}

func (j *job) outputTemplate() string {
	if j.platform == domain.PlatformTikTok && !j.req.Format.IsAudio() {
		return filepath.Join(j.stagingDir, j.stem+"."+videoExt)
	}
	return filepath.Join(j.stagingDir, j.stem+"."+engine.ExtPlaceholder)
}

func (j *job) expectedPath() string {
	return filepath.Join(j.stagingDir, j.stem+"."+j.ext)
}

func (s *DownloadService) transfer(ctx context.Context, j *job) error {
	opts := engine.Options{
		OutputTemplate: j.outputTemplate(),
		FFmpegLocation: s.tools.Dir(),
		Format:         s.cfg.VideoFormat,
		Progress:       s.store.Apply,
	}
	if j.req.Format.IsAudio() {
		opts.Format = s.cfg.AudioFormat
		opts.ExtractAudio = true
		opts.AudioCodec = s.cfg.AudioCodec
		opts.AudioQuality = s.cfg.AudioQuality
	}

	j.logger.Info("starting transfer", "output_template", opts.OutputTemplate)

	files, err := s.engine.Download(ctx, j.req.URL, opts)
	if err != nil {
		return apperrors.NewDownloadError(apperrors.KindTransferFailed, "", err)
	}
	j.logger.Debug("engine reported files", "files", files)
	return nil
}

// place moves the resolved file into the download directory and checks the
// result is non-empty. Empty staged files are rejected before placement.
func (s *DownloadService) place(j *job, staged string) (*domain.FinalArtifact, error) {
	info, err := os.Stat(staged)
	if err != nil {
		return nil, apperrors.NewDownloadError(apperrors.KindNoOutputProduced, "stat staged file", err)
	}
	if info.Size() == 0 {
		return nil, apperrors.NewDownloadError(apperrors.KindZeroByteOutput, filepath.Base(staged), nil)
	}

	ext := strings.ToLower(filepath.Ext(staged))
	switch {
	case j.req.Format.IsAudio() && ext != "."+strings.ToLower(j.ext):
		// Extraction did not run; the source container is not an audio file.
		return nil, apperrors.NewDownloadError(apperrors.KindNoOutputProduced,
			fmt.Sprintf("expected .%s output, found %s", j.ext, filepath.Base(staged)), nil)
	case ext == "":
		ext = "." + j.ext
	}
	name := j.stem + ext

	path, err := s.files.Place(staged, name)
	if err != nil {
		return nil, apperrors.NewDownloadError(apperrors.KindPlacementFailed, name, err)
	}

	placedName := filepath.Base(path)
	size, err := s.files.GetFileSize(placedName)
	if err != nil || size == 0 {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			j.logger.Warn("failed to remove empty placed file", "path", path, "error", rmErr)
		}
		return nil, apperrors.NewDownloadError(apperrors.KindZeroByteOutput, placedName, err)
	}

	return &domain.FinalArtifact{
		Name:      placedName,
		SizeBytes: uint64(size),
		Path:      path,
	}, nil
}
