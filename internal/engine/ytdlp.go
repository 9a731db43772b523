package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lrstanley/go-ytdlp"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

const defaultProgressInterval = 500 * time.Millisecond

var errNoInfo = errors.New("engine returned no video info")

// YTDLP runs the yt-dlp executable through go-ytdlp.
type YTDLP struct {
	executable       string
	progressInterval time.Duration
	logger           *slog.Logger
}

// NewYTDLP returns an engine backed by yt-dlp. An empty executable uses the
// one found on PATH.
func NewYTDLP(executable string, logger *slog.Logger) *YTDLP {
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLP{
		executable:       executable,
		progressInterval: defaultProgressInterval,
		logger:           logger,
	}
}

func (y *YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New().NoPlaylist()
	if y.executable != "" {
		cmd = cmd.SetExecutable(y.executable)
	}
	return cmd
}

// ExtractMetadata asks yt-dlp for the video info without downloading anything.
func (y *YTDLP) ExtractMetadata(ctx context.Context, url string) (*Metadata, error) {
	res, err := y.command().
		SkipDownload().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("extract info: %w", err)
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("parse info: %w", err)
	}
	if len(info) == 0 {
		return nil, errNoInfo
	}

	md := &Metadata{}
	if info[0].Title != nil {
		md.Title = *info[0].Title
	}
	return md, nil
}

// Download runs the actual transfer.
func (y *YTDLP) Download(ctx context.Context, url string, opts Options) ([]string, error) {
	cmd := y.command().
		ForceOverwrites().
		Output(opts.OutputTemplate)

	if opts.FFmpegLocation != "" {
		cmd = cmd.FFmpegLocation(opts.FFmpegLocation)
	}
	if opts.Format != "" {
		cmd = cmd.Format(opts.Format)
	}
	if opts.ExtractAudio {
		cmd = cmd.ExtractAudio().AudioFormat(opts.AudioCodec)
		if opts.AudioQuality != "" {
			cmd = cmd.AudioQuality(opts.AudioQuality)
		}
	}
	if opts.Progress != nil {
		progress := opts.Progress
		cmd = cmd.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			progress(toEvent(update))
		})
	}

	res, err := cmd.Run(ctx, url)
	if err != nil {
		if opts.Progress != nil {
			opts.Progress(domain.ProgressEvent{Status: domain.EngineError})
		}
		return nil, fmt.Errorf("run yt-dlp: %w", err)
	}

	var files []string
	if info, err := res.GetExtractedInfo(); err == nil {
		for _, i := range info {
			if i.Filename != nil && *i.Filename != "" {
				files = append(files, *i.Filename)
			}
		}
	} else {
		y.logger.Debug("no extracted info in yt-dlp output", "url", url, "error", err)
	}
	return files, nil
}

func toEvent(update ytdlp.ProgressUpdate) domain.ProgressEvent {
	ev := domain.ProgressEvent{
		Status:          domain.EngineDownloading,
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		Filename:        update.Filename,
	}

	switch update.Status {
	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		ev.Status = domain.EngineFinished
	case ytdlp.ProgressStatusError:
		ev.Status = domain.EngineError
	}

	if !update.Started.IsZero() {
		elapsed := time.Since(update.Started)
		if elapsed.Seconds() > 0 && update.DownloadedBytes > 0 {
			bytesPerSecond := float64(update.DownloadedBytes) / elapsed.Seconds()
			ev.SpeedStr = humanize.Bytes(uint64(bytesPerSecond)) + "/s"
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETAStr = eta.Round(time.Second).String()
	}

	return ev
}
