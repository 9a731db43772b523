package cli

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/veranemoloko/media-downloader/internal/domain"
	"github.com/veranemoloko/media-downloader/internal/engine"
	"github.com/veranemoloko/media-downloader/internal/progress"
	"github.com/veranemoloko/media-downloader/internal/service"
	"github.com/veranemoloko/media-downloader/internal/storage"
	"github.com/veranemoloko/media-downloader/internal/transcoder"
	"github.com/veranemoloko/media-downloader/internal/validation"
)

const progressTick = time.Second

var flagAudio bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Download a single URL into the download folder",
	Args:  cobra.ExactArgs(1),
	RunE:  fetchRun,
}

func init() {
	fetchCmd.Flags().BoolVarP(&flagAudio, "audio", "a", false, "Extract audio instead of video")
}

func fetchRun(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := validation.ValidateURL(url); err != nil {
		return err
	}

	format := domain.FormatVideo
	if flagAudio {
		format = domain.FormatAudio
	}

	store := progress.NewStore()
	svc := service.NewDownloadService(
		cfg,
		engine.NewYTDLP(cfg.YTDLPPath, logger),
		store,
		storage.NewFileStorage(cfg.DownloadDir),
		transcoder.NewLocator(cfg.FFmpegPath),
		logger,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go reportProgress(cmd.ErrOrStderr(), store, done)

	artifact, err := svc.Run(ctx, domain.DownloadRequest{URL: url, Format: format})
	close(done)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", artifact.Path, humanize.Bytes(artifact.SizeBytes))
	return nil
}

func reportProgress(w io.Writer, store *progress.Store, done <-chan struct{}) {
	ticker := time.NewTicker(progressTick)
	defer ticker.Stop()

	var last domain.ProgressState
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			state := store.Snapshot()
			if state == last || state.Status == domain.ProgressIdle || state.Status.IsTerminal() {
				continue
			}
			last = state
			fmt.Fprintf(w, "%s %s ETA %s\n", state.Percent, state.Speed, state.ETA)
		}
	}
}
