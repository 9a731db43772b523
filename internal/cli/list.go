package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/veranemoloko/media-downloader/internal/storage"
	"github.com/veranemoloko/media-downloader/internal/transcoder"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List files in the download folder",
	Args:  cobra.NoArgs,
	RunE:  listRun,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the download folder is writable and ffmpeg is installed",
	Args:  cobra.NoArgs,
	RunE:  checkRun,
}

func listRun(cmd *cobra.Command, args []string) error {
	files, err := storage.NewFileStorage(cfg.DownloadDir).List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing %s: %w", cfg.DownloadDir, err)
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No downloaded files.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.Size, humanize.Time(f.ModTime))
	}
	return tw.Flush()
}

func checkRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if err := storage.NewFileStorage(cfg.DownloadDir).CheckWritable(); err != nil {
		return fmt.Errorf("download folder %s: %w", cfg.DownloadDir, err)
	}
	fmt.Fprintf(out, "download folder: %s (writable)\n", cfg.DownloadDir)

	tools := transcoder.NewLocator(cfg.FFmpegPath)
	if err := tools.Verify(); err != nil {
		return err
	}
	fmt.Fprintf(out, "ffmpeg: %s\nffprobe: %s\n", tools.Path(transcoder.FFmpeg), tools.Path(transcoder.FFprobe))
	return nil
}
