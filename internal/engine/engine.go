// Package engine abstracts the external media-extraction engine.
//
// The engine resolves a page URL into streams, downloads them and, for audio
// requests, post-processes them with ffmpeg. Output names and extensions are
// only known once it has finished.
package engine

import (
	"context"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

// Metadata is what the engine reports about a URL without downloading it.
type Metadata struct {
	Title string
}

// ProgressFunc receives progress callbacks during a transfer.
type ProgressFunc func(domain.ProgressEvent)

// Options controls a single transfer.
type Options struct {
	// OutputTemplate is an absolute path that may contain the engine's
	// "%(ext)s" placeholder.
	OutputTemplate string
	FFmpegLocation string
	Format         string

	ExtractAudio bool
	AudioCodec   string
	AudioQuality string

	Progress ProgressFunc
}

// Engine is the extraction engine used by the download pipeline.
type Engine interface {
	ExtractMetadata(ctx context.Context, url string) (*Metadata, error)
	// Download performs the transfer and returns the files the engine reports
	// having written. The list is a hint; it may be empty or stale.
	Download(ctx context.Context, url string, opts Options) ([]string, error)
}

// ExtPlaceholder is the engine's output template placeholder for the file extension.
const ExtPlaceholder = "%(ext)s"
