package domain

import (
	"fmt"
	"strings"
)

// FormatKind selects between a video download and an audio-only extraction.
type FormatKind string

const (
	FormatVideo FormatKind = "video"
	FormatAudio FormatKind = "audio"
)

// ParseFormatKind accepts both the canonical kinds and the container aliases
// used by the web form ("mp4", "mp3"). An empty value means video.
func ParseFormatKind(s string) (FormatKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mp4", "video":
		return FormatVideo, nil
	case "mp3", "audio":
		return FormatAudio, nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

func (f FormatKind) IsAudio() bool {
	return f == FormatAudio
}

// DownloadRequest is created per incoming call and discarded once it completes.
type DownloadRequest struct {
	URL    string
	Format FormatKind
}

// Platform is a coarse classification of the source URL. It only affects naming.
type Platform string

const (
	PlatformTikTok   Platform = "tiktok"
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
	PlatformUnknown  Platform = "unknown"
)
