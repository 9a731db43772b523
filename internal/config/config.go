package config

import (
	"fmt"
	"time"

	"github.com/veranemoloko/media-downloader/internal/sanitize"
)

// Config holds all application configuration settings.
// Every variable is read as MD_<NAME>, falling back to the bare <NAME>.
type Config struct {
	Environment string `envconfig:"ENV" default:"development"`

	HTTPPort        int           `envconfig:"PORT" default:"5001"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	DownloadTimeout time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"30m"`

	DownloadDir string `envconfig:"DOWNLOAD_FOLDER" default:"/tmp/downloads"`
	TempDir     string `envconfig:"TEMP_DIR" default:"/tmp/downloads-staging"`

	FFmpegPath string `envconfig:"FFMPEG_PATH" default:"/usr/bin"`
	YTDLPPath  string `envconfig:"YTDLP_PATH"`

	FilenameMaxLength int    `envconfig:"FILENAME_MAX_LENGTH" default:"100"`
	VideoFormat       string `envconfig:"VIDEO_FORMAT" default:"bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"`
	AudioFormat       string `envconfig:"AUDIO_FORMAT" default:"bestaudio/best"`
	AudioCodec        string `envconfig:"AUDIO_CODEC" default:"mp3"`
	AudioQuality      string `envconfig:"AUDIO_QUALITY" default:"192"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// minFilenameLength leaves room for the ellipsis marker and a few characters.
const minFilenameLength = 8

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("download timeout must be positive: %s", c.DownloadTimeout)
	}

	if c.DownloadDir == "" {
		return fmt.Errorf("download directory cannot be empty")
	}
	if c.TempDir == "" {
		return fmt.Errorf("temp directory cannot be empty")
	}
	if c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg path cannot be empty")
	}

	if c.FilenameMaxLength < minFilenameLength {
		return fmt.Errorf("filename max length must be at least %d: %d", minFilenameLength, c.FilenameMaxLength)
	}

	if c.AudioCodec == "" {
		return fmt.Errorf("audio codec cannot be empty")
	}

	return nil
}

// Defaults returns a configuration with every default applied, for callers that
// do not read the environment.
func Defaults() *Config {
	return &Config{
		Environment:       "development",
		HTTPPort:          5001,
		HTTPTimeout:       15 * time.Second,
		DownloadTimeout:   30 * time.Minute,
		DownloadDir:       "/tmp/downloads",
		TempDir:           "/tmp/downloads-staging",
		FFmpegPath:        "/usr/bin",
		FilenameMaxLength: sanitize.DefaultMaxLength,
		VideoFormat:       "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		AudioFormat:       "bestaudio/best",
		AudioCodec:        "mp3",
		AudioQuality:      "192",
		ShutdownTimeout:   30 * time.Second,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}
