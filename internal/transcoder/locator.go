// Package transcoder locates the ffmpeg/ffprobe pair the extraction engine
// uses for merging and audio extraction. It never runs them.
package transcoder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	FFmpeg  = "ffmpeg"
	FFprobe = "ffprobe"
)

// Locator resolves the transcoding executables inside a configured directory.
type Locator struct {
	dir string
}

// NewLocator returns a Locator for executables in dir.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir}
}

// Dir is the directory handed to the engine as its ffmpeg location.
func (l *Locator) Dir() string {
	return l.dir
}

// Path returns the expected path of the named tool.
func (l *Locator) Path(tool string) string {
	return filepath.Join(l.dir, BinaryName(tool))
}

// BinaryName adds the platform executable suffix to tool.
func BinaryName(tool string) string {
	if runtime.GOOS == "windows" {
		return tool + ".exe"
	}
	return tool
}

// Verify checks that both ffmpeg and ffprobe exist as regular files.
// All missing tools are reported in one error.
func (l *Locator) Verify() error {
	var errs []error
	for _, tool := range []string{FFmpeg, FFprobe} {
		path := l.Path(tool)
		info, err := os.Stat(path)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s not found at %s: %w", tool, path, err))
		case !info.Mode().IsRegular():
			errs = append(errs, fmt.Errorf("%s at %s is not a regular file", tool, path))
		}
	}
	return errors.Join(errs...)
}
