// Package sanitize turns arbitrary media titles into filesystem-safe file names.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultMaxLength caps sanitized names unless configured otherwise.
	DefaultMaxLength = 100
	// StrictMaxLength is the tighter cap some deployments use.
	StrictMaxLength = 50

	ellipsis = "..."
)

var (
	forbiddenChars = regexp.MustCompile(`[\\/*?:"<>|]`)
	whitespaceRuns = regexp.MustCompile(`[\s\v\p{Z}]+`)
	unsafeChars    = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// Sanitizer normalizes titles into names no longer than MaxLength.
type Sanitizer struct {
	maxLength int
	now       func() time.Time
}

// New returns a Sanitizer with the given length cap. Caps too small to hold
// the ellipsis marker fall back to DefaultMaxLength.
func New(maxLength int) *Sanitizer {
	if maxLength <= len(ellipsis) {
		maxLength = DefaultMaxLength
	}
	return &Sanitizer{maxLength: maxLength, now: time.Now}
}

var defaultSanitizer = New(DefaultMaxLength)

// Sanitize uses the default length cap.
func Sanitize(title string) string {
	return defaultSanitizer.Sanitize(title)
}

func (s *Sanitizer) MaxLength() int {
	return s.maxLength
}

// Sanitize always returns a non-empty name made of [A-Za-z0-9_.-].
// Titles that sanitize to nothing become "video_<unix timestamp>".
func (s *Sanitizer) Sanitize(title string) string {
	if title == "" {
		return s.fallback()
	}

	name := forbiddenChars.ReplaceAllString(title, "")
	name = whitespaceRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, ". ")
	name = unsafeChars.ReplaceAllString(name, "_")

	if len(name) > s.maxLength {
		name = name[:s.maxLength-len(ellipsis)] + ellipsis
	}

	if name == "" {
		return s.fallback()
	}
	return name
}

func (s *Sanitizer) fallback() string {
	return FallbackTitle(s.now())
}

// FallbackTitle is the name used when no usable title is known.
func FallbackTitle(t time.Time) string {
	return fmt.Sprintf("video_%d", t.Unix())
}
