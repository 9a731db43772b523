package sanitize

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	fallbackPattern = regexp.MustCompile(`^video_\d+$`)
	safePattern     = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

func TestSanitize_Empty(t *testing.T) {
	assert.Regexp(t, fallbackPattern, Sanitize(""))
}

func TestSanitize_OnlyForbiddenChars(t *testing.T) {
	assert.Regexp(t, fallbackPattern, Sanitize(`\/*?:"<>|`))
	assert.Regexp(t, fallbackPattern, Sanitize("..."))
}

func TestSanitize_FixedClock(t *testing.T) {
	s := New(DefaultMaxLength)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	assert.Equal(t, "video_1700000000", s.Sanitize(""))
}

func TestSanitize_StripsForbiddenChars(t *testing.T) {
	got := Sanitize(`a/b:c*d`)

	assert.Equal(t, "abcd", got)
	for _, c := range `\/*?:"<>|` {
		assert.NotContains(t, got, string(c))
	}
}

func TestSanitize_Whitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: " multiple   spaces ", want: "_multiple_spaces_"},
		{in: "multiple   spaces", want: "multiple_spaces"},
		{in: "tab\tand\nnewline", want: "tab_and_newline"},
		{in: "..hidden file.", want: "hidden_file"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Sanitize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "__")
		})
	}
}

func TestSanitize_ReplacesNonASCII(t *testing.T) {
	got := Sanitize("Café – 日本")

	assert.Regexp(t, safePattern, got)
	assert.True(t, strings.HasPrefix(got, "Caf_"))
}

func TestSanitize_LengthCap(t *testing.T) {
	long := strings.Repeat("abcdefghij", 30)

	for _, limit := range []int{DefaultMaxLength, StrictMaxLength} {
		s := New(limit)
		got := s.Sanitize(long)

		assert.LessOrEqual(t, len(got), limit+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	}
}

func TestSanitize_TooSmallCapFallsBack(t *testing.T) {
	assert.Equal(t, DefaultMaxLength, New(2).MaxLength())
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Rick Astley - Never Gonna Give You Up (Official Video)",
		"a/b:c*d",
		"already_safe-name.v2",
		"  spaced   out  ",
		"emoji 🎵 title",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
		assert.Regexp(t, safePattern, once)
	}
}
