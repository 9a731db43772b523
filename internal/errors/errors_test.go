package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownloadError_Is(t *testing.T) {
	err := NewDownloadError(KindToolMissing, "verify ffmpeg", fmt.Errorf("stat /usr/bin/ffmpeg: no such file"))

	assert.True(t, errors.Is(err, ErrToolMissing))
	assert.False(t, errors.Is(err, ErrTransferFailed))

	wrapped := fmt.Errorf("run: %w", err)
	assert.True(t, errors.Is(wrapped, ErrToolMissing))
}

func TestDownloadError_Message(t *testing.T) {
	cause := errors.New("boom")
	err := NewDownloadError(KindTransferFailed, "run engine", cause)

	assert.Equal(t, "download failed: run engine: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewDownloadError(KindNoOutputProduced, "", nil)
	assert.Equal(t, "no files found after download", bare.Error())
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewDownloadError(KindZeroByteOutput, "verify", nil))

	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindZeroByteOutput, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
