package transcoder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installTools(t *testing.T, dir string, tools ...string) {
	t.Helper()
	for _, tool := range tools {
		require.NoError(t, os.WriteFile(filepath.Join(dir, BinaryName(tool)), []byte("#!/bin/sh\n"), 0o755))
	}
}

func TestLocator_Verify(t *testing.T) {
	dir := t.TempDir()
	installTools(t, dir, FFmpeg, FFprobe)

	assert.NoError(t, NewLocator(dir).Verify())
}

func TestLocator_VerifyMissingFFprobe(t *testing.T) {
	dir := t.TempDir()
	installTools(t, dir, FFmpeg)

	err := NewLocator(dir).Verify()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffprobe")
	assert.NotContains(t, err.Error(), "ffmpeg not found")
}

func TestLocator_VerifyDirectoryInsteadOfFile(t *testing.T) {
	dir := t.TempDir()
	installTools(t, dir, FFprobe)
	require.NoError(t, os.Mkdir(filepath.Join(dir, BinaryName(FFmpeg)), 0o755))

	err := NewLocator(dir).Verify()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a regular file")
}

func TestLocator_Path(t *testing.T) {
	l := NewLocator("/opt/ffmpeg")

	assert.Equal(t, "/opt/ffmpeg", l.Dir())
	assert.Equal(t, filepath.Join("/opt/ffmpeg", BinaryName("ffmpeg")), l.Path(FFmpeg))
}
