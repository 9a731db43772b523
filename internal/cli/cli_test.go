package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/media-downloader/internal/transcoder"
)

func setupEnv(t *testing.T) (downloads, bin string) {
	t.Helper()
	root := t.TempDir()
	downloads = filepath.Join(root, "downloads")
	bin = filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))

	t.Setenv("MD_DOWNLOAD_FOLDER", downloads)
	t.Setenv("MD_TEMP_DIR", filepath.Join(root, "staging"))
	t.Setenv("MD_FFMPEG_PATH", bin)
	return downloads, bin
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList_Empty(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No downloaded files.")
}

func TestList_Files(t *testing.T) {
	downloads, _ := setupEnv(t)
	require.NoError(t, os.MkdirAll(downloads, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(downloads, "clip_1.mp4"), make([]byte, 2000), 0o644))

	out, err := execute(t, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "clip_1.mp4")
	assert.Contains(t, out, "2.0 kB")
}

func TestCheck_MissingTools(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "check")

	require.Error(t, err)
	assert.Contains(t, out, "writable")
	assert.Contains(t, err.Error(), "ffmpeg")
}

func TestCheck_OK(t *testing.T) {
	_, bin := setupEnv(t)
	for _, tool := range []string{transcoder.FFmpeg, transcoder.FFprobe} {
		require.NoError(t, os.WriteFile(filepath.Join(bin, transcoder.BinaryName(tool)), []byte("#!/bin/sh\n"), 0o755))
	}

	out, err := execute(t, "check")

	require.NoError(t, err)
	assert.Contains(t, out, "ffprobe: "+filepath.Join(bin, transcoder.BinaryName(transcoder.FFprobe)))
}

func TestFetch_RejectsUnsafeURL(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "fetch", "http://127.0.0.1/video")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}
