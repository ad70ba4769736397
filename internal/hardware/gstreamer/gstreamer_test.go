package gstreamer_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_vault/internal/hardware/gstreamer"
)

func TestDeleteMedia_RemovesFile(t *testing.T) {
	dir := t.TempDir()
	hw := gstreamer.New(slog.New(slog.NewTextHandler(io.Discard, nil)), dir)

	filePath := filepath.Join(dir, "clip.mkv")
	require.NoError(t, os.WriteFile(filePath, []byte("mkv"), 0o644))

	require.NoError(t, hw.DeleteMedia(filePath))

	_, err := os.Stat(filePath)
	assert.True(t, os.IsNotExist(err), "the media file must be gone from disk")
}

func TestDeleteMedia_MissingFileIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	hw := gstreamer.New(slog.New(slog.NewTextHandler(io.Discard, nil)), dir)

	assert.NoError(t, hw.DeleteMedia(filepath.Join(dir, "never-written.mkv")))
	assert.NoError(t, hw.DeleteMedia(""))
}
