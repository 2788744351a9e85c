package dataset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	return img
}

func writeCandidate(t *testing.T, dir, name string, data []byte) types.CandidateFile {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return types.CandidateFile{Path: path, Name: name}
}

func TestLoadPNGAndJPEG(t *testing.T) {
	dir := t.TempDir()

	var pngBuf, jpgBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(4, 3)))
	require.NoError(t, jpeg.Encode(&jpgBuf, testImage(8, 2), nil))

	loader := NewImageLoader([]string{".png", ".jpg"})

	got, err := loader.Load(context.Background(), writeCandidate(t, dir, "a.png", pngBuf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "png", got.Format)
	assert.Equal(t, 4, got.Width)
	assert.Equal(t, 3, got.Height)
	assert.Equal(t, pngBuf.Len(), got.Size())

	got, err = loader.Load(context.Background(), writeCandidate(t, dir, "B.JPG", jpgBuf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", got.Format)
	assert.Equal(t, 8, got.Width)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(2, 2)))

	tests := []struct {
		name      string
		candidate types.CandidateFile
	}{
		{"corrupt", writeCandidate(t, dir, "corrupt.png", []byte("definitely not a png"))},
		{"empty", writeCandidate(t, dir, "empty.png", nil)},
		{"missing", types.CandidateFile{Path: filepath.Join(dir, "missing.png"), Name: "missing.png"}},
		{"not accepted", writeCandidate(t, dir, "real.gif", pngBuf.Bytes())},
	}

	loader := NewImageLoader([]string{".png"})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), tt.candidate)
			require.Error(t, err)
			assert.ErrorIs(t, err, utils.ErrItemLoad)
		})
	}
}

func TestLoadDirectoryIsRejected(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "folder.png")
	require.NoError(t, os.Mkdir(sub, 0755))

	_, err := NewImageLoader(nil).Load(context.Background(), types.CandidateFile{Path: sub, Name: "folder.png"})
	assert.ErrorIs(t, err, utils.ErrItemLoad)
}

func TestLoadMaxBytes(t *testing.T) {
	dir := t.TempDir()
	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, testImage(16, 16)))
	c := writeCandidate(t, dir, "big.png", pngBuf.Bytes())

	_, err := NewImageLoader(nil, WithMaxBytes(10)).Load(context.Background(), c)
	assert.ErrorIs(t, err, utils.ErrItemLoad)

	_, err = NewImageLoader(nil, WithMaxBytes(0)).Load(context.Background(), c)
	assert.NoError(t, err)
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImageLoader(nil).Load(ctx, types.CandidateFile{Path: "x.png", Name: "x.png"})
	assert.ErrorIs(t, err, utils.ErrItemLoad)
	assert.ErrorIs(t, err, context.Canceled)
}
