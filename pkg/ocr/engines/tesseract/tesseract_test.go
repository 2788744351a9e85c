//go:build !notesseract

package tesseract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/types"
)

func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

func TestMapLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ch", []string{"chi_sim"}},
		{"EN", []string{"eng"}},
		{"japan", []string{"jpn"}},
		{"korean", []string{"kor"}},
		{"en+ch", []string{"eng", "chi_sim"}},
		{"ita", []string{"ita"}},
		{"", []string{"eng"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapLanguage(tt.in))
		})
	}
}

func TestReleaseWithoutClient(t *testing.T) {
	e := NewEngine("", nil)
	assert.NoError(t, e.Release())
	assert.Equal(t, "tesseract", e.Name())
	assert.True(t, e.IsAvailable())
}

func TestAnalyzeRendersText(t *testing.T) {
	ensureTesseractAvailable(t)

	img := image.NewRGBA(image.Rect(0, 0, 240, 80))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 50),
	}
	d.DrawString("Hello Markdown")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	e := NewEngine("", nil)
	defer e.Release()

	loaded := &dataset.LoadedImage{
		Candidate: types.CandidateFile{Path: "hello.png", Name: "hello.png"},
		Data:      buf.Bytes(),
		Format:    "png",
	}
	req := interfaces.AnalyzeRequest{Options: types.RunOptions{Language: "en"}}

	doc, err := e.Analyze(context.Background(), loaded, req)
	require.NoError(t, err)
	assert.Empty(t, doc.Assets)
	if !strings.Contains(strings.ToLower(doc.Markdown), "hello") {
		t.Fatalf("expected recognized text, got %q", doc.Markdown)
	}
}
