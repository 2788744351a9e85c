// Package dataset turns scanned candidate files into decoded, validated
// images ready to be handed to an engine.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	// Decoders registered with image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

// LoadedImage is a candidate whose bytes were read and whose header decoded
type LoadedImage struct {
	Candidate types.CandidateFile
	Data      []byte
	Format    string
	Width     int
	Height    int
}

// Size returns the raw byte length
func (l *LoadedImage) Size() int {
	return len(l.Data)
}

// ImageLoader reads candidates and validates that they are decodable images
type ImageLoader struct {
	accepted map[string]bool
	maxBytes int64
}

// LoaderOption configures an ImageLoader
type LoaderOption func(*ImageLoader)

// WithMaxBytes rejects files larger than n bytes (0 disables the limit)
func WithMaxBytes(n int64) LoaderOption {
	return func(l *ImageLoader) {
		l.maxBytes = n
	}
}

// NewImageLoader creates a loader that only admits the given extensions.
// An empty list admits any extension the registered decoders understand.
func NewImageLoader(accepted []string, opts ...LoaderOption) *ImageLoader {
	l := &ImageLoader{accepted: utils.ExtensionSet(accepted)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and header-decodes one candidate.
// Every failure is returned as an item_load AppError.
func (l *ImageLoader) Load(ctx context.Context, c types.CandidateFile) (*LoadedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, utils.NewItemLoadError("load cancelled", err).WithContext("file", c.Name)
	}

	if len(l.accepted) > 0 && !l.accepted[c.Extension()] {
		return nil, utils.NewItemLoadError(fmt.Sprintf("%s: %q", constants.ErrUnsupportedFormat, c.Extension()), nil).
			WithContext("file", c.Name)
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return nil, utils.NewItemLoadError("cannot stat file", err).WithContext("file", c.Name)
	}
	if !info.Mode().IsRegular() {
		return nil, utils.NewItemLoadError("not a regular file", nil).WithContext("file", c.Name)
	}
	if info.Size() == 0 {
		return nil, utils.NewItemLoadError("empty file", nil).WithContext("file", c.Name)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return nil, utils.NewItemLoadError(
			fmt.Sprintf("file too large: %d bytes (limit %d)", info.Size(), l.maxBytes), nil).
			WithContext("file", c.Name)
	}

	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, utils.NewItemLoadError("cannot read file", err).WithContext("file", c.Name)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, utils.NewItemLoadError(constants.ErrInvalidFile, err).WithContext("file", c.Name)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, utils.NewItemLoadError(
			fmt.Sprintf("invalid dimensions %dx%d", cfg.Width, cfg.Height), nil).
			WithContext("file", c.Name)
	}

	return &LoadedImage{
		Candidate: c,
		Data:      data,
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, nil
}
