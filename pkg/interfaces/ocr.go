package interfaces

import (
	"context"

	"github.com/nodewee/img2md/pkg/dataset"
)

// Analyzer turns one loaded image into a markdown document
type Analyzer interface {
	// Name returns the engine name
	Name() string

	// Analyze runs layout analysis / OCR on the image
	Analyze(ctx context.Context, img *dataset.LoadedImage, req AnalyzeRequest) (*Document, error)
}

// Releaser frees transient resources held after an item.
// The batch processor calls it after every item, success or failure.
type Releaser interface {
	Release() error
}

// Engine is an Analyzer that can describe itself and report availability
type Engine interface {
	Analyzer
	Releaser

	// Description returns a human-readable description of the engine
	Description() string

	// IsAvailable reports whether the engine can run on this machine
	IsAvailable() bool
}
