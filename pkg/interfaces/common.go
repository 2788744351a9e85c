package interfaces

import (
	"context"

	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/types"
)

// Loader is the candidate-loading stage
type Loader interface {
	Load(ctx context.Context, c types.CandidateFile) (*dataset.LoadedImage, error)
}

// ArtifactWriter persists documents and their assets into the output tree
type ArtifactWriter interface {
	// WriteMarkdown writes a document and returns its path
	WriteMarkdown(name, content string) (string, error)
	// WriteAsset stores an asset and returns the markdown-relative link
	WriteAsset(originalName string, data []byte) (string, error)
}

// OutcomeObserver receives every item outcome as it is produced
type OutcomeObserver interface {
	Observe(outcome types.ItemOutcome)
}

// ObserverFunc adapts a function to OutcomeObserver
type ObserverFunc func(outcome types.ItemOutcome)

// Observe calls f(outcome)
func (f ObserverFunc) Observe(outcome types.ItemOutcome) {
	f(outcome)
}

// AnalyzeRequest carries everything an engine needs besides the image
type AnalyzeRequest struct {
	Options      types.RunOptions
	Settings     types.EngineSettings
	ImageDirName string
}

// Document is the engine output for one image
type Document struct {
	Markdown string  `json:"markdown"`
	Assets   []Asset `json:"assets,omitempty"`
}

// Asset is a sub-image referenced from Document.Markdown by Name
type Asset struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}
