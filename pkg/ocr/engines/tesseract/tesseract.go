//go:build !notesseract

// Package tesseract runs Tesseract in-process through gosseract and turns
// its hOCR output into markdown.
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/markdown"
	"github.com/nodewee/img2md/pkg/types"
)

// Language codes accepted on the command line mapped to traineddata names
var languageMap = map[string]string{
	"ch":          "chi_sim",
	"chinese_cht": "chi_tra",
	"en":          "eng",
	"japan":       "jpn",
	"korean":      "kor",
	"fr":          "fra",
	"german":      "deu",
	"ru":          "rus",
}

// Engine implements interfaces.Engine with a gosseract client per item
type Engine struct {
	clientFactory  func() *gosseract.Client
	tessdataPrefix string
	logger         *logger.Logger

	mu     sync.Mutex
	client *gosseract.Client
}

var _ interfaces.Engine = (*Engine)(nil)

// NewEngine creates a Tesseract engine. tessdataPrefix may be empty to use
// the library default.
func NewEngine(tessdataPrefix string, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Discard()
	}
	return &Engine{
		clientFactory:  gosseract.NewClient,
		tessdataPrefix: tessdataPrefix,
		logger:         log.With("engine", "tesseract"),
	}
}

// Name returns the engine name
func (e *Engine) Name() string {
	return string(types.EngineTesseract)
}

// Description returns a description of the engine
func (e *Engine) Description() string {
	return "Tesseract OCR (in-process, text only)"
}

// IsAvailable reports true: the library is linked into the binary
func (e *Engine) IsAvailable() bool {
	return true
}

// Analyze recognizes the image and renders paragraphs as markdown.
// No assets are produced.
func (e *Engine) Analyze(ctx context.Context, img *dataset.LoadedImage, req interfaces.AnalyzeRequest) (*interfaces.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.acquire()
	if e.tessdataPrefix != "" {
		c.TessdataPrefix = e.tessdataPrefix
	}

	if err := c.SetImageFromBytes(img.Data); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	opts := req.Options.WithDefaults()
	langs := MapLanguage(opts.Language)
	if err := c.SetLanguage(langs...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}

	e.logger.Debug("recognizing", "file", img.Candidate.Name, "languages", strings.Join(langs, "+"))
	hocr, err := c.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	md, err := markdown.FromHOCR(strings.NewReader(hocr))
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{Markdown: md}, nil
}

// Release closes the client used for the last item
func (e *Engine) Release() error {
	e.mu.Lock()
	c := e.client
	e.client = nil
	e.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

func (e *Engine) acquire() *gosseract.Client {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		e.client = e.clientFactory()
	}
	return e.client
}

// MapLanguage converts a language option ("ch", "en+japan") into
// traineddata names; unknown codes pass through unchanged
func MapLanguage(lang string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(lang, func(r rune) bool { return r == '+' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mapped, ok := languageMap[strings.ToLower(part)]; ok {
			out = append(out, mapped)
		} else {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		out = []string{"eng"}
	}
	return out
}
