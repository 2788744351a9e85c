package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

type stubEngine struct {
	name      string
	available bool
}

func (s *stubEngine) Name() string        { return s.name }
func (s *stubEngine) Description() string { return s.name + " stub" }
func (s *stubEngine) IsAvailable() bool   { return s.available }
func (s *stubEngine) Release() error      { return nil }
func (s *stubEngine) Analyze(ctx context.Context, img *dataset.LoadedImage, req interfaces.AnalyzeRequest) (*interfaces.Document, error) {
	return &interfaces.Document{Markdown: s.name}, nil
}

func TestSelectAutoPrefersMinerU(t *testing.T) {
	r := NewEmptyRegistry(nil)
	r.Register(types.EngineMinerU, &stubEngine{name: "mineru", available: true})
	r.Register(types.EngineTesseract, &stubEngine{name: "tesseract", available: true})

	engine, err := r.Select(types.EngineAuto)
	require.NoError(t, err)
	assert.Equal(t, "mineru", engine.Name())
}

func TestSelectAutoFallsBack(t *testing.T) {
	r := NewEmptyRegistry(nil)
	r.Register(types.EngineMinerU, &stubEngine{name: "mineru", available: false})
	r.Register(types.EngineTesseract, &stubEngine{name: "tesseract", available: true})

	engine, err := r.Select("")
	require.NoError(t, err)
	assert.Equal(t, "tesseract", engine.Name())
}

func TestSelectErrors(t *testing.T) {
	r := NewEmptyRegistry(nil)
	r.Register(types.EngineMinerU, &stubEngine{name: "mineru", available: false})

	_, err := r.Select(types.EngineMinerU)
	assert.ErrorIs(t, err, utils.ErrConfig)

	_, err = r.Select(types.EngineTesseract)
	assert.ErrorIs(t, err, utils.ErrConfig)

	_, err = r.Select(types.EngineAuto)
	assert.ErrorIs(t, err, utils.ErrConfig)
}

func TestList(t *testing.T) {
	r := NewEmptyRegistry(nil)
	r.Register(types.EngineTesseract, &stubEngine{name: "tesseract", available: true})
	r.Register(types.EngineMinerU, &stubEngine{name: "mineru", available: false})

	infos := r.List()
	require.Len(t, infos, 2)
	assert.Equal(t, types.EngineMinerU, infos[0].Kind)
	assert.False(t, infos[0].Available)
	assert.Equal(t, "tesseract stub", infos[1].Description)
}
