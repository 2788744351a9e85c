//go:build notesseract

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/types"
)

func TestNewRegistryWithoutTesseract(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MinerUPath = "/nonexistent/mineru"

	r := NewRegistry(cfg, nil)
	infos := r.List()
	require.Len(t, infos, 1)
	assert.Equal(t, types.EngineMinerU, infos[0].Kind)

	_, err := r.Select(types.EngineTesseract)
	assert.Error(t, err)
}
