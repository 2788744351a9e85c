//go:build !notesseract

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/types"
)

func TestNewRegistryIncludesTesseract(t *testing.T) {
	cfg := config.NewConfig()
	cfg.MinerUPath = "/nonexistent/mineru"

	infos := NewRegistry(cfg, nil).List()
	require.Len(t, infos, 2)
	assert.Equal(t, types.EngineMinerU, infos[0].Kind)
	assert.False(t, infos[0].Available)
	assert.Equal(t, types.EngineTesseract, infos[1].Kind)
}
