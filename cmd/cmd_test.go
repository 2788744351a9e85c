package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

func TestApplyCommandLineOverridesOnlyChangedFlags(t *testing.T) {
	cmd := NewRootCmd()
	t.Cleanup(func() {
		quiet = false
	})

	require.NoError(t, cmd.Flags().Parse([]string{"--engine", "TESSERACT", "--vram", "4", "--ext", "PNG,.webp"}))

	h := NewAppHandler(cmd)
	h.config = config.NewConfig()
	h.config.OutputDir = "from-file"
	h.config.Settings.RecBatchNum = 3
	h.applyCommandLineOverrides()

	assert.Equal(t, types.EngineTesseract, h.config.Engine)
	assert.Equal(t, 4, h.config.Settings.VRAMSizeGB)
	assert.Equal(t, []string{".png", ".webp"}, h.config.AcceptedExtensions)
	assert.Equal(t, "from-file", h.config.OutputDir, "untouched flag keeps the configured value")
	assert.Equal(t, 3, h.config.Settings.RecBatchNum)
	assert.True(t, h.config.EnableVerbose)
}

func TestQuietDisablesVerbose(t *testing.T) {
	cmd := NewRootCmd()
	t.Cleanup(func() {
		quiet = false
	})

	require.NoError(t, cmd.Flags().Parse([]string{"--quiet"}))

	h := NewAppHandler(cmd)
	h.config = config.NewConfig()
	h.applyCommandLineOverrides()
	assert.False(t, h.config.EnableVerbose)
}

func TestRunOptionsDefaults(t *testing.T) {
	h := NewAppHandler(nil)
	h.config = config.NewConfig()
	opts := h.runOptions()
	assert.Equal(t, "ch", opts.Language)
	assert.Equal(t, "doclayout_yolo", opts.LayoutModel)
	assert.False(t, opts.FormulaEnable)
}

func TestIsDevBuild(t *testing.T) {
	assert.True(t, isDevBuild("dev"))
	assert.True(t, isDevBuild("v1.2.0+dirty"))
	assert.False(t, isDevBuild("v1.2.0"))
}

func TestGetDisplayValue(t *testing.T) {
	assert.Equal(t, "(not set)", getDisplayValue(""))
	assert.Equal(t, "8", getDisplayValue(8))
	assert.Equal(t, "0.2", getDisplayValue(0.2))
}

func TestInitializeReturnsValidationErrorUnwrapped(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	t.Cleanup(func() {
		engineKind = string(types.EngineAuto)
	})

	require.NoError(t, cmd.Flags().Parse([]string{"--engine", "bogus"}))

	h := NewAppHandler(cmd)
	err := h.initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrConfig)
	assert.Equal(t, 1, strings.Count(err.Error(), "config:"))
	assert.Contains(t, err.Error(), "invalid engine: bogus")
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fatal    bool
		wantText string
	}{
		{
			name:     "invalid directory",
			err:      utils.NewInvalidDirectoryError("invalid directory: /nope", nil),
			fatal:    true,
			wantText: "Error (invalid_directory)",
		},
		{
			name:     "no candidates",
			err:      fmt.Errorf("run: %w", utils.NewNoCandidatesError("no image files found", nil)),
			fatal:    true,
			wantText: "Error (no_candidates)",
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			fatal:    true,
			wantText: "Error (system)",
		},
		{
			name:     "item failure",
			err:      utils.NewItemProcessingError("failed to process a.png", nil),
			fatal:    false,
			wantText: "Warning (item_processing)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			got := reportError(&buf, tt.err)
			if tt.fatal {
				assert.Same(t, tt.err, got)
			} else {
				assert.NoError(t, got)
			}
			assert.Contains(t, buf.String(), tt.wantText)
		})
	}
}
