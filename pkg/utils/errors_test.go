package utils

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIsMatchesByType(t *testing.T) {
	err := NewNoCandidatesError("nothing here", nil)

	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.NotErrorIs(t, err, ErrInvalidDirectory)

	wrapped := fmt.Errorf("run: %w", err)
	assert.ErrorIs(t, wrapped, ErrNoCandidates)
}

func TestAppErrorUnwrapAndMessage(t *testing.T) {
	cause := os.ErrPermission
	err := NewConfigError("cannot create output directory", cause)

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "config: cannot create output directory (caused by: permission denied)", err.Error())
	assert.Equal(t, "item_load: x", NewItemLoadError("x", nil).Error())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorTypeIO, "ignored"))

	inner := NewItemProcessingError("engine failed", errors.New("exit 1"))
	kept := WrapError(inner, "", "photo.png")
	require.NotNil(t, kept)
	assert.Equal(t, ErrorTypeItemProcessing, kept.Type)
	assert.Equal(t, "photo.png: engine failed", kept.Message)

	overridden := WrapError(inner, ErrorTypeIO, "write")
	assert.Equal(t, ErrorTypeIO, overridden.Type)
	assert.ErrorIs(t, overridden, ErrItemProcessing)
}

func TestGetErrorTypeClassifies(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{context.DeadlineExceeded, ErrorTypeTimeout},
		{errors.New("open x: permission denied"), ErrorTypePermission},
		{errors.New("stat x: no such file or directory"), ErrorTypeNotFound},
		{errors.New("invalid header"), ErrorTypeValidation},
		{errors.New("weird"), ErrorTypeSystem},
		{fmt.Errorf("ctx: %w", NewConfigError("c", nil)), ErrorTypeConfig},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetErrorType(tt.err), tt.err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(NewItemLoadError("bad", nil)))
	assert.False(t, IsFatal(NewItemProcessingError("bad", nil)))
	assert.True(t, IsFatal(NewInvalidDirectoryError("missing", nil)))
	assert.True(t, IsFatal(errors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewItemLoadError("decode", nil).WithContext("file", "a.png")
	assert.Equal(t, "a.png", err.Context["file"])
}
