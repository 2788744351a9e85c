package utils

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/nodewee/img2md/pkg/logger"
)

// ResourceManager tracks per-item scratch space.
// Release is called at every item boundary so that nothing an engine
// allocated for one image survives into the next.
type ResourceManager struct {
	mu         sync.Mutex
	tempDirs   []string
	baseDir    string
	logger     *logger.Logger
	freeMemory bool
}

// NewResourceManager creates a resource manager rooted at baseDir
// (os.TempDir when empty)
func NewResourceManager(baseDir string, log *logger.Logger) *ResourceManager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if log == nil {
		log = logger.Discard()
	}

	return &ResourceManager{
		baseDir:    baseDir,
		logger:     log,
		freeMemory: true,
	}
}

// SetFreeMemory toggles returning heap to the OS on Release
func (rm *ResourceManager) SetFreeMemory(enabled bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.freeMemory = enabled
}

// CreateTempDir creates a uniquely named directory and tracks it for cleanup
func (rm *ResourceManager) CreateTempDir(pattern string) (string, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if err := os.MkdirAll(rm.baseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to prepare temp base: %w", err)
	}

	dir, err := os.MkdirTemp(rm.baseDir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}

	rm.tempDirs = append(rm.tempDirs, dir)
	rm.logger.Debug("created temporary directory", "path", dir)
	return dir, nil
}

// Pending returns the number of tracked directories
func (rm *ResourceManager) Pending() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.tempDirs)
}

// Release removes tracked directories and, when enabled, returns freed heap
// to the OS. It is safe to call repeatedly.
func (rm *ResourceManager) Release() error {
	rm.mu.Lock()
	dirs := rm.tempDirs
	rm.tempDirs = nil
	freeMemory := rm.freeMemory
	rm.mu.Unlock()

	var errs []error
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("failed to remove temp dir %s: %w", dir, err))
			rm.logger.Warn("failed to remove temporary directory", "path", dir, "error", err)
		} else {
			rm.logger.Debug("removed temporary directory", "path", dir)
		}
	}

	if freeMemory {
		debug.FreeOSMemory()
	}

	return errors.Join(errs...)
}
