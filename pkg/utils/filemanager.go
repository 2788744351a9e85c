package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/logger"
)

// OutputManager owns the output tree of a run:
//
//	{output_dir}/
//	├── {stem}.md          # one document per input image
//	└── images/            # extracted sub-images, content-addressed
//	    └── {hash}.{ext}
type OutputManager struct {
	baseDir   string
	imageDir  string
	imageName string
	logger    *logger.Logger
}

// NewOutputManager creates a manager for outputDir with assets under
// outputDir/imageDirName
func NewOutputManager(outputDir, imageDirName string, log *logger.Logger) *OutputManager {
	if imageDirName == "" {
		imageDirName = constants.DefaultImageDirName
	}
	if log == nil {
		log = logger.Discard()
	}

	base := NormalizePath(outputDir)
	return &OutputManager{
		baseDir:   base,
		imageDir:  filepath.Join(base, imageDirName),
		imageName: imageDirName,
		logger:    log,
	}
}

// EnsureBaseDir creates the output and image directories.
// Failure (e.g. the path is an existing file) is a configuration error.
func (om *OutputManager) EnsureBaseDir() error {
	for _, dir := range []string{om.baseDir, om.imageDir} {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return NewConfigError(fmt.Sprintf("output path is not a directory: %s", dir), nil).
				WithContext("path", dir)
		}
		if err := EnsureDir(dir); err != nil {
			return NewConfigError(fmt.Sprintf("cannot create output directory: %s", dir), err).
				WithContext("path", dir)
		}
	}
	om.logger.Debug("output tree ready", "output_dir", om.baseDir, "image_dir", om.imageDir)
	return nil
}

// ImageDir returns the absolute-or-as-configured asset directory
func (om *OutputManager) ImageDir() string {
	return om.imageDir
}

// MarkdownPath returns where the document with the given file name goes
func (om *OutputManager) MarkdownPath(name string) string {
	return filepath.Join(om.baseDir, SanitizeFileName(name))
}

// WriteMarkdown writes (or overwrites) a document and returns its path
func (om *OutputManager) WriteMarkdown(name, content string) (string, error) {
	path := om.MarkdownPath(name)
	if err := os.WriteFile(path, []byte(content), constants.DefaultFilePermission); err != nil {
		return "", NewIOError(fmt.Sprintf("failed to write markdown %s", path), err)
	}
	om.logger.Debug("wrote markdown", "path", path, "bytes", len(content))
	return path, nil
}

// AssetFileName derives the content-addressed file name for an asset.
// The extension of the original name is kept (lower-cased).
func AssetFileName(originalName string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = constants.DefaultAssetExtension
	}
	return ContentHash(data, constants.AssetNameHashLength) + ext
}

// WriteAsset stores an asset under the image directory and returns the
// markdown-relative link ("images/<file>")
func (om *OutputManager) WriteAsset(originalName string, data []byte) (string, error) {
	fileName := AssetFileName(originalName, data)
	path := filepath.Join(om.imageDir, fileName)

	if err := os.WriteFile(path, data, constants.DefaultFilePermission); err != nil {
		return "", NewIOError(fmt.Sprintf("failed to write asset %s", path), err)
	}
	om.logger.Debug("wrote asset", "path", path, "source", originalName, "bytes", len(data))

	link, err := GetRelativePath(om.baseDir, path)
	if err != nil {
		return filepath.ToSlash(filepath.Join(om.imageName, fileName)), nil
	}
	return link, nil
}
