//go:build notesseract

package ocr

import (
	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/logger"
)

func registerTesseract(r *Registry, cfg *config.Config, log *logger.Logger) {
	log.Debug("tesseract engine not compiled in")
}
