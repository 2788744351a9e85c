//go:build !notesseract

package ocr

import (
	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/ocr/engines/tesseract"
	"github.com/nodewee/img2md/pkg/types"
)

// registerTesseract adds the gosseract engine; it needs cgo and libtesseract
func registerTesseract(r *Registry, cfg *config.Config, log *logger.Logger) {
	r.Register(types.EngineTesseract, tesseract.NewEngine(cfg.TessdataPrefix, log))
}
