// Package ocr registers the available engines and picks one for a run.
package ocr

import (
	"fmt"
	"sort"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/ocr/engines/mineru"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

// autoPreference is the order tried when the engine kind is "auto"
var autoPreference = []types.EngineKind{types.EngineMinerU, types.EngineTesseract}

// EngineInfo describes a registered engine
type EngineInfo struct {
	Kind        types.EngineKind
	Description string
	Available   bool
}

// Registry holds the engines known to this build
type Registry struct {
	logger  *logger.Logger
	engines map[types.EngineKind]interfaces.Engine
}

// NewRegistry creates a registry with the MinerU engine and, unless built
// with the notesseract tag, the Tesseract engine
func NewRegistry(cfg *config.Config, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}

	r := &Registry{
		logger:  log,
		engines: make(map[types.EngineKind]interfaces.Engine),
	}

	minerUPath := cfg.MinerUPath
	if minerUPath == "" {
		minerUPath = config.DetectMinerUPath()
	}
	r.Register(types.EngineMinerU, mineru.NewEngine(minerUPath, "", log))
	registerTesseract(r, cfg, log)

	return r
}

// NewEmptyRegistry creates a registry without any engines
func NewEmptyRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{logger: log, engines: make(map[types.EngineKind]interfaces.Engine)}
}

// Register adds or replaces an engine
func (r *Registry) Register(kind types.EngineKind, engine interfaces.Engine) {
	r.engines[kind] = engine
}

// Select returns the engine for kind. "auto" picks the first available
// engine in preference order; an explicit kind must be available.
func (r *Registry) Select(kind types.EngineKind) (interfaces.Engine, error) {
	if kind == "" || kind == types.EngineAuto {
		for _, k := range autoPreference {
			if engine, ok := r.engines[k]; ok && engine.IsAvailable() {
				r.logger.Info("auto-selected engine", "engine", engine.Name(), "description", engine.Description())
				return engine, nil
			}
		}
		return nil, utils.NewConfigError("no document-analysis engine is available on this system", nil)
	}

	engine, exists := r.engines[kind]
	if !exists {
		return nil, utils.NewConfigError(fmt.Sprintf("unknown engine: %s", kind), nil)
	}

	if !engine.IsAvailable() {
		return nil, utils.NewConfigError(fmt.Sprintf("engine '%s' is not available on this system", engine.Name()), nil)
	}

	r.logger.Info("selected engine", "engine", engine.Name(), "description", engine.Description())
	return engine, nil
}

// List returns every registered engine, sorted by kind
func (r *Registry) List() []EngineInfo {
	infos := make([]EngineInfo, 0, len(r.engines))
	for kind, engine := range r.engines {
		infos = append(infos, EngineInfo{
			Kind:        kind,
			Description: engine.Description(),
			Available:   engine.IsAvailable(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Kind < infos[j].Kind })
	return infos
}
