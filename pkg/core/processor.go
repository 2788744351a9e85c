package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/markdown"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

// ErrRunInProgress is returned when Run is called while another run on the
// same processor has not finished
var ErrRunInProgress = errors.New("batch run already in progress")

// BatchProcessor converts every accepted image in a directory into a
// markdown document. Items are processed strictly one after another.
type BatchProcessor struct {
	config    *config.Config
	logger    *logger.Logger
	analyzer  interfaces.Analyzer
	loader    interfaces.Loader
	writer    interfaces.ArtifactWriter
	releasers []interfaces.Releaser
	observers []interfaces.OutcomeObserver
	resources *utils.ResourceManager
	accepted  map[string]bool

	mu      sync.Mutex
	running bool
	state   types.RunState
}

// Option configures a BatchProcessor
type Option func(*BatchProcessor)

// WithLoader replaces the default image loader
func WithLoader(l interfaces.Loader) Option {
	return func(p *BatchProcessor) {
		p.loader = l
	}
}

// WithObserver registers an observer that receives every item outcome
func WithObserver(o interfaces.OutcomeObserver) Option {
	return func(p *BatchProcessor) {
		p.observers = append(p.observers, o)
	}
}

// WithReleaser registers an extra resource to release after every item
func WithReleaser(r interfaces.Releaser) Option {
	return func(p *BatchProcessor) {
		p.releasers = append(p.releasers, r)
	}
}

// WithWriter replaces the default output tree writer
func WithWriter(w interfaces.ArtifactWriter) Option {
	return func(p *BatchProcessor) {
		p.writer = w
	}
}

// NewBatchProcessor validates cfg, prepares the output tree and returns a
// processor bound to analyzer. cfg is copied; later changes have no effect.
func NewBatchProcessor(cfg *config.Config, analyzer interfaces.Analyzer, log *logger.Logger, opts ...Option) (*BatchProcessor, error) {
	if cfg == nil {
		return nil, utils.NewConfigError("configuration is required", nil)
	}
	if analyzer == nil {
		return nil, utils.NewConfigError("an analyzer is required", nil)
	}
	if log == nil {
		log = logger.DefaultLogger()
	}

	cfg = cfg.Clone()
	cfg.AcceptedExtensions = utils.NormalizeExtensions(cfg.AcceptedExtensions)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	outputs := utils.NewOutputManager(cfg.OutputDir, cfg.ImageDirName, log)
	if err := outputs.EnsureBaseDir(); err != nil {
		return nil, err
	}

	p := &BatchProcessor{
		config:    cfg,
		logger:    log,
		analyzer:  analyzer,
		loader:    dataset.NewImageLoader(cfg.AcceptedExtensions),
		writer:    outputs,
		resources: utils.NewResourceManager("", log),
		accepted:  utils.ExtensionSet(cfg.AcceptedExtensions),
		state:     types.StateIdle,
	}
	if r, ok := analyzer.(interfaces.Releaser); ok {
		p.releasers = append(p.releasers, r)
	}
	for _, opt := range opts {
		opt(p)
	}

	log.Info("batch processor initialized",
		"output_dir", cfg.OutputDir,
		"image_dir", cfg.ImageDir(),
		"extensions", cfg.AcceptedExtensions,
		"engine", analyzer.Name(),
		"release_after_each_item", cfg.ReleaseAfterEachItem)

	return p, nil
}

// State returns the current run state
func (p *BatchProcessor) State() types.RunState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Config returns a copy of the accepted configuration
func (p *BatchProcessor) Config() *config.Config {
	return p.config.Clone()
}

// Run scans inputDir (one level), loads every candidate and converts the
// loaded images in scan order. Per-item failures are counted, never returned;
// only directory-level problems produce an error.
func (p *BatchProcessor) Run(ctx context.Context, inputDir string, opts types.RunOptions) (*types.ProcessingResult, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrRunInProgress
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	start := time.Now()
	opts = opts.WithDefaults()
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	result := &types.ProcessingResult{RunID: runID}

	// Scanning
	p.setState(log, types.StateScanning)
	absDir, err := utils.GetAbsolutePath(inputDir)
	if err != nil {
		p.setState(log, types.StateIdle)
		return nil, utils.NewInvalidDirectoryError(fmt.Sprintf("invalid directory: %s", inputDir), err)
	}
	result.InputDir = absDir
	log.Info("processing directory", "path", absDir)
	log.ProgressAlways("📂", "Processing directory: %s", absDir)

	candidates, err := p.scan(log, absDir)
	if err != nil {
		p.setState(log, types.StateIdle)
		return nil, err
	}
	log.Info("scan complete", "candidates", len(candidates))
	log.Progress("🔍", "Found %d image files", len(candidates))
	if len(candidates) == 0 {
		p.setState(log, types.StateIdle)
		return nil, utils.NewNoCandidatesError(constants.ErrNoCandidatesFound, nil).WithContext("path", absDir)
	}

	// Loading
	p.setState(log, types.StateLoading)
	loaded := p.load(ctx, log, candidates, result)
	log.Info("load complete", "loaded", len(loaded), "skipped", result.Skipped)
	log.Progress("📥", "Successfully loaded %d images", len(loaded))
	if len(loaded) == 0 {
		log.Error("no images could be loaded; check that files exist, are readable and are valid images", "path", absDir)
		p.setState(log, types.StateIdle)
		return nil, utils.NewNoCandidatesError(constants.ErrNoneLoaded, nil).WithContext("path", absDir)
	}

	// Processing
	p.setState(log, types.StateProcessing)
	total := len(loaded)
	for i, img := range loaded {
		outcome := p.processItem(ctx, log, i, total, img, opts)
		result.Record(outcome)
		p.notify(outcome)

		if p.config.ReleaseAfterEachItem {
			p.release(log)
		}
		// Drop the image bytes as soon as the item is done
		loaded[i] = nil
	}
	if !p.config.ReleaseAfterEachItem {
		p.release(log)
	}

	result.Duration = time.Since(start)
	p.setState(log, types.StateDone)

	log.Info("processing complete",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration", result.Duration.Round(time.Millisecond).String())

	return result, nil
}

// scan lists the directory (non-recursive) and returns accepted regular
// files sorted by name
func (p *BatchProcessor) scan(log *logger.Logger, dir string) ([]types.CandidateFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		log.Error("directory does not exist", "path", dir, "error", err)
		return nil, utils.NewInvalidDirectoryError(fmt.Sprintf("invalid directory: %s", dir), err)
	}
	if !info.IsDir() {
		log.Error("path is not a directory", "path", dir)
		return nil, utils.NewInvalidDirectoryError(fmt.Sprintf("not a directory: %s", dir), nil)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, utils.NewInvalidDirectoryError(fmt.Sprintf("cannot read directory: %s", dir), err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var candidates []types.CandidateFile
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		suffix := filepath.Ext(name)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if target, err := os.Stat(path); err == nil {
				isDir = target.IsDir()
			}
		}

		if isDir {
			log.Info("scan entry", "name", name, "suffix", suffix, "accepted", false, "reason", "directory")
			continue
		}

		accepted := utils.HasExtension(name, p.accepted)
		log.Info("scan entry", "name", name, "suffix", suffix, "accepted", accepted)
		if accepted {
			candidates = append(candidates, types.CandidateFile{Path: path, Name: name})
		}
	}

	return candidates, nil
}

// load runs the loading stage; failures become load_failed outcomes
func (p *BatchProcessor) load(ctx context.Context, log *logger.Logger, candidates []types.CandidateFile, result *types.ProcessingResult) []*dataset.LoadedImage {
	loaded := make([]*dataset.LoadedImage, 0, len(candidates))
	for i, c := range candidates {
		img, err := p.loader.Load(ctx, c)
		if err != nil {
			if !errors.Is(err, utils.ErrItemLoad) {
				err = utils.NewItemLoadError("failed to load image", err)
			}
			log.Error("error reading image", "file", c.Name, "path", c.Path, "error", err)

			outcome := types.ItemOutcome{Index: i, Candidate: c, Status: types.StatusLoadFailed, Err: err}
			result.Record(outcome)
			p.notify(outcome)
			continue
		}
		loaded = append(loaded, img)
	}
	return loaded
}

// processItem converts one image. Errors and panics raised by the analyzer
// are captured in the returned outcome.
func (p *BatchProcessor) processItem(ctx context.Context, log *logger.Logger, index, total int, img *dataset.LoadedImage, opts types.RunOptions) (outcome types.ItemOutcome) {
	start := time.Now()
	c := img.Candidate
	itemLog := log.With("file", c.Name, "index", index+1, "total", total)

	outcome = types.ItemOutcome{Index: index, Candidate: c}
	defer func() {
		if r := recover(); r != nil {
			itemLog.Error("panic while processing image", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			outcome.Status = types.StatusFailed
			outcome.OutputPath = ""
			outcome.Err = utils.NewItemProcessingError(fmt.Sprintf("panic while processing %s: %v", c.Name, r), nil)
		}
		outcome.Duration = time.Since(start)

		if outcome.Succeeded() {
			itemLog.Info("successfully processed", "output", outcome.OutputPath, "assets", outcome.AssetCount,
				"duration", outcome.Duration.Round(time.Millisecond).String())
			itemLog.Progress("✅", "Successfully processed: %s", c.Stem())
		} else {
			itemLog.Error("error processing image", "error", outcome.Err, "cause", string(utils.GetErrorType(errors.Unwrap(outcome.Err))))
			itemLog.Progress("❌", "Error processing image %s: %v", c.Name, outcome.Err)
		}
	}()

	itemLog.Info("processing image")
	itemLog.Progress("🖼️", "Processing image %d/%d: %s", index+1, total, c.Name)

	outputPath, assetCount, err := p.transform(ctx, img, opts)
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.Err = utils.NewItemProcessingError(fmt.Sprintf("failed to process %s", c.Name), err)
		return outcome
	}

	outcome.Status = types.StatusSucceeded
	outcome.OutputPath = outputPath
	outcome.AssetCount = assetCount
	return outcome
}

// transform runs the analyzer and persists its document
func (p *BatchProcessor) transform(ctx context.Context, img *dataset.LoadedImage, opts types.RunOptions) (string, int, error) {
	req := interfaces.AnalyzeRequest{
		Options:      opts,
		Settings:     p.config.Settings,
		ImageDirName: p.config.ImageDirName,
	}

	doc, err := p.analyzer.Analyze(ctx, img, req)
	if err != nil {
		return "", 0, err
	}
	if doc == nil {
		return "", 0, fmt.Errorf("%s returned no document", p.analyzer.Name())
	}

	mapping := make(map[string]string, len(doc.Assets))
	for _, asset := range doc.Assets {
		link, err := p.writer.WriteAsset(asset.Name, asset.Data)
		if err != nil {
			return "", 0, err
		}
		mapping[asset.Name] = link
	}

	content := doc.Markdown
	if len(mapping) > 0 {
		content = string(markdown.RewriteImageLinks([]byte(content), mapping))
	}

	path, err := p.writer.WriteMarkdown(img.Candidate.OutputName(), content)
	if err != nil {
		return "", 0, err
	}
	return path, len(doc.Assets), nil
}

// release frees engine resources and per-item scratch space
func (p *BatchProcessor) release(log *logger.Logger) {
	for _, r := range p.releasers {
		if err := r.Release(); err != nil {
			log.Warn("failed to release resources", "error", err)
		}
	}
	if err := p.resources.Release(); err != nil {
		log.Warn("failed to clean scratch space", "error", err)
	}
}

func (p *BatchProcessor) notify(outcome types.ItemOutcome) {
	for _, o := range p.observers {
		o.Observe(outcome)
	}
}

func (p *BatchProcessor) setState(log *logger.Logger, state types.RunState) {
	p.mu.Lock()
	prev := p.state
	p.state = state
	p.mu.Unlock()
	log.Debug("run state changed", "from", string(prev), "to", string(state))
}
