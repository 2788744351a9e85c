// Package mineru runs the MinerU document-analysis CLI once per image.
package mineru

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/dataset"
	"github.com/nodewee/img2md/pkg/interfaces"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/markdown"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

const (
	defaultBinary = "mineru"
	parseMethod   = "ocr"
	backend       = "pipeline"
)

// Engine shells out to the mineru CLI
type Engine struct {
	binary    string
	logger    *logger.Logger
	resources *utils.ResourceManager
}

var _ interfaces.Engine = (*Engine)(nil)

// NewEngine creates a MinerU engine. Scratch directories are created under
// tempBase (os.TempDir when empty) and removed on Release.
func NewEngine(binary, tempBase string, log *logger.Logger) *Engine {
	if binary == "" {
		binary = defaultBinary
	}
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("engine", "mineru")

	// the batch processor returns heap to the OS once per item
	resources := utils.NewResourceManager(tempBase, log)
	resources.SetFreeMemory(false)

	return &Engine{
		binary:    binary,
		logger:    log,
		resources: resources,
	}
}

// Name returns the engine name
func (e *Engine) Name() string {
	return string(types.EngineMinerU)
}

// Description returns a description of the engine
func (e *Engine) Description() string {
	return "MinerU layout analysis + OCR (external CLI)"
}

// IsAvailable checks if the mineru binary can be found
func (e *Engine) IsAvailable() bool {
	if filepath.IsAbs(e.binary) {
		return utils.IsExecutable(e.binary)
	}
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Binary returns the configured executable
func (e *Engine) Binary() string {
	return e.binary
}

// Analyze runs mineru on the image and collects the produced markdown and
// every image it references
func (e *Engine) Analyze(ctx context.Context, img *dataset.LoadedImage, req interfaces.AnalyzeRequest) (*interfaces.Document, error) {
	opts := req.Options.WithDefaults()

	outDir, err := e.resources.CreateTempDir(constants.DefaultEngineTempPattern)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create engine scratch directory")
	}

	inputPath := utils.NormalizePath(img.Candidate.Path)
	cmd := exec.CommandContext(ctx, e.binary, BuildArgs(inputPath, outDir, opts)...)
	cmd.Env = BuildEnv(os.Environ(), req.Settings, opts)

	e.logger.Debug("running mineru", "command", cmd.String())
	output, err := cmd.CombinedOutput()
	if opts.Verbose && len(output) > 0 {
		e.logger.Debug("mineru output", "file", img.Candidate.Name, "output", strings.TrimSpace(string(output)))
	}
	if err != nil {
		e.logger.Error("mineru command failed", "file", img.Candidate.Name, "output", lastLines(string(output), 20))
		return nil, utils.WrapError(err, "", fmt.Sprintf("mineru failed on %s", img.Candidate.Name))
	}

	mdPath, err := findMarkdown(outDir, img.Candidate.Stem())
	if err != nil {
		return nil, utils.WrapError(err, "", "failed to locate mineru output")
	}

	content, err := os.ReadFile(mdPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mineru markdown: %w", err)
	}

	assets, err := collectAssets(filepath.Dir(mdPath), content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("mineru produced document", "file", img.Candidate.Name, "markdown", mdPath, "assets", len(assets))
	return &interfaces.Document{Markdown: string(content), Assets: assets}, nil
}

// Release removes this item's scratch directories
func (e *Engine) Release() error {
	return e.resources.Release()
}

// BuildArgs renders the mineru command line
func BuildArgs(inputPath, outDir string, opts types.RunOptions) []string {
	return []string{
		"-p", inputPath,
		"-o", outDir,
		"-m", parseMethod,
		"-b", backend,
		"-l", opts.Language,
		"-f", strconv.FormatBool(opts.FormulaEnable),
	}
}

// BuildEnv returns base plus the engine settings, rendered for the child
// process only. Later entries win, so settings override inherited values.
func BuildEnv(base []string, s types.EngineSettings, opts types.RunOptions) []string {
	env := append([]string(nil), base...)
	if s.ModelsDir != "" {
		dir := s.ModelsDir
		if abs, err := utils.GetAbsolutePath(dir); err == nil {
			dir = abs
		}
		env = append(env, constants.EngineEnvModelsDir+"="+dir)
	}
	env = append(env,
		constants.EngineEnvVRAMSize+"="+strconv.Itoa(s.VRAMSizeGB),
		constants.EngineEnvDetDBThresh+"="+strconv.FormatFloat(s.DetDBThresh, 'f', -1, 64),
		constants.EngineEnvRecBatchNum+"="+strconv.Itoa(s.RecBatchNum),
		constants.EngineEnvLayoutModel+"="+opts.LayoutModel,
		constants.EngineEnvFormulaEnable+"="+strconv.FormatBool(opts.FormulaEnable),
	)
	return env
}

// findMarkdown locates the document mineru wrote for stem, preferring an
// exact "<stem>.md" match
func findMarkdown(root, stem string) (string, error) {
	var found []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), constants.MarkdownFileExtension) {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan mineru output: %w", err)
	}
	if len(found) == 0 {
		return "", utils.NewNotFoundError(fmt.Sprintf("mineru produced no markdown in %s", root), nil)
	}

	sort.Strings(found)
	for _, p := range found {
		if filepath.Base(p) == stem+constants.MarkdownFileExtension {
			return p, nil
		}
	}
	return found[0], nil
}

// collectAssets reads every local image the markdown references.
// Remote URLs and references escaping mdDir are ignored.
func collectAssets(mdDir string, content []byte) ([]interfaces.Asset, error) {
	var assets []interfaces.Asset
	for _, ref := range markdown.ImageReferences(content) {
		if strings.Contains(ref, "://") || strings.HasPrefix(ref, "data:") {
			continue
		}
		clean := path.Clean(filepath.ToSlash(ref))
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(mdDir, filepath.FromSlash(clean)))
		if err != nil {
			return nil, fmt.Errorf("missing mineru asset %s: %w", ref, err)
		}
		assets = append(assets, interfaces.Asset{Name: ref, Data: data})
	}
	return assets, nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
