package types

import (
	"path/filepath"
	"strings"
	"time"
)

// EngineKind identifies a document-analysis engine
type EngineKind string

const (
	EngineAuto      EngineKind = "auto"
	EngineMinerU    EngineKind = "mineru"
	EngineTesseract EngineKind = "tesseract"
)

// RunState tracks where a batch run currently is
type RunState string

const (
	StateIdle       RunState = "idle"
	StateScanning   RunState = "scanning"
	StateLoading    RunState = "loading"
	StateProcessing RunState = "processing"
	StateDone       RunState = "done"
)

// OutcomeStatus is the per-item result of a batch run
type OutcomeStatus string

const (
	StatusSucceeded  OutcomeStatus = "succeeded"
	StatusFailed     OutcomeStatus = "failed"
	StatusLoadFailed OutcomeStatus = "load_failed"
)

// EngineSettings are tuning values handed to the engine as-is.
// They are typed but deliberately not range-checked.
type EngineSettings struct {
	ModelsDir   string  `yaml:"models_dir,omitempty" json:"models_dir,omitempty"`
	VRAMSizeGB  int     `yaml:"vram_size_gb" json:"vram_size_gb"`
	DetDBThresh float64 `yaml:"ocr_det_db_thresh" json:"ocr_det_db_thresh"`
	RecBatchNum int     `yaml:"ocr_rec_batch_num" json:"ocr_rec_batch_num"`
}

// RunOptions are the per-run overrides passed to the engine
type RunOptions struct {
	Language      string
	Verbose       bool
	LayoutModel   string
	FormulaEnable bool
}

// DefaultRunOptions returns the options used when the caller supplies none
func DefaultRunOptions() RunOptions {
	return RunOptions{
		Language:      "ch",
		Verbose:       true,
		LayoutModel:   "doclayout_yolo",
		FormulaEnable: false,
	}
}

// WithDefaults fills empty string fields from DefaultRunOptions
func (o RunOptions) WithDefaults() RunOptions {
	def := DefaultRunOptions()
	if o.Language == "" {
		o.Language = def.Language
	}
	if o.LayoutModel == "" {
		o.LayoutModel = def.LayoutModel
	}
	return o
}

// CandidateFile is a directory entry whose extension is accepted
type CandidateFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Extension returns the lower-cased extension including the dot.
// A dotfile such as ".png" has no extension.
func (c CandidateFile) Extension() string {
	return strings.ToLower(suffix(c.Name))
}

// Stem returns the filename without its last extension
func (c CandidateFile) Stem() string {
	return strings.TrimSuffix(c.Name, suffix(c.Name))
}

func suffix(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		return ""
	}
	return ext
}

// OutputName returns the markdown file name derived from the stem
func (c CandidateFile) OutputName() string {
	return c.Stem() + ".md"
}

// ItemOutcome is the explicit result of handling one candidate
type ItemOutcome struct {
	Index      int           `json:"index"`
	Candidate  CandidateFile `json:"candidate"`
	Status     OutcomeStatus `json:"status"`
	OutputPath string        `json:"output_path,omitempty"`
	AssetCount int           `json:"asset_count"`
	Err        error         `json:"-"`
	Duration   time.Duration `json:"duration"`
}

// Succeeded reports whether the item produced its markdown artifact
func (o ItemOutcome) Succeeded() bool {
	return o.Status == StatusSucceeded
}

// ErrorMessage returns the error text or an empty string
func (o ItemOutcome) ErrorMessage() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// ProcessingResult holds the aggregate counters of one run.
// Succeeded+Failed always equals Total; load failures are counted in Skipped
// and never enter Total.
type ProcessingResult struct {
	RunID     string        `json:"run_id"`
	InputDir  string        `json:"input_dir"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Counts returns the (total, succeeded, failed) triple
func (r *ProcessingResult) Counts() (int, int, int) {
	return r.Total, r.Succeeded, r.Failed
}

// Record folds one processed outcome into the counters
func (r *ProcessingResult) Record(o ItemOutcome) {
	switch o.Status {
	case StatusSucceeded:
		r.Total++
		r.Succeeded++
	case StatusFailed:
		r.Total++
		r.Failed++
	case StatusLoadFailed:
		r.Skipped++
	}
}
