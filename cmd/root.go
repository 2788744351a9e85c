package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/core"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/ocr"
	"github.com/nodewee/img2md/pkg/report"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

var (
	outputDir   string
	extensions  []string
	engineKind  string
	language    string
	layoutModel string
	formula     bool
	verbose     bool
	quiet       bool
	vramSize    int
	ocrThresh   float64
	ocrBatch    int
	modelsDir   string
	reportPath  string
	logFormat   string
	showVersion bool
)

// AppHandler wires configuration, engine selection and the batch processor
// for one invocation
type AppHandler struct {
	config *config.Config
	logger *logger.Logger
	flags  *cobra.Command
}

// NewAppHandler creates an application handler bound to the command's flags
func NewAppHandler(cmd *cobra.Command) *AppHandler {
	return &AppHandler{flags: cmd}
}

// ProcessDirectory is the main entry point for a batch run
func (h *AppHandler) ProcessDirectory(ctx context.Context, inputDir string) (*types.ProcessingResult, error) {
	if err := h.initialize(); err != nil {
		return nil, err
	}

	registry := ocr.NewRegistry(h.config, h.logger)
	engine, err := registry.Select(h.config.Engine)
	if err != nil {
		return nil, err
	}

	var opts []core.Option
	var collector *report.Collector
	if reportPath != "" {
		collector = report.NewCollector(h.logger)
		opts = append(opts, core.WithObserver(collector))
	}

	processor, err := core.NewBatchProcessor(h.config, engine, h.logger, opts...)
	if err != nil {
		return nil, err
	}

	result, runErr := processor.Run(ctx, inputDir, h.runOptions())

	if collector != nil {
		if err := collector.WriteFile(reportPath, result); err != nil {
			h.logger.Warn("failed to write report", "path", reportPath, "error", err)
		} else {
			h.logger.ProgressAlways("📊", "Report written to %s", reportPath)
		}
	}

	return result, runErr
}

// initialize loads configuration and creates the logger
func (h *AppHandler) initialize() error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides()

	if err := h.config.ExpandPaths(); err != nil {
		return err
	}
	if err := h.config.Validate(); err != nil {
		return err
	}

	h.logger = logger.NewLogger(h.config.LogLevel, h.config.LogFormat, h.config.EnableVerbose, os.Stderr)
	h.logger.Debug("configuration loaded", "config", h.config.String())
	return nil
}

// applyCommandLineOverrides applies flags the user actually set, so values
// from the config file and environment survive untouched flags
func (h *AppHandler) applyCommandLineOverrides() {
	changed := func(name string) bool {
		return h.flags != nil && h.flags.Flags().Changed(name)
	}

	if changed("output") {
		h.config.OutputDir = outputDir
	}
	if changed("ext") {
		h.config.AcceptedExtensions = utils.NormalizeExtensions(extensions)
	}
	if changed("engine") {
		h.config.Engine = types.EngineKind(strings.ToLower(engineKind))
	}
	if changed("vram") {
		h.config.Settings.VRAMSizeGB = vramSize
	}
	if changed("ocr-thresh") {
		h.config.Settings.DetDBThresh = ocrThresh
	}
	if changed("ocr-batch") {
		h.config.Settings.RecBatchNum = ocrBatch
	}
	if changed("models-dir") {
		h.config.Settings.ModelsDir = modelsDir
	}
	if changed("log-format") {
		h.config.LogFormat = logFormat
	}
	if changed("verbose") {
		h.config.EnableVerbose = verbose
	}
	if quiet {
		h.config.EnableVerbose = false
	}
}

func (h *AppHandler) runOptions() types.RunOptions {
	return types.RunOptions{
		Language:      language,
		Verbose:       h.config.EnableVerbose,
		LayoutModel:   layoutModel,
		FormulaEnable: formula,
	}.WithDefaults()
}

// displayResults prints the end-of-run summary
func displayResults(result *types.ProcessingResult, outputDir string) {
	fmt.Printf("\n📋 Processing results\n")
	fmt.Printf("  Total images:  %d\n", result.Total)
	fmt.Printf("  Succeeded:     %d\n", result.Succeeded)
	fmt.Printf("  Failed:        %d\n", result.Failed)
	if result.Skipped > 0 {
		fmt.Printf("  Unreadable:    %d (not counted in total)\n", result.Skipped)
	}
	fmt.Printf("⏱️  Processing time: %s\n", result.Duration.Round(time.Millisecond))
	if abs, err := filepath.Abs(outputDir); err == nil {
		fmt.Printf("📁 Output: %s\n", abs)
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "img2md [input_dir]",
	Short: "Batch-convert a directory of images into markdown documents",
	Long: `Convert every image in a directory into a markdown document using a
document-analysis engine.

Each accepted file (default: .png, .jpg, .jpeg, case-insensitive) in the
input directory is loaded, analyzed and written to {output}/{stem}.md.
Figures extracted by the engine are stored under {output}/images and
linked from the markdown by relative path.

A file that cannot be read or converted is logged and counted; it never
stops the rest of the batch.

Engines:
- mineru:    MinerU command-line tool (layout analysis, tables, formulas)
- tesseract: Tesseract OCR through its C API (plain text)
- auto:      MinerU when installed, otherwise Tesseract

Examples:
  img2md ./scans                                   # Convert images in ./scans into ./output
  img2md ./scans -o ./notes                        # Write markdown into ./notes
  img2md ./scans --engine tesseract --lang en      # Use Tesseract with English
  img2md ./scans --formula --layout-model layoutlmv3
  img2md ./scans --ext .png --ext .webp            # Only pick up PNG and WebP files
  img2md ./scans --report run.xlsx                 # Save per-file outcomes as a spreadsheet
  img2md ./scans --quiet --log-format json         # Machine-readable logs, no progress lines`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("img2md %s\n", version)
			return nil
		}

		if len(args) == 0 {
			return cmd.Help()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		handler := NewAppHandler(cmd)
		result, err := handler.ProcessDirectory(ctx, args[0])
		if err != nil {
			return reportError(os.Stderr, err)
		}

		displayResults(result, handler.config.OutputDir)
		return nil
	},
}

// reportError prints err with its type and returns it when it should end the
// process with a non-zero status. Item-level errors are only warned about.
func reportError(w io.Writer, err error) error {
	errType := utils.GetErrorType(err)
	if !utils.IsFatal(err) {
		fmt.Fprintf(w, "⚠️  Warning (%s): %v\n", errType, err)
		return nil
	}
	fmt.Fprintf(w, "❌ Error (%s): %v\n", errType, err)
	return err
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", constants.DefaultOutputDir,
		"Output directory for markdown files (images go to {output}/images)")
	rootCmd.Flags().StringSliceVar(&extensions, "ext", constants.DefaultAcceptedExtensions,
		"Accepted file extensions (repeatable or comma-separated)")
	rootCmd.Flags().StringVar(&engineKind, "engine", string(types.EngineAuto),
		"Document-analysis engine (auto, mineru, tesseract)")
	rootCmd.Flags().StringVar(&language, "lang", constants.DefaultLanguage,
		"Document language (ch, en, japan, korean, ...)")
	rootCmd.Flags().StringVar(&layoutModel, "layout-model", constants.DefaultLayoutModel,
		"Layout detection model passed to the engine")
	rootCmd.Flags().BoolVar(&formula, "formula", constants.DefaultFormulaEnable,
		"Enable formula detection")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", constants.DefaultVerbose,
		"Show progress information")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Suppress progress information")
	rootCmd.Flags().IntVar(&vramSize, "vram", constants.DefaultVRAMSizeGB,
		"Virtual VRAM size in GB handed to the engine")
	rootCmd.Flags().Float64Var(&ocrThresh, "ocr-thresh", constants.DefaultDetDBThresh,
		"OCR detection threshold (lower is more sensitive)")
	rootCmd.Flags().IntVar(&ocrBatch, "ocr-batch", constants.DefaultRecBatchNum,
		"OCR recognition batch size")
	rootCmd.Flags().StringVar(&modelsDir, "models-dir", "",
		"Local model directory for the engine")
	rootCmd.Flags().StringVar(&reportPath, "report", "",
		"Write per-file outcomes to an XLSX workbook")
	rootCmd.Flags().StringVar(&logFormat, "log-format", constants.DefaultLogFormat,
		"Log format (text, json)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false,
		"Show version information")
}
