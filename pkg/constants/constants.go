package constants

// Application constants
const (
	AppName = "img2md"
	// Note: the version is injected via ldflags in main.go
	// Use cmd.GetVersionInfo() to get the current version at runtime
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Output layout
	DefaultOutputDir         = "output"
	DefaultImageDirName      = "images"
	MarkdownFileExtension    = ".md"
	AssetNameHashLength      = 16
	DefaultAssetExtension    = ".jpg"
	DefaultReportSheetName   = "Outcomes"
	DefaultSummarySheetName  = "Summary"
	DefaultEngineTempPattern = "img2md-engine-*"
)

// Per-run option defaults
const (
	DefaultLanguage      = "ch"
	DefaultLayoutModel   = "doclayout_yolo"
	DefaultFormulaEnable = false
	DefaultVerbose       = true
)

// Engine tuning defaults
const (
	DefaultVRAMSizeGB  = 8
	DefaultDetDBThresh = 0.2
	DefaultRecBatchNum = 6
)

// Logging defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// DefaultAcceptedExtensions are the image suffixes picked up by a scan
var DefaultAcceptedExtensions = []string{".png", ".jpg", ".jpeg"}

// KnownImageExtensions lists every suffix the load stage can decode
var KnownImageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp",
}

// Environment variables read by config.LoadConfigWithEnvOverrides
const (
	EnvOutputDir      = "IMG2MD_OUTPUT_DIR"
	EnvExtensions     = "IMG2MD_EXTENSIONS"
	EnvEngine         = "IMG2MD_ENGINE"
	EnvMinerUPath     = "IMG2MD_MINERU_PATH"
	EnvTessdataPrefix = "IMG2MD_TESSDATA_PREFIX"
	EnvModelsDir      = "IMG2MD_MODELS_DIR"
	EnvVRAMSize       = "IMG2MD_VRAM_SIZE"
	EnvDetDBThresh    = "IMG2MD_OCR_DET_DB_THRESH"
	EnvRecBatchNum    = "IMG2MD_OCR_REC_BATCH_NUM"
	EnvLogLevel       = "IMG2MD_LOG_LEVEL"
	EnvLogFormat      = "IMG2MD_LOG_FORMAT"
	EnvVerbose        = "IMG2MD_VERBOSE"
)

// Environment variables rendered into the external engine's process
const (
	EngineEnvModelsDir     = "LOCAL_MODELS_DIR"
	EngineEnvVRAMSize      = "VIRTUAL_VRAM_SIZE"
	EngineEnvDetDBThresh   = "OCR_DET_DB_THRESH"
	EngineEnvRecBatchNum   = "OCR_REC_BATCH_NUM"
	EngineEnvLayoutModel   = "MINERU_LAYOUT_MODEL"
	EngineEnvFormulaEnable = "MINERU_FORMULA_ENABLE"
)

// Error messages
const (
	ErrInvalidFile       = "invalid or corrupted image"
	ErrUnsupportedFormat = "unsupported image format"
	ErrNoCandidatesFound = "no files with accepted extensions found"
	ErrNoneLoaded        = "no valid images could be loaded"
)
