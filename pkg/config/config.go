package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

// Config holds application configuration
type Config struct {
	// Output tree
	OutputDir          string   `yaml:"-"`
	ImageDirName       string   `yaml:"-"`
	AcceptedExtensions []string `yaml:"-"`

	// Engine selection and tool paths (persisted)
	Engine         types.EngineKind     `yaml:"engine"`
	MinerUPath     string               `yaml:"mineru_path"`
	TessdataPrefix string               `yaml:"tessdata_prefix"`
	Settings       types.EngineSettings `yaml:"engine_settings"`

	// Runtime settings (not persisted to file)
	ReleaseAfterEachItem bool   `yaml:"-"`
	LogLevel             string `yaml:"-"`
	LogFormat            string `yaml:"-"`
	EnableVerbose        bool   `yaml:"-"`
}

// DefaultEngineSettings returns the engine tuning defaults
func DefaultEngineSettings() types.EngineSettings {
	return types.EngineSettings{
		VRAMSizeGB:  constants.DefaultVRAMSizeGB,
		DetDBThresh: constants.DefaultDetDBThresh,
		RecBatchNum: constants.DefaultRecBatchNum,
	}
}

// NewConfig returns built-in defaults without touching the filesystem
func NewConfig() *Config {
	return &Config{
		OutputDir:            constants.DefaultOutputDir,
		ImageDirName:         constants.DefaultImageDirName,
		AcceptedExtensions:   append([]string(nil), constants.DefaultAcceptedExtensions...),
		Engine:               types.EngineAuto,
		Settings:             DefaultEngineSettings(),
		ReleaseAfterEachItem: true,
		LogLevel:             constants.DefaultLogLevel,
		LogFormat:            constants.DefaultLogFormat,
		EnableVerbose:        constants.DefaultVerbose,
	}
}

// DefaultConfig returns defaults merged with the user's config file
func DefaultConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config file, using basic defaults: %v\n", err)
		return NewConfig()
	}
	return config
}

// LoadConfigWithEnvOverrides loads the config file, then .env, then applies
// IMG2MD_* environment variable overrides
func LoadConfigWithEnvOverrides() *Config {
	config := DefaultConfig()

	if err := LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load .env: %v\n", err)
	}

	ApplyEnvOverrides(config)
	return config
}

// LoadDotEnv loads .env files (default ./.env) into the process environment.
// Variables already set are never overridden; a missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return utils.WrapError(err, utils.ErrorTypeConfig, fmt.Sprintf("failed to load %s", f))
		}
	}
	return nil
}

// ApplyEnvOverrides applies IMG2MD_* environment variables to config.
// Unparseable numeric values are ignored.
func ApplyEnvOverrides(config *Config) {
	if value := os.Getenv(constants.EnvOutputDir); value != "" {
		config.OutputDir = value
	}
	if value := os.Getenv(constants.EnvExtensions); value != "" {
		config.AcceptedExtensions = utils.NormalizeExtensions([]string{value})
	}
	if value := os.Getenv(constants.EnvEngine); value != "" {
		config.Engine = types.EngineKind(strings.ToLower(value))
	}
	if value := os.Getenv(constants.EnvMinerUPath); value != "" {
		config.MinerUPath = value
	}
	if value := os.Getenv(constants.EnvTessdataPrefix); value != "" {
		config.TessdataPrefix = value
	}
	if value := os.Getenv(constants.EnvModelsDir); value != "" {
		config.Settings.ModelsDir = value
	}
	if value := os.Getenv(constants.EnvVRAMSize); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			config.Settings.VRAMSizeGB = intVal
		}
	}
	if value := os.Getenv(constants.EnvDetDBThresh); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			config.Settings.DetDBThresh = floatVal
		}
	}
	if value := os.Getenv(constants.EnvRecBatchNum); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			config.Settings.RecBatchNum = intVal
		}
	}
	if value := os.Getenv(constants.EnvLogLevel); value != "" {
		config.LogLevel = value
	}
	if value := os.Getenv(constants.EnvLogFormat); value != "" {
		config.LogFormat = value
	}
	if value := os.Getenv(constants.EnvVerbose); value != "" {
		config.EnableVerbose = parseBool(value)
	}
}

func parseBool(value string) bool {
	value = strings.ToLower(value)
	return value == "true" || value == "1" || value == "yes"
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// ImageDir returns the asset directory under the output root
func (c *Config) ImageDir() string {
	return filepath.Join(c.OutputDir, c.ImageDirName)
}

// ExpandPaths expands a leading ~ and environment variables in every
// path-valued field
func (c *Config) ExpandPaths() error {
	for _, field := range []*string{&c.OutputDir, &c.MinerUPath, &c.TessdataPrefix, &c.Settings.ModelsDir} {
		if *field == "" {
			continue
		}
		expanded, err := utils.ExpandPath(*field)
		if err != nil {
			return utils.WrapError(err, utils.ErrorTypeConfig, "failed to expand path")
		}
		*field = expanded
	}
	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.AcceptedExtensions = append([]string(nil), c.AcceptedExtensions...)
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Output: %s, Extensions: %v, Engine: %s, LogLevel: %s, Verbose: %v}",
		c.OutputDir, c.AcceptedExtensions, c.Engine, c.LogLevel, c.EnableVerbose)
}
