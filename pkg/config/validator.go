package config

import (
	"fmt"
	"strings"

	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

// ConfigValidator checks a Config before a processor accepts it
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate returns a config AppError listing every problem found
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateOutput(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateExtensions(c.AcceptedExtensions); err != nil {
		errors = append(errors, err.Error())
	}

	if !isKnownEngine(c.Engine) {
		errors = append(errors, fmt.Sprintf("invalid engine: %s", c.Engine))
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogFormat(c.LogFormat); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewConfigError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

func (v *ConfigValidator) validateOutput(c *Config) error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	name := strings.TrimSpace(c.ImageDirName)
	if name == "" {
		return fmt.Errorf("image directory name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("image directory name must be a single path element: %s", c.ImageDirName)
	}
	return nil
}

func (v *ConfigValidator) validateExtensions(exts []string) error {
	normalized := utils.NormalizeExtensions(exts)
	if len(normalized) == 0 {
		return fmt.Errorf("at least one accepted extension is required")
	}

	var unknown []string
	for _, ext := range normalized {
		if !utils.IsImageFile(ext) {
			unknown = append(unknown, ext)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("no decoder for extensions: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}

func (v *ConfigValidator) validateLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log format: %s", format)
}

func isKnownEngine(kind types.EngineKind) bool {
	switch kind {
	case types.EngineAuto, types.EngineMinerU, types.EngineTesseract:
		return true
	}
	return false
}
