package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nodewee/img2md/pkg/constants"
	"github.com/nodewee/img2md/pkg/types"
	"github.com/nodewee/img2md/pkg/utils"
)

const (
	ConfigFileName = "config.yaml"
	AppDirName     = ".img2md"
)

// ConfigFile represents the YAML configuration file structure
type ConfigFile struct {
	Engine         types.EngineKind     `yaml:"engine,omitempty"`
	MinerUPath     string               `yaml:"mineru_path"`
	TessdataPrefix string               `yaml:"tessdata_prefix"`
	Settings       types.EngineSettings `yaml:"engine_settings"`
}

// GetConfigDir returns the user configuration directory (~/.img2md)
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}
	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig loads configuration from file or creates a default one
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to get config file path")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfigFile(configPath)
	}

	return loadConfigFromFile(configPath)
}

// createDefaultConfigFile writes a config file with auto-detected tool paths
func createDefaultConfigFile(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}

	configFile := &ConfigFile{
		Engine:   types.EngineAuto,
		Settings: DefaultEngineSettings(),
	}
	detectAndUpdateToolPaths(configFile)

	if err := saveConfigFile(configPath, configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to save default config file")
	}

	fmt.Fprintf(os.Stderr, "✅ Created default configuration file: %s\n", configPath)
	if configFile.MinerUPath != "" || configFile.TessdataPrefix != "" {
		fmt.Fprintf(os.Stderr, "🔍 Auto-detected available tools\n")
	}

	return configFileToConfig(configFile), nil
}

// loadConfigFromFile loads configuration from an existing file
func loadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	// Missing keys keep their defaults
	configFile := ConfigFile{Engine: types.EngineAuto, Settings: DefaultEngineSettings()}
	if err := yaml.Unmarshal(data, &configFile); err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeConfig, "failed to parse config file")
	}

	return configFileToConfig(&configFile), nil
}

// SaveConfig saves the persisted part of config to file
func SaveConfig(config *Config) error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), constants.DefaultDirPermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}
	return saveConfigFile(configPath, configToConfigFile(config))
}

// saveConfigFile saves ConfigFile to disk
func saveConfigFile(configPath string, configFile *ConfigFile) error {
	data, err := yaml.Marshal(configFile)
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeConfig, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}

	return nil
}

// detectAndUpdateToolPaths fills empty tool paths from PATH and platform defaults
func detectAndUpdateToolPaths(configFile *ConfigFile) {
	platformConfig := constants.GetPlatformConfig()

	if configFile.MinerUPath == "" {
		configFile.MinerUPath = detectExecutable(platformConfig.MinerUPaths)
	}
	if configFile.TessdataPrefix == "" {
		for _, dir := range platformConfig.TessdataPaths {
			if utils.IsDir(dir) {
				configFile.TessdataPrefix = dir
				break
			}
		}
	}
}

// DetectMinerUPath returns the first mineru executable found, or ""
func DetectMinerUPath() string {
	return detectExecutable(constants.GetPlatformConfig().MinerUPaths)
}

func detectExecutable(candidates []string) string {
	for _, pathOrName := range candidates {
		var detectedPath string
		if filepath.IsAbs(pathOrName) {
			detectedPath = pathOrName
		} else if found, err := exec.LookPath(pathOrName); err == nil {
			detectedPath = found
		}

		if detectedPath != "" && utils.IsExecutable(detectedPath) {
			return utils.NormalizePath(detectedPath)
		}
	}
	return ""
}

// configFileToConfig converts ConfigFile to Config with runtime defaults
func configFileToConfig(cf *ConfigFile) *Config {
	config := NewConfig()
	if cf.Engine != "" {
		config.Engine = cf.Engine
	}
	config.MinerUPath = cf.MinerUPath
	config.TessdataPrefix = cf.TessdataPrefix
	config.Settings = cf.Settings
	return config
}

// configToConfigFile converts Config to ConfigFile
func configToConfigFile(c *Config) *ConfigFile {
	return &ConfigFile{
		Engine:         c.Engine,
		MinerUPath:     c.MinerUPath,
		TessdataPrefix: c.TessdataPrefix,
		Settings:       c.Settings,
	}
}

type configKey struct {
	get func(c *Config) interface{}
	set func(c *Config, value string) error
}

var configKeys = map[string]configKey{
	"engine": {
		get: func(c *Config) interface{} { return string(c.Engine) },
		set: func(c *Config, v string) error {
			kind := types.EngineKind(strings.ToLower(v))
			if !isKnownEngine(kind) {
				return utils.NewValidationError(fmt.Sprintf("unknown engine: %s", v), nil)
			}
			c.Engine = kind
			return nil
		},
	},
	"mineru_path": {
		get: func(c *Config) interface{} { return c.MinerUPath },
		set: func(c *Config, v string) error { c.MinerUPath = v; return nil },
	},
	"tessdata_prefix": {
		get: func(c *Config) interface{} { return c.TessdataPrefix },
		set: func(c *Config, v string) error { c.TessdataPrefix = v; return nil },
	},
	"models_dir": {
		get: func(c *Config) interface{} { return c.Settings.ModelsDir },
		set: func(c *Config, v string) error { c.Settings.ModelsDir = v; return nil },
	},
	"vram_size_gb": {
		get: func(c *Config) interface{} { return c.Settings.VRAMSizeGB },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return utils.NewValidationError("vram_size_gb must be an integer", err)
			}
			c.Settings.VRAMSizeGB = n
			return nil
		},
	},
	"ocr_det_db_thresh": {
		get: func(c *Config) interface{} { return c.Settings.DetDBThresh },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return utils.NewValidationError("ocr_det_db_thresh must be a number", err)
			}
			c.Settings.DetDBThresh = f
			return nil
		},
	},
	"ocr_rec_batch_num": {
		get: func(c *Config) interface{} { return c.Settings.RecBatchNum },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return utils.NewValidationError("ocr_rec_batch_num must be an integer", err)
			}
			c.Settings.RecBatchNum = n
			return nil
		},
	},
}

// GetConfigValue gets a specific configuration value by key
func GetConfigValue(key string) (interface{}, error) {
	k, ok := configKeys[key]
	if !ok {
		return nil, utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return k.get(config), nil
}

// SetConfigValue parses value for key and saves the updated file
func SetConfigValue(key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return utils.NewValidationError(fmt.Sprintf("unknown config key: %s", key), nil)
	}

	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if err := k.set(config, value); err != nil {
		return err
	}

	return SaveConfig(config)
}

// ListConfigKeys returns all available configuration keys, sorted
func ListConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
