package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodewee/img2md/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool paths and engine settings",
	Long: `Manage persisted tool paths and engine settings.

Configuration is stored as YAML in your home directory (~/.img2md/config.yaml).
Values there are overridden by IMG2MD_* environment variables and by flags.

Available commands:
  list  - List all persisted settings
  get   - Get a specific setting
  set   - Set a specific setting

Examples:
  img2md config list                               # List all settings
  img2md config get mineru_path                    # Get the MinerU path
  img2md config set mineru_path /opt/mineru/bin/mineru
  img2md config set vram_size_gb 16                # Give the engine 16GB of virtual VRAM
  img2md config set engine tesseract               # Always use Tesseract`,
}

// listConfig lists all persisted settings
func listConfig() {
	fmt.Println("🛠️  img2md Configuration")
	fmt.Println("========================")

	configPath, err := config.GetConfigFilePath()
	if err != nil {
		fmt.Printf("❌ Error locating configuration: %v\n", err)
		return
	}
	fmt.Printf("📁 Config file: %s\n\n", configPath)

	for _, key := range config.ListConfigKeys() {
		value, err := config.GetConfigValue(key)
		if err != nil {
			fmt.Printf("❌ Error loading configuration: %v\n", err)
			return
		}
		fmt.Printf("  %-20s = %s\n", key, getDisplayValue(value))
	}

	fmt.Println("\n💡 Tip: Use 'img2md config get <key>' to get specific values")
	fmt.Println("💡 Tip: Use 'img2md config set <key> <value>' to change a setting")
	fmt.Println("💡 Note: Output directory, extensions and logging are runtime-only")
}

// getConfig gets a specific configuration value
func getConfig(key string) error {
	value, err := config.GetConfigValue(key)
	if err != nil {
		fmt.Printf("❌ Error getting config value '%s': %v\n", key, err)
		return err
	}

	fmt.Printf("📝 %s = %v\n", key, value)
	return nil
}

// setConfig sets a specific configuration value
func setConfig(key, value string) error {
	if err := config.SetConfigValue(key, value); err != nil {
		fmt.Printf("❌ Error setting config value '%s': %v\n", key, err)
		return err
	}

	fmt.Printf("✅ Successfully set %s = %v\n", key, value)
	return nil
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value interface{}) string {
	if s, ok := value.(string); ok && s == "" {
		return "(not set)"
	}
	return fmt.Sprint(value)
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Run: func(cmd *cobra.Command, args []string) {
		listConfig()
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:          "get <key>",
	Short:        "Get a specific setting",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return getConfig(args[0])
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:          "set <key> <value>",
	Short:        "Set a specific setting",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfig(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
