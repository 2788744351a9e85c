package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodewee/img2md/pkg/config"
	"github.com/nodewee/img2md/pkg/logger"
	"github.com/nodewee/img2md/pkg/ocr"
)

// enginesCmd lists the document-analysis engines and whether they can run here
var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available document-analysis engines",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfigWithEnvOverrides()
		registry := ocr.NewRegistry(cfg, logger.Discard())

		fmt.Println("🔧 Document-analysis engines")
		fmt.Println("============================")
		for _, info := range registry.List() {
			status := "❌ not available"
			if info.Available {
				status = "✅ available"
			}
			fmt.Printf("  %-10s %-18s %s\n", info.Kind, status, info.Description)
		}
		fmt.Printf("\n💡 Selected by default: %s\n", cfg.Engine)
	},
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}
