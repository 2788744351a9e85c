package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodewee/img2md/pkg/config"
)

// Version information variables - set by main.go
var (
	version   = "dev"
	gitCommit = "none"
	buildTime = "unknown"
	buildBy   = "unknown"
)

// SetVersionInfo sets the version information from main.go
func SetVersionInfo(v, commit, buildTimeParam, buildByParam string) {
	version = v
	gitCommit = commit
	buildTime = buildTimeParam
	buildBy = buildByParam
}

// GetVersionInfo returns the current version information
func GetVersionInfo() (string, string, string, string) {
	return version, gitCommit, buildTime, buildBy
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		showVersionInfo()
	},
}

// showVersionInfo prints build, runtime and tool information
func showVersionInfo() {
	fmt.Printf("🖼️  img2md %s\n", version)
	fmt.Printf("==========\n\n")

	fmt.Printf("🔖 Build:\n")
	fmt.Printf("  Git Commit:  %s\n", gitCommit)
	fmt.Printf("  Build Time:  %s\n", buildTime)
	fmt.Printf("  Built By:    %s\n", buildBy)
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		fmt.Printf("  Module:      %s@%s\n", info.Main.Path, info.Main.Version)
	}
	fmt.Printf("\n")

	fmt.Printf("⚙️  Runtime:\n")
	fmt.Printf("  Go Version:  %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("\n")

	fmt.Printf("🛠️  Tools:\n")
	if path := config.DetectMinerUPath(); path != "" {
		fmt.Printf("  MinerU:      %s\n", path)
	} else {
		fmt.Printf("  MinerU:      (not found)\n")
	}
	if configPath, err := config.GetConfigFilePath(); err == nil {
		fmt.Printf("  Config:      %s\n", configPath)
	}

	if isDevBuild(version) {
		fmt.Printf("\n🔧 Development build\n")
	}
}

func isDevBuild(v string) bool {
	return v == "" || strings.Contains(v, "dev") || strings.Contains(v, "+")
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
