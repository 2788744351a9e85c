package constants

import (
	"runtime"
)

// PlatformConfig lists where external engine binaries usually live
type PlatformConfig struct {
	MinerUPaths    []string
	TessdataPaths  []string
	TempDirPrefix  string
	ExecutableExts []string
}

// GetPlatformConfig returns platform-specific configuration
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "windows":
		return &PlatformConfig{
			MinerUPaths: []string{
				"mineru.exe",
				"magic-pdf.exe",
			},
			TessdataPaths: []string{
				"C:\\Program Files\\Tesseract-OCR\\tessdata",
			},
			TempDirPrefix:  "img2md-",
			ExecutableExts: []string{".exe", ".bat", ".cmd"},
		}
	case "darwin":
		return &PlatformConfig{
			MinerUPaths: []string{
				"mineru",
				"magic-pdf",
				"/opt/homebrew/bin/mineru",
				"/usr/local/bin/mineru",
			},
			TessdataPaths: []string{
				"/opt/homebrew/share/tessdata",
				"/usr/local/share/tessdata",
			},
			TempDirPrefix: "img2md-",
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			MinerUPaths: []string{
				"mineru",
				"magic-pdf",
				"/usr/local/bin/mineru",
				"/usr/bin/mineru",
			},
			TessdataPaths: []string{
				"/usr/share/tesseract-ocr/5/tessdata",
				"/usr/share/tesseract-ocr/4.00/tessdata",
				"/usr/share/tessdata",
			},
			TempDirPrefix: "img2md-",
		}
	}
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// IsUnixLike returns true if running on a Unix-like system (macOS, Linux, etc.)
func IsUnixLike() bool {
	return runtime.GOOS != "windows"
}
