package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/img2md/pkg/constants"
)

// NormalizePath cleans a path and upper-cases a Windows drive letter
func NormalizePath(path string) string {
	cleaned := filepath.Clean(path)

	if constants.IsWindows() && len(cleaned) >= 2 && cleaned[1] == ':' {
		if cleaned[0] >= 'a' && cleaned[0] <= 'z' {
			cleaned = strings.ToUpper(string(cleaned[0])) + cleaned[1:]
		}
	}

	return cleaned
}

// GetAbsolutePath returns the normalized absolute path
func GetAbsolutePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return NormalizePath(absPath), nil
}

// EnsureDir creates a directory (and parents) if it doesn't exist
func EnsureDir(dirPath string) error {
	return os.MkdirAll(NormalizePath(dirPath), constants.DefaultDirPermission)
}

// ExpandPath expands environment variables and a leading ~
func ExpandPath(path string) (string, error) {
	expanded := os.ExpandEnv(path)

	if strings.HasPrefix(expanded, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}

		if expanded == "~" {
			expanded = homeDir
		} else if strings.HasPrefix(expanded, "~/") {
			expanded = filepath.Join(homeDir, expanded[2:])
		}
	}

	return NormalizePath(expanded), nil
}

// GetRelativePath returns target relative to base using forward slashes,
// which is the form markdown links expect on every platform
func GetRelativePath(basePath, targetPath string) (string, error) {
	relPath, err := filepath.Rel(NormalizePath(basePath), NormalizePath(targetPath))
	if err != nil {
		return "", fmt.Errorf("failed to get relative path: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}

// SanitizeFileName replaces characters that are not allowed in a file name
func SanitizeFileName(filename string) string {
	sanitized := filename

	if constants.IsWindows() {
		invalidChars := []string{"<", ">", ":", "\"", "/", "\\", "|", "?", "*"}
		for _, char := range invalidChars {
			sanitized = strings.ReplaceAll(sanitized, char, "_")
		}
		sanitized = strings.TrimRight(sanitized, ". ")
	} else {
		sanitized = strings.ReplaceAll(sanitized, "/", "_")
		sanitized = strings.ReplaceAll(sanitized, "\x00", "_")
	}

	if strings.TrimSpace(sanitized) == "" {
		sanitized = "unnamed_file"
	}

	return sanitized
}

// IsExecutable checks if a file is executable on the current platform
func IsExecutable(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return false
	}

	if constants.IsWindows() {
		ext := strings.ToLower(filepath.Ext(filePath))
		for _, e := range constants.GetPlatformConfig().ExecutableExts {
			if ext == e {
				return true
			}
		}
		return false
	}
	return info.Mode()&0111 != 0
}
