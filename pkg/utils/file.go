package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nodewee/img2md/pkg/constants"
)

// NormalizeExt lower-cases an extension and guarantees a leading dot.
// Empty input stays empty.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// NormalizeExtensions normalizes, de-duplicates and sorts a list of
// extensions. Entries like "png,jpg" are split on commas.
func NormalizeExtensions(exts []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, raw := range exts {
		for _, part := range strings.Split(raw, ",") {
			ext := NormalizeExt(part)
			if ext == "" || seen[ext] {
				continue
			}
			seen[ext] = true
			result = append(result, ext)
		}
	}
	sort.Strings(result)
	return result
}

// ExtensionSet builds a lookup set from normalized extensions
func ExtensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range NormalizeExtensions(exts) {
		set[ext] = true
	}
	return set
}

// HasExtension reports whether name's extension is in set, ignoring case.
// A name that is only an extension (".png") has none.
func HasExtension(name string, set map[string]bool) bool {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == base {
		return false
	}
	return set[strings.ToLower(ext)]
}

// IsImageFile determines if an extension belongs to a known image format
func IsImageFile(extension string) bool {
	ext := NormalizeExt(extension)
	for _, known := range constants.KnownImageExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
