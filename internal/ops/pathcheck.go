package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/meetcorpus/internal/errors"
)

// ValidateOutputDir checks a destination directory before any view is written.
// It rejects:
// 1. Empty paths
// 2. Path traversal (.. components)
// 3. A symlink at the directory itself
// 4. An existing non-directory at the path
//
// A directory that does not exist yet is fine; Persist creates it.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.NewInvalidRequest("output directory is required")
	}
	if containsTraversal(dir) {
		return errors.NewInvalidRequest("output directory must not contain directory traversal (..)")
	}

	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid output directory: %v", err))
	}

	info, err := os.Lstat(absDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.NewInternal(err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("output directory must not be a symlink")
	}
	if !info.IsDir() {
		return errors.NewInvalidRequest("output path exists and is not a directory")
	}
	return nil
}

// ValidatePrefix checks that a file name prefix names files directly inside the output
// directory.
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return errors.NewInvalidRequest("file prefix is required")
	}
	if SanitizeForFilename(prefix) != prefix || strings.HasPrefix(prefix, ".") {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid file prefix %q", prefix))
	}
	return nil
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	// Also check for forward slashes on all platforms (e.g., user input)
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}

// SanitizeForFilename sanitizes a string for safe use in a filename.
// Removes/replaces characters that could be used for path traversal or injection.
func SanitizeForFilename(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	// Remove null bytes and other control characters
	var result strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			result.WriteRune(r)
		}
	}
	s = result.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		s = "unnamed"
	}
	return s
}
