// Package validation checks user supplied arguments before they are handed
// to the external build tool or used as watch roots.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateArgument rejects arguments carrying shell metacharacters or path
// traversal. The delegate is never run through a shell, but arguments are
// echoed back in status lines and forwarded verbatim to the tool.
func ValidateArgument(arg string) error {
	dangerous := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\\", "\"", "'"}
	for _, char := range dangerous {
		if strings.Contains(arg, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if strings.Contains(arg, "..") {
		return fmt.Errorf("contains path traversal: %s", arg)
	}

	for _, r := range arg {
		if unicode.IsControl(r) {
			return fmt.Errorf("contains control character %q", r)
		}
	}

	return nil
}

// ValidateExerciseName validates the target of `run`. Exercise names are
// binary target names: letters, digits, '_' and '-'.
func ValidateExerciseName(name string) error {
	if name == "" {
		return fmt.Errorf("exercise name cannot be empty")
	}

	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("exercise name cannot start with '-': %s", name)
	}

	for _, r := range name {
		if r == '_' || r == '-' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		return fmt.Errorf("invalid character %q in exercise name", r)
	}

	return nil
}

// ValidateFilter validates a test name filter. Filters may contain module
// separators such as "ownership_tests::test_user_creation" or a regexp for
// the go profile ("Test(A|B)$"), so regexp syntax is allowed. Command
// separators, redirections, quotes and control characters are not.
func ValidateFilter(filter string) error {
	if strings.HasPrefix(filter, "-") {
		return fmt.Errorf("filter cannot start with '-': %s", filter)
	}

	for _, char := range []string{";", "&", "`", "<", ">", "\"", "'"} {
		if strings.Contains(filter, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	for _, r := range filter {
		if unicode.IsControl(r) {
			return fmt.Errorf("contains control character %q", r)
		}
	}

	return nil
}

// ValidatePath validates a watch root. Roots must be relative and stay
// inside the working directory.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute path not allowed: %s", path)
	}

	cleanPath := filepath.Clean(path)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "<", ">"}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}

// ValidateFileExtension validates an extension entry such as ".rs".
func ValidateFileExtension(ext string) error {
	if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
		return fmt.Errorf("extension must start with '.': %q", ext)
	}

	if strings.ContainsAny(ext, `/\*?`) {
		return fmt.Errorf("extension must not contain path or glob characters: %q", ext)
	}

	return nil
}
