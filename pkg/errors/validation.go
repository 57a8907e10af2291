package errors

import (
	"strings"
	"unicode"
)

// ValidateID validates a workflow, node, or group identifier supplied at an
// external boundary (HTTP request bodies, CLI arguments). Identifiers become
// map keys, file names, and store keys, so the rules are intentionally
// conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No path separators or traversal sequences (.., /, \)
//   - No leading dot
//   - Maximum length of 256 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "identifier contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(id, ".") {
		return New(ErrCodeInvalidInput, "identifier cannot start with a dot")
	}

	return nil
}
