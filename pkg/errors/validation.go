package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxBatchSize bounds the number of top-level children handed to one worker.
const MaxBatchSize = 1 << 20

// ValidatePath validates a document file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No trailing separator (must name a file)
//
// Absolute paths and parent references are allowed: the CLI operates on
// the user's own files.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file: %q", path)
	}

	return nil
}

// classNameRegex matches instance class names (identifier-like).
var classNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateClassName validates an instance class name such as the
// destination root class.
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "class name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "class name too long (max 256 characters)")
	}
	if !classNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid class name: %q", name)
	}
	return nil
}

// ValidateBatchSize validates the number of top-level children per worker.
func ValidateBatchSize(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "batch size must be at least 1, got %d", n)
	}
	if n > MaxBatchSize {
		return New(ErrCodeInvalidInput, "batch size too large (max %d)", MaxBatchSize)
	}
	return nil
}

// ValidateWorkers validates a worker pool size. Zero selects the default.
func ValidateWorkers(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "workers cannot be negative, got %d", n)
	}
	return nil
}
