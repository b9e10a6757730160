package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLabel validates a display name for a person or partnership.
// Labels end up verbatim in SVG text nodes and terminal output, so control
// characters are rejected.
//
// The validation rules are intentionally conservative:
//   - No control characters (including newlines and null bytes)
//   - Maximum length of 256 bytes
//
// Empty labels are allowed; the renderer draws an unlabeled box.
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return New(ErrCodeInvalidInput, "label too long (max 256 characters)")
	}
	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal when output names are derived from user data.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// identifierRegex matches SQL table names and MongoDB collection names we accept.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateIdentifier validates a table or collection name supplied on the
// command line. Names are interpolated into queries, so only plain
// identifiers are allowed.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid identifier: %q", name)
	}
	return nil
}
