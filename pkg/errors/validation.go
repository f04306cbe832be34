package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateGraphID validates an opaque graph identifier before it is used as a
// storage key or file name.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateGraphID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "graph id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "graph id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "graph id contains invalid control characters")
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
			return New(ErrCodeInvalidID, "graph id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDelimiter validates a user-supplied table delimiter.
// An empty string is valid and means "auto-detect".
func ValidateDelimiter(s string) error {
	if s == "" {
		return nil
	}
	if s == `\t` {
		return nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return New(ErrCodeInvalidInput, "delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return New(ErrCodeInvalidInput, "delimiter %q is not allowed", s)
	}
	return nil
}

// ParseDelimiter converts a validated delimiter string into a rune.
// It returns 0 for the empty string, which callers treat as "auto-detect".
// The two-character escape `\t` is accepted for tab.
func ParseDelimiter(s string) (rune, error) {
	if err := ValidateDelimiter(s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
