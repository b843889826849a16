package errors

import "unicode"

const (
	// MaxActNameLength bounds act names read from any roster source.
	MaxActNameLength = 200

	// MaxPerformerNameLength bounds performer names read from any roster source.
	MaxPerformerNameLength = 120
)

// ValidateActName validates an act name for safety and correctness.
// The name is expected to be trimmed already.
//
// The validation rules:
//   - No empty names
//   - No control characters (tabs, newlines, null bytes)
//   - Maximum length of MaxActNameLength characters
func ValidateActName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRoster, "act name cannot be empty")
	}
	if len(name) > MaxActNameLength {
		return New(ErrCodeInvalidRoster, "act name too long (max %d characters)", MaxActNameLength)
	}
	if hasControl(name) {
		return New(ErrCodeInvalidRoster, "act name %q contains invalid control characters", name)
	}
	return nil
}

// ValidatePerformerName validates a performer name. Empty names are not an
// error here: roster builders drop them before validation.
func ValidatePerformerName(name string) error {
	if len(name) > MaxPerformerNameLength {
		return New(ErrCodeInvalidRoster, "performer name too long (max %d characters)", MaxPerformerNameLength)
	}
	if hasControl(name) {
		return New(ErrCodeInvalidRoster, "performer name %q contains invalid control characters", name)
	}
	return nil
}

// ValidatePath validates a roster or output path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}
	if hasControl(path) {
		return New(ErrCodeInvalidInput, "path contains invalid characters")
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
