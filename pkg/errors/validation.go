package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateRecipeName validates a recipe's display name.
// Names end up in file names, cache keys and stored records, so the rules
// are conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateRecipeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidRecipe, "recipe name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidRecipe, "recipe name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecipe, "recipe name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidRecipe, "recipe name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidatePath validates an output or recipe file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
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

	return nil
}

// ValidateDimension checks that a requested room dimension is a positive,
// finite number. NaN and infinities are geometry errors; zero and negative
// sizes are request errors.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidGeometry, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidRequest, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateFraction checks that v lies in [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidRequest, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}
