// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/mappicker/internal/core/geo"
)

// Name validates a display name is non-empty after trimming whitespace.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// NameField returns a criterio validator for display names.
func NameField(field, name string) error {
	return criterio.Run(field, name, Name)
}

// PointKey validates a point key is non-empty and free of whitespace and
// control characters.
func PointKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	for _, r := range key {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("key %q must not contain whitespace or control characters", key)
		}
	}
	return nil
}

// PointKeyField returns a criterio validator for point keys.
func PointKeyField(field, key string) error {
	return criterio.Run(field, key, PointKey)
}

// Position validates latitude and longitude are within range.
func Position(p geo.Position) error {
	if !p.Valid() {
		return fmt.Errorf("%s is out of range", p)
	}
	return nil
}

// PositionField returns a criterio validator for positions.
func PositionField(field string, p geo.Position) error {
	if err := Position(p); err != nil {
		return criterio.NewFieldErrors(field, err)
	}
	return nil
}
