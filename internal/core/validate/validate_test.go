package validate

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mappicker/internal/core/geo"
)

func TestName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid name", "Central Station", false},
		{"single letter", "A", false},
		{"empty string", "", true},
		{"only spaces", "   ", true},
		{"only tabs", "\t\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Name(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Name(%q) error = %v", tt.input, err)
		})
	}
}

func TestPointKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"locker code", "WAW01", false},
		{"with hyphen", "waw-01", false},
		{"uuid", "0b5c3a3e-59a4-4c5a-9c4d-6e5b3f1d2a10", false},
		{"unicode letters", "Kraków-7", false},
		{"empty string", "", true},
		{"with space", "WAW 01", true},
		{"with tab", "WAW\t01", true},
		{"with newline", "WAW01\n", true},
		{"control char", "WAW\x0001", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PointKey(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "PointKey(%q) error = %v", tt.input, err)
		})
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name    string
		input   geo.Position
		wantErr bool
	}{
		{"origin", geo.Position{}, false},
		{"warsaw", geo.Position{Latitude: 52.2297, Longitude: 21.0122}, false},
		{"poles and antimeridian", geo.Position{Latitude: -90, Longitude: 180}, false},
		{"latitude too high", geo.Position{Latitude: 90.5, Longitude: 0}, true},
		{"longitude too low", geo.Position{Latitude: 0, Longitude: -181}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Position(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "Position(%v) error = %v", tt.input, err)
		})
	}
}

func TestFieldValidators(t *testing.T) {
	err := criterio.ValidateStruct(
		NameField("name", ""),
		PointKeyField("key", "ok"),
		PositionField("geocode", geo.Position{Latitude: 100}),
	)
	require.Error(t, err)

	var fieldErrs criterio.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "geocode"}, fields)
}
