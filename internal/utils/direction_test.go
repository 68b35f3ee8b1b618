package utils

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestBearing(t *testing.T) {
	tests := []struct {
		name      string
		from, to  orb.Point
		expected  float64
		tolerance float64
	}{
		{
			name:      "North direction",
			from:      orb.Point{77.59, 12.97},
			to:        orb.Point{77.59, 13.97},
			expected:  0.0,
			tolerance: 1.0,
		},
		{
			name:      "East direction",
			from:      orb.Point{77.59, 12.97},
			to:        orb.Point{78.59, 12.97},
			expected:  90.0,
			tolerance: 1.0,
		},
		{
			name:      "West direction is positive",
			from:      orb.Point{77.59, 12.97},
			to:        orb.Point{76.59, 12.97},
			expected:  270.0,
			tolerance: 1.0,
		},
		{
			name:      "Northeast direction",
			from:      orb.Point{77.59, 12.97},
			to:        orb.Point{78.29, 13.67},
			expected:  45.0,
			tolerance: 10.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(tt.from, tt.to), tt.tolerance)
		})
	}
}

func TestBearingToCompass(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0.0, "N"},
		{45.0, "NE"},
		{90.0, "E"},
		{135.0, "SE"},
		{180.0, "S"},
		{225.0, "SW"},
		{270.0, "W"},
		{315.0, "NW"},
		{360.0, "N"},
		{22.0, "N"},
		{23.0, "NE"},
		{67.0, "NE"},
		{68.0, "E"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f degrees", tt.bearing), func(t *testing.T) {
			assert.Equal(t, tt.expected, BearingToCompass(tt.bearing))
		})
	}
}

func TestCompassDirection(t *testing.T) {
	station := orb.Point{77.5745, 12.9605}

	tests := []struct {
		name     string
		to       orb.Point
		expected string
	}{
		{"North gate", orb.Point{77.5745, 12.9625}, "N"},
		{"East gate", orb.Point{77.5765, 12.9605}, "E"},
		{"South gate", orb.Point{77.5745, 12.9585}, "S"},
		{"West gate", orb.Point{77.5725, 12.9605}, "W"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CompassDirection(station, tt.to))
		})
	}
}
