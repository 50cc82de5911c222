// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"math"
	"testing"
)

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		valid bool
	}{
		{"hyderabad", Coordinate{Lat: 17.385044, Lon: 78.486671}, true},
		{"null island", Coordinate{}, true},
		{"bounds", Coordinate{Lat: -90, Lon: 180}, true},
		{"latitude too large", Coordinate{Lat: 90.1, Lon: 0}, false},
		{"longitude too small", Coordinate{Lat: 0, Lon: -180.5}, false},
		{"latitude is NaN", Coordinate{Lat: math.NaN(), Lon: 0}, false},
		{"longitude is infinite", Coordinate{Lat: 0, Lon: math.Inf(1)}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.coord.Valid(); got != tc.valid {
				t.Errorf("expected Valid() to return %t, got %t", tc.valid, got)
			}
		})
	}
}

func TestCoordinate_String(t *testing.T) {
	t.Run("shortest decimal representation is used", func(t *testing.T) {
		coord := Coordinate{Lat: 17.385044, Lon: 78.486671}
		if coord.String() != "17.385044,78.486671" {
			t.Errorf("expected %q, got %q", "17.385044,78.486671", coord.String())
		}
	})
	t.Run("integral values carry no trailing zeros", func(t *testing.T) {
		coord := Coordinate{Lat: 1, Lon: -2}
		if coord.String() != "1,-2" {
			t.Errorf("expected %q, got %q", "1,-2", coord.String())
		}
	})
}

func TestParseLatLng(t *testing.T) {
	t.Run("valid coordinates are parsed", func(t *testing.T) {
		coord, err := ParseLatLng(" 17.385044, 78.486671 ")
		if err != nil {
			t.Fatalf("failed to parse coordinates: %s", err)
		}
		if coord.Lat != 17.385044 {
			t.Errorf("expected latitude to be %f, got %f", 17.385044, coord.Lat)
		}
		if coord.Lon != 78.486671 {
			t.Errorf("expected longitude to be %f, got %f", 78.486671, coord.Lon)
		}
	})
	t.Run("invalid inputs fail", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
		}{
			{"empty", ""},
			{"no separator", "17.385044 78.486671"},
			{"latitude is text", "north,78.486671"},
			{"longitude is empty", "17.385044,"},
			{"longitude is NaN", "17.385044,NaN"},
			{"out of range", "95,78.486671"},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				_, err := ParseLatLng(tc.raw)
				if err == nil {
					t.Fatal("expected parsing to fail")
				}
				if !errors.Is(err, ErrInvalidCoordinate) {
					t.Errorf("expected error to be %s, got %s", ErrInvalidCoordinate, err)
				}
			})
		}
	})
}
