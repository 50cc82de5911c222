// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidCoordinate is returned when a coordinate string cannot be turned into a valid Coordinate.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate represents a geographic coordinate.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is finite and within the EPSG:4326 bounds
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String returns the coordinate as "lat,lng" using the shortest decimal representation
// of each value. The result is stable and is used both as cache key and as the latlng
// query parameter of geocoding requests.
func (c Coordinate) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// ParseLatLng parses a combined "lat,lng" string as stored on property listings.
func ParseLatLng(raw string) (Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(raw, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: missing separator in %q", ErrInvalidCoordinate, raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude: %w", ErrInvalidCoordinate, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude: %w", ErrInvalidCoordinate, err)
	}

	coords := Coordinate{Lat: lat, Lon: lon}
	if !coords.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %s is out of range", ErrInvalidCoordinate, coords)
	}
	return coords, nil
}
