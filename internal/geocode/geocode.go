// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode defines the reverse geocoder abstraction and the rules for picking a short
// place name out of a geocoded address.
package geocode

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/estatehub/placename/internal/geo"
)

// Address component types, named after the Google Geocoding API. Providers with a different
// vocabulary translate their fields into these types.
const (
	TypeNeighborhood       = "neighborhood"
	TypeSublocalityLevel2  = "sublocality_level_2"
	TypeSublocalityLevel1  = "sublocality_level_1"
	TypeSublocality        = "sublocality"
	TypeRoute              = "route"
	TypeLocality           = "locality"
	TypePolitical          = "political"
	TypeAdministrativeArea = "administrative_area_level_1"
	TypeCountry            = "country"
)

// ResultTypes is the result_type filter sent to providers that support one.
var ResultTypes = []string{TypeSublocality, TypeNeighborhood, TypeRoute}

// precedence lists the component types considered for a place name, most specific first.
var precedence = []string{TypeNeighborhood, TypeSublocalityLevel2, TypeSublocalityLevel1, TypeRoute}

var (
	ErrNoResults      = errors.New("no geocoding results for coordinates")
	ErrNoComponent    = errors.New("no address component usable as place name")
	ErrProviderStatus = errors.New("geocoding provider returned an error status")
)

// AddressComponent is a structured fragment of a geocoded address.
type AddressComponent struct {
	LongName  string
	ShortName string
	Types     []string
}

// Name returns the short name of the component or the long name if no short name is set.
func (a AddressComponent) Name() string {
	if name := strings.TrimSpace(a.ShortName); name != "" {
		return name
	}
	return strings.TrimSpace(a.LongName)
}

// HasType reports whether the component is tagged with the given type.
func (a AddressComponent) HasType(typ string) bool {
	return slices.Contains(a.Types, typ)
}

// Result is the most relevant result of a reverse geocoding request.
type Result struct {
	FormattedAddress string
	Components       []AddressComponent
}

// Geocoder reverse geocodes a coordinate into an address using a remote provider.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coords geo.Coordinate) (Result, error)
}

// SelectName picks the most specific place name from the given components. Neighborhoods
// win over second and first level sublocalities, which win over routes. Within a tier the
// first matching component with a non-empty name is used.
func SelectName(components []AddressComponent) (string, bool) {
	for _, typ := range precedence {
		for _, component := range components {
			if !component.HasType(typ) {
				continue
			}
			if name := component.Name(); name != "" {
				return name, true
			}
		}
	}
	return "", false
}
