// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/text/language"

	"github.com/estatehub/placename/internal/geo"
	"github.com/estatehub/placename/internal/geocode"
	"github.com/estatehub/placename/internal/http"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	name               = "osm-nominatim"

	// zoomStreet limits reverse results to street level, the coarsest detail a place label needs
	zoomStreet = 17
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type ReverseResult struct {
	Error       string  `json:"error"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	Road          string `json:"road"`
	Neighbourhood string `json:"neighbourhood"`
	Quarter       string `json:"quarter"`
	Suburb        string `json:"suburb"`
	CityDistrict  string `json:"city_district"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Reverse(ctx context.Context, coords geo.Coordinate) (geocode.Result, error) {
	var result ReverseResult

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("zoom", strconv.Itoa(zoomStreet))
	query.Set("addressdetails", "1")
	if n.lang != language.Und {
		query.Set("accept-language", n.lang.String())
	}

	if _, err := n.http.Get(ctx, APIReverseEndpoint, &result, query, nil); err != nil {
		return geocode.Result{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}
	if result.Error != "" {
		return geocode.Result{}, fmt.Errorf("%w: %s", geocode.ErrNoResults, result.Error)
	}

	return geocode.Result{
		FormattedAddress: result.DisplayName,
		Components:       result.Address.components(),
	}, nil
}

// components translates the OSM address vocabulary into Google style address components.
// A quarter is finer grained than a suburb, which in turn is finer than a city district.
func (a Address) components() []geocode.AddressComponent {
	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}

	fields := []struct {
		value     string
		shortName string
		types     []string
	}{
		{a.Road, "", []string{geocode.TypeRoute}},
		{a.Neighbourhood, "", []string{geocode.TypeNeighborhood, geocode.TypePolitical}},
		{a.Quarter, "", []string{geocode.TypeSublocalityLevel2, geocode.TypeSublocality, geocode.TypePolitical}},
		{a.Suburb, "", []string{geocode.TypeSublocalityLevel1, geocode.TypeSublocality, geocode.TypePolitical}},
		{city, "", []string{geocode.TypeLocality, geocode.TypePolitical}},
		{a.State, "", []string{geocode.TypeAdministrativeArea, geocode.TypePolitical}},
		{a.Country, a.CountryCode, []string{geocode.TypeCountry, geocode.TypePolitical}},
	}

	components := make([]geocode.AddressComponent, 0, len(fields))
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		short := field.value
		if field.shortName != "" {
			short = field.shortName
		}
		components = append(components, geocode.AddressComponent{
			LongName:  field.value,
			ShortName: short,
			Types:     field.types,
		})
	}
	return components
}
