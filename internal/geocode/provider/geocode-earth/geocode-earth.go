// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

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
	APIEndpoint = "https://api.geocode.earth/v1/reverse"
	name        = "geocode-earth"
)

type GeocodeEarth struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

type Feature struct {
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Properties holds the parts of a Pelias feature used for place names. Pelias hierarchies
// run neighbourhood < macrohood < borough < locality.
type Properties struct {
	Label         string `json:"label"`
	Street        string `json:"street"`
	Neighbourhood string `json:"neighbourhood"`
	Macrohood     string `json:"macrohood"`
	Borough       string `json:"borough"`
	Locality      string `json:"locality"`
	Region        string `json:"region"`
	RegionA       string `json:"region_a"`
	Country       string `json:"country"`
	CountryA      string `json:"country_a"`
}

func New(client *http.Client, lang language.Tag, apikey string) *GeocodeEarth {
	return &GeocodeEarth{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Reverse(ctx context.Context, coords geo.Coordinate) (geocode.Result, error) {
	var response Response

	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("point.lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	query.Set("point.lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	query.Set("size", "1")
	if g.lang != language.Und {
		query.Set("lang", g.lang.String())
	}

	if _, err := g.http.Get(ctx, APIEndpoint, &response, query, nil); err != nil {
		return geocode.Result{}, fmt.Errorf("failed to retrieve address details from geocode.earth API: %w", err)
	}
	if len(response.Features) < 1 {
		return geocode.Result{}, geocode.ErrNoResults
	}

	props := response.Features[0].Properties
	var components []geocode.AddressComponent
	add := func(long, short string, types ...string) {
		if long == "" {
			return
		}
		if short == "" {
			short = long
		}
		components = append(components, geocode.AddressComponent{LongName: long, ShortName: short, Types: types})
	}
	add(props.Street, "", geocode.TypeRoute)
	add(props.Neighbourhood, "", geocode.TypeNeighborhood, geocode.TypePolitical)
	add(props.Macrohood, "", geocode.TypeSublocalityLevel2, geocode.TypeSublocality, geocode.TypePolitical)
	add(props.Borough, "", geocode.TypeSublocalityLevel1, geocode.TypeSublocality, geocode.TypePolitical)
	add(props.Locality, "", geocode.TypeLocality, geocode.TypePolitical)
	add(props.Region, props.RegionA, geocode.TypeAdministrativeArea, geocode.TypePolitical)
	add(props.Country, props.CountryA, geocode.TypeCountry, geocode.TypePolitical)

	return geocode.Result{FormattedAddress: props.Label, Components: components}, nil
}
