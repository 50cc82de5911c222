// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"

	"github.com/estatehub/placename/internal/geo"
	"github.com/estatehub/placename/internal/geocode"
	"github.com/estatehub/placename/internal/http"
)

const (
	APIEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"
	name        = "google"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type Google struct {
	apikey   string
	endpoint string
	http     *http.Client
	lang     language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
}

type Result struct {
	AddressComponents []AddressComponent `json:"address_components"`
	FormattedAddress  string             `json:"formatted_address"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

func New(client *http.Client, lang language.Tag, apikey string) *Google {
	return &Google{
		apikey:   apikey,
		endpoint: APIEndpoint,
		lang:     lang,
		http:     client,
	}
}

func (g *Google) Name() string {
	return name
}

func (g *Google) Reverse(ctx context.Context, coords geo.Coordinate) (geocode.Result, error) {
	var response Response

	query := url.Values{}
	query.Set("latlng", coords.String())
	query.Set("key", g.apikey)
	query.Set("result_type", strings.Join(geocode.ResultTypes, "|"))
	if g.lang != language.Und {
		query.Set("language", g.lang.String())
	}

	if _, err := g.http.Get(ctx, g.endpoint, &response, query, nil); err != nil {
		return geocode.Result{}, fmt.Errorf("failed to retrieve address details from Google Geocoding API: %w", err)
	}
	switch response.Status {
	case statusOK:
	case statusZeroResults:
		return geocode.Result{}, geocode.ErrNoResults
	default:
		return geocode.Result{}, fmt.Errorf("%w: %s %s", geocode.ErrProviderStatus, response.Status,
			response.ErrorMessage)
	}
	if len(response.Results) < 1 {
		return geocode.Result{}, geocode.ErrNoResults
	}

	first := response.Results[0]
	result := geocode.Result{
		FormattedAddress: first.FormattedAddress,
		Components:       make([]geocode.AddressComponent, 0, len(first.AddressComponents)),
	}
	for _, component := range first.AddressComponents {
		result.Components = append(result.Components, geocode.AddressComponent{
			LongName:  component.LongName,
			ShortName: component.ShortName,
			Types:     component.Types,
		})
	}

	return result, nil
}
