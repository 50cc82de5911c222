// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

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
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	name        = "opencage"

	statusOK = 200
)

type OpenCage struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	Status       Status   `json:"status"`
	TotalResults int      `json:"total_results"`
}

type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Result struct {
	Components  Components `json:"components"`
	DisplayName string     `json:"formatted"`
}

type Components struct {
	NormalizedCity string `json:"_normalized_city"`
	City           string `json:"city"`
	Country        string `json:"country"`
	CountryCode    string `json:"country_code"`
	Neighbourhood  string `json:"neighbourhood"`
	Quarter        string `json:"quarter"`
	Road           string `json:"road"`
	State          string `json:"state"`
	StateCode      string `json:"state_code"`
	Suburb         string `json:"suburb"`
	Town           string `json:"town"`
	Village        string `json:"village"`
}

func New(client *http.Client, lang language.Tag, apikey string) *OpenCage {
	return &OpenCage{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Reverse(ctx context.Context, coords geo.Coordinate) (geocode.Result, error) {
	var response Response

	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", coords.String())
	query.Set("no_annotations", "1")
	query.Set("no_record", "1")
	query.Set("limit", "1")
	if o.lang != language.Und {
		query.Set("language", o.lang.String())
	}

	if _, err := o.http.Get(ctx, APIEndpoint, &response, query, nil); err != nil {
		return geocode.Result{}, fmt.Errorf("failed to retrieve address details from OpenCage API: %w", err)
	}
	if response.Status.Code != 0 && response.Status.Code != statusOK {
		return geocode.Result{}, fmt.Errorf("%w: %d %s", geocode.ErrProviderStatus, response.Status.Code,
			response.Status.Message)
	}
	if response.TotalResults < 1 || len(response.Results) < 1 {
		return geocode.Result{}, geocode.ErrNoResults
	}

	first := response.Results[0]
	return geocode.Result{
		FormattedAddress: first.DisplayName,
		Components:       first.Components.components(),
	}, nil
}

func (c Components) components() []geocode.AddressComponent {
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

	city := c.NormalizedCity
	switch {
	case c.City != "":
		city = c.City
	case c.Town != "":
		city = c.Town
	case c.Village != "":
		city = c.Village
	}

	add(c.Road, "", geocode.TypeRoute)
	add(c.Neighbourhood, "", geocode.TypeNeighborhood, geocode.TypePolitical)
	add(c.Quarter, "", geocode.TypeSublocalityLevel2, geocode.TypeSublocality, geocode.TypePolitical)
	add(c.Suburb, "", geocode.TypeSublocalityLevel1, geocode.TypeSublocality, geocode.TypePolitical)
	add(city, "", geocode.TypeLocality, geocode.TypePolitical)
	add(c.State, c.StateCode, geocode.TypeAdministrativeArea, geocode.TypePolitical)
	add(c.Country, strings.ToUpper(c.CountryCode), geocode.TypeCountry, geocode.TypePolitical)
	return components
}
