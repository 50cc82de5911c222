// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package label turns the location fields of a property listing into the short label shown on
// a property card.
package label

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/estatehub/placename/internal/geo"
)

const (
	// DefaultTemplate renders the plain place name.
	DefaultTemplate = "{{.Name}}"

	ellipsis = "…"
)

// Resolver maps coordinates to a place name. It is satisfied by *locname.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, lat, lon float64) string
}

// DisplayData is the data a label template is rendered with.
type DisplayData struct {
	// Name is the resolved place name or the raw location string if the coordinates
	// could not be parsed
	Name string
	// Raw is the location string as entered in the listing
	Raw string
	// Resolved is true when Name was produced by the resolver
	Resolved  bool
	Latitude  float64
	Longitude float64
}

// Labeler renders location labels with a template and an optional display width.
type Labeler struct {
	resolver Resolver
	tpl      *template.Template
	maxWidth int
}

// New returns a Labeler. An empty format uses DefaultTemplate, a maxWidth of 0 disables truncation.
func New(resolver Resolver, format string, maxWidth int) (*Labeler, error) {
	if format == "" {
		format = DefaultTemplate
	}
	tpl, err := template.New("label").Funcs(template.FuncMap{
		"lc":          strings.ToLower,
		"uc":          strings.ToUpper,
		"truncate":    Truncate,
		"floatFormat": floatFormat,
	}).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label template: %w", err)
	}
	return &Labeler{
		resolver: resolver,
		tpl:      tpl,
		maxWidth: maxWidth,
	}, nil
}

// Label renders the label for a listing with the given raw location string and combined
// "lat,lng" coordinates. If coords is not a valid coordinate pair the resolver is not called
// and the raw location string is used as name.
func (l *Labeler) Label(ctx context.Context, raw, coords string) (string, error) {
	data := DisplayData{Name: raw, Raw: raw}
	if coord, err := geo.ParseLatLng(coords); err == nil {
		data.Name = l.resolver.Resolve(ctx, coord.Lat, coord.Lon)
		data.Resolved = true
		data.Latitude = coord.Lat
		data.Longitude = coord.Lon
	}

	buf := bytes.NewBuffer(nil)
	if err := l.tpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render label template: %w", err)
	}
	return Truncate(buf.String(), l.maxWidth), nil
}

// Truncate shortens s to at most width display cells, ending in an ellipsis. A width of
// 0 or less returns s unchanged.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}
