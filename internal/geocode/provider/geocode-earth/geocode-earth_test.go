// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/estatehub/placename/internal/geo"
	"github.com/estatehub/placename/internal/geocode"
	"github.com/estatehub/placename/internal/http"
	"github.com/estatehub/placename/internal/logger"
	"github.com/estatehub/placename/internal/testhelper"
)

const (
	cityExpected = "Crown Heights"
	cityFile     = "../../../../testdata/geocode-earth_brooklyn.json"
)

var cityCoords = geo.Coordinate{Lat: 40.6782, Lon: -73.9442}

func TestGeocodeEarth_Reverse(t *testing.T) {
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, cityFile))
		if coder.Name() != name {
			t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
		}
		result, err := coder.Reverse(t.Context(), cityCoords)
		if err != nil {
			t.Fatal(err)
		}
		got, ok := geocode.SelectName(result.Components)
		if !ok {
			t.Fatal("expected a place name to be found")
		}
		if got != cityExpected {
			t.Errorf("expected place name to be %q, got %q", cityExpected, got)
		}
	})
	t.Run("borough is used as first level sublocality", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, cityFile))
		result, err := coder.Reverse(t.Context(), cityCoords)
		if err != nil {
			t.Fatal(err)
		}
		for _, component := range result.Components {
			if component.HasType(geocode.TypeSublocalityLevel1) {
				if component.LongName != "Brooklyn" {
					t.Errorf("expected borough to be Brooklyn, got %q", component.LongName)
				}
				return
			}
		}
		t.Error("expected a first level sublocality component")
	})
	t.Run("empty feature collection fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.JSONResponse(t, 200, Response{Type: "FeatureCollection"}))
		_, err := coder.Reverse(t.Context(), cityCoords)
		if !errors.Is(err, geocode.ErrNoResults) {
			t.Errorf("expected error to be %s, got %s", geocode.ErrNoResults, err)
		}
	})
	t.Run("non-2xx response fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.JSONResponse(t, 401, Response{}))
		_, err := coder.Reverse(t.Context(), cityCoords)
		if !errors.Is(err, http.ErrUnexpectedStatus) {
			t.Errorf("expected error to be %s, got %s", http.ErrUnexpectedStatus, err)
		}
	})
}

func testCoderWithRoundtripFunc(_ *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) geocode.Geocoder {
	testHttpClient := http.New(logger.NewLogger(slog.LevelDebug, io.Discard))
	testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	return New(testHttpClient, language.English, "test-key")
}

func TestGeocodeEarth_Reverse_deadline(t *testing.T) {
	t.Run("the caller deadline bounds the request", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
		defer cancel()
		want, _ := ctx.Deadline()

		respond := testhelper.FileResponse(t, cityFile)
		coder := testCoderWithRoundtripFunc(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			got, ok := req.Context().Deadline()
			if !ok || !got.Equal(want) {
				t.Errorf("expected request deadline %s, got %s", want, got)
			}
			return respond(req)
		})
		if _, err := coder.Reverse(ctx, cityCoords); err != nil {
			t.Fatal(err)
		}
	})
}
