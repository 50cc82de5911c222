// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package google

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
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
	neighborhoodFile     = "../../../../testdata/google_banjara_hills.json"
	neighborhoodExpected = "Banjara Hills"
	sublocalityFile      = "../../../../testdata/google_sublocality.json"
	sublocalityExpected  = "Jubilee Hills"
	zeroResultsFile      = "../../../../testdata/google_zero_results.json"
	deniedFile           = "../../../../testdata/google_request_denied.json"
	malformedFile        = "../../../../testdata/google_malformed.json"
)

var hyderabad = geo.Coordinate{Lat: 17.385044, Lon: 78.486671}

func TestNew(t *testing.T) {
	t.Run("creating a new provider succeeds", func(t *testing.T) {
		coder := New(http.New(logger.NewLogger(slog.LevelDebug, io.Discard)), language.English, "key")
		if coder == nil {
			t.Fatal("expected a non-nil geocoder")
		}
	})
	t.Run("provider name is correct", func(t *testing.T) {
		coder := New(http.New(logger.NewLogger(slog.LevelDebug, io.Discard)), language.English, "key")
		if coder.Name() != name {
			t.Errorf("expected provider name to be %q, got %q", name, coder.Name())
		}
	})
}

func TestGoogle_Reverse(t *testing.T) {
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, neighborhoodFile))
		result, err := coder.Reverse(t.Context(), hyderabad)
		if err != nil {
			t.Fatal(err)
		}
		if len(result.Components) != 5 {
			t.Fatalf("expected 5 address components, got %d", len(result.Components))
		}
		name, ok := geocode.SelectName(result.Components)
		if !ok {
			t.Fatal("expected a place name to be found")
		}
		if name != neighborhoodExpected {
			t.Errorf("expected place name to be %q, got %q", neighborhoodExpected, name)
		}
	})
	t.Run("reverse geocoding with sublocality returns the sublocality", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, sublocalityFile))
		result, err := coder.Reverse(t.Context(), hyderabad)
		if err != nil {
			t.Fatal(err)
		}
		name, _ := geocode.SelectName(result.Components)
		if name != sublocalityExpected {
			t.Errorf("expected place name to be %q, got %q", sublocalityExpected, name)
		}
	})
	t.Run("request carries the expected query", func(t *testing.T) {
		var query map[string][]string
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			query = req.URL.Query()
			return testhelper.FileResponse(t, neighborhoodFile)(req)
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		if _, err := coder.Reverse(t.Context(), hyderabad); err != nil {
			t.Fatal(err)
		}
		want := map[string]string{
			"latlng":      "17.385044,78.486671",
			"key":         "test-key",
			"result_type": "sublocality|neighborhood|route",
			"language":    "en",
		}
		for key, val := range want {
			if len(query[key]) != 1 || query[key][0] != val {
				t.Errorf("expected query parameter %s to be %q, got %q", key, val, query[key])
			}
		}
	})
	t.Run("zero results are reported as no results", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, zeroResultsFile))
		_, err := coder.Reverse(t.Context(), hyderabad)
		if !errors.Is(err, geocode.ErrNoResults) {
			t.Errorf("expected error to be %s, got %s", geocode.ErrNoResults, err)
		}
	})
	t.Run("OK status without results is reported as no results", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.JSONResponse(t, 200, Response{Status: statusOK}))
		_, err := coder.Reverse(t.Context(), hyderabad)
		if !errors.Is(err, geocode.ErrNoResults) {
			t.Errorf("expected error to be %s, got %s", geocode.ErrNoResults, err)
		}
	})
	t.Run("error status fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, deniedFile))
		_, err := coder.Reverse(t.Context(), hyderabad)
		if !errors.Is(err, geocode.ErrProviderStatus) {
			t.Fatalf("expected error to be %s, got %s", geocode.ErrProviderStatus, err)
		}
		if !strings.Contains(err.Error(), "REQUEST_DENIED") {
			t.Errorf("expected error to contain the provider status, got %q", err)
		}
	})
	t.Run("malformed JSON fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.FileResponse(t, malformedFile))
		_, err := coder.Reverse(t.Context(), hyderabad)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to decode JSON") {
			t.Errorf("expected a decode error, got %q", err)
		}
	})
	t.Run("non-2xx response fails", func(t *testing.T) {
		coder := testCoderWithRoundtripFunc(t, testhelper.JSONResponse(t, 503, Response{Status: statusOK}))
		_, err := coder.Reverse(t.Context(), hyderabad)
		if !errors.Is(err, http.ErrUnexpectedStatus) {
			t.Errorf("expected error to be %s, got %s", http.ErrUnexpectedStatus, err)
		}
	})
	t.Run("reverse geocoding fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("intentionally failing")
		}
		coder := testCoderWithRoundtripFunc(t, rtFn)
		if _, err := coder.Reverse(t.Context(), hyderabad); err == nil {
			t.Fatal("expected API request to fail")
		}
	})
}

func TestGoogle_Reverse_integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	apikey := os.Getenv("GOOGLE_MAPS_APIKEY")
	if apikey == "" {
		t.Skip("no Google Maps API key set, skipping tests")
	}
	t.Run("reverse geocoding succeeds", func(t *testing.T) {
		coder := New(http.New(logger.New(slog.LevelDebug)), language.English, apikey)
		result, err := coder.Reverse(t.Context(), hyderabad)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := geocode.SelectName(result.Components); !ok {
			t.Error("expected a place name to be found")
		}
	})
}

func testCoderWithRoundtripFunc(t *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) geocode.Geocoder {
	t.Helper()
	testHttpClient := http.New(logger.NewLogger(slog.LevelDebug, io.Discard))
	testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	return New(testHttpClient, language.English, "test-key")
}

func TestGoogle_Reverse_deadline(t *testing.T) {
	t.Run("the caller deadline bounds the request", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), time.Minute)
		defer cancel()
		want, _ := ctx.Deadline()

		respond := testhelper.FileResponse(t, neighborhoodFile)
		coder := testCoderWithRoundtripFunc(t, func(req *stdhttp.Request) (*stdhttp.Response, error) {
			got, ok := req.Context().Deadline()
			if !ok || !got.Equal(want) {
				t.Errorf("expected request deadline %s, got %s", want, got)
			}
			return respond(req)
		})
		if _, err := coder.Reverse(ctx, hyderabad); err != nil {
			t.Fatal(err)
		}
	})
}
