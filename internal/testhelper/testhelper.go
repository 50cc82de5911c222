// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the package tests.
package testhelper

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"testing"
)

// TestOnlineAPIURL is a public endpoint used by tests that need a real network round trip.
const TestOnlineAPIURL = "https://httpbin.org/delay/2"

// MockRoundTripper is a http.RoundTripper that hands every request to Fn.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// CountingRoundTripper wraps a round trip function and counts how often it was called.
type CountingRoundTripper struct {
	Fn    func(req *http.Request) (*http.Response, error)
	calls atomic.Int64
}

func (c *CountingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.Fn(req)
}

// Calls returns the number of round trips performed so far.
func (c *CountingRoundTripper) Calls() int64 {
	return c.calls.Load()
}

// FileResponse returns a round trip function serving the given file with status code 200.
func FileResponse(t *testing.T, file string) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(*http.Request) (*http.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}

// JSONResponse returns a round trip function serving the JSON encoding of v with the given status code.
func JSONResponse(t *testing.T, status int, v any) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(*http.Request) (*http.Response, error) {
		buf := bytes.NewBuffer(nil)
		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, err
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(buf),
			Header:     make(http.Header),
		}, nil
	}
}

// PerformIntegrationTests skips the test unless PERFORM_INTEGRATION_TEST is set to true.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv("PERFORM_INTEGRATION_TEST"); !strings.EqualFold(val, "true") {
		t.Skip("skipping integration test")
	}
}
