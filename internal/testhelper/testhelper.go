// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper contains shared helpers for the package tests.
package testhelper

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is an endpoint that is reachable from integration tests.
const TestOnlineAPIURL = "https://httpbin.org/delay/2"

// MockRoundTripper is a http.RoundTripper that hands every request to Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless PERFORM_ONLINE_API_TESTS is set.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv("PERFORM_ONLINE_API_TESTS") == "" {
		t.Skip("skipping online API tests")
	}
}

// JSONResponse returns a response with the given status code and body.
func JSONResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// FileResponse returns a 200 response with the content of the given fixture file as body.
func FileResponse(t *testing.T, file string) *http.Response {
	t.Helper()
	data, err := os.Open(file)
	if err != nil {
		t.Fatalf("failed to open JSON response file: %s", err)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       data,
		Header:     make(http.Header),
	}
}
