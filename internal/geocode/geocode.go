// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"

	"golang.org/x/text/language"
)

// Point is a geographic coordinate as carried on a search hit. Its JSON form is part of the
// selection payload and must round-trip unchanged.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is a single, possibly partially populated, search hit. Empty strings mean unknown.
type Location struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	Name     string `json:"name"`
	OSMKey   string `json:"osm_key"`
	OSMValue string `json:"osm_value"`
	Point    Point  `json:"point"`
}

// Searcher is implemented by each geocoding API backend. An empty slice with a nil error means
// the provider found nothing; errors are reserved for failures to reach the provider.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, lang language.Tag, limit int) ([]Location, error)
}
