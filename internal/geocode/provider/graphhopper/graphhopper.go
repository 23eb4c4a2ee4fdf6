// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package graphhopper

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/http"
)

const (
	APIEndpoint = "https://graphhopper.com/api/1/geocode"
	APITimeout  = time.Second * 10
	name        = "graphhopper"
)

type GraphHopper struct {
	apikey   string
	endpoint string
	http     *http.Client
}

type Response struct {
	Hits []geocode.Location `json:"hits"`
}

func New(client *http.Client, apikey string) *GraphHopper {
	return &GraphHopper{
		apikey:   apikey,
		endpoint: APIEndpoint,
		http:     client,
	}
}

func (g *GraphHopper) Name() string {
	return name
}

// Search looks up the query and returns the hits in the order GraphHopper ranked them. GraphHopper
// answers queries it cannot handle with 400, which is treated as an empty result.
func (g *GraphHopper) Search(ctx context.Context, query string, lang language.Tag, limit int) ([]geocode.Location, error) {
	var response Response

	params := url.Values{}
	params.Set("q", query)
	params.Set("locale", lang.String())
	params.Set("limit", strconv.Itoa(limit))
	params.Set("key", g.apikey)

	code, err := g.http.GetWithTimeout(ctx, g.endpoint, &response, params, nil, APITimeout)
	if err != nil {
		if errors.Is(err, http.ErrUnexpectedStatus) && isNoResultStatus(code) {
			return []geocode.Location{}, nil
		}
		return nil, fmt.Errorf("%w: failed to search locations with GraphHopper API: %w",
			http.ErrUpstreamUnavailable, err)
	}
	if response.Hits == nil {
		return []geocode.Location{}, nil
	}
	if len(response.Hits) > limit {
		response.Hits = response.Hits[:limit]
	}

	return response.Hits, nil
}

func isNoResultStatus(code int) bool {
	return code == stdhttp.StatusBadRequest || code == stdhttp.StatusNotFound
}
