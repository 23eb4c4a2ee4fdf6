// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
)

const (
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	name              = "osm-nominatim"
)

type Nominatim struct {
	endpoint string
	http     *http.Client
	logger   *logger.Logger
}

type SearchResult struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Class       string  `json:"class"`
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	State   string `json:"state"`
	Country string `json:"country"`
}

func New(client *http.Client, log *logger.Logger) *Nominatim {
	return &Nominatim{
		endpoint: APISearchEndpoint,
		http:     client,
		logger:   log,
	}
}

func (n *Nominatim) Name() string {
	return name
}

// Search looks up the query and maps the results onto the common location shape: the OSM class
// and type become key and value, and the city falls back to town and village.
func (n *Nominatim) Search(ctx context.Context, query string, lang language.Tag, limit int) ([]geocode.Location, error) {
	var results []SearchResult

	params := url.Values{}
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("accept-language", lang.String())

	code, err := n.http.Get(ctx, n.endpoint, &results, params, nil)
	if err != nil {
		if errors.Is(err, http.ErrUnexpectedStatus) && code == stdhttp.StatusBadRequest {
			return []geocode.Location{}, nil
		}
		return nil, fmt.Errorf("%w: failed to search locations with Nominatim API: %w",
			http.ErrUpstreamUnavailable, err)
	}

	locations := make([]geocode.Location, 0, len(results))
	for _, result := range results {
		if len(locations) == limit {
			break
		}
		location := geocode.Location{
			Country:  result.Address.Country,
			City:     result.Address.City,
			Name:     result.Name,
			OSMKey:   result.Class,
			OSMValue: result.Type,
		}
		if location.City == "" && result.Address.Town != "" {
			location.City = result.Address.Town
		}
		if location.City == "" && result.Address.Town == "" && result.Address.Village != "" {
			location.City = result.Address.Village
		}
		// The city is already part of the hit's own name for settlements
		if location.City == location.Name {
			location.City = ""
		}
		location.Point = n.parsePoint(result)
		locations = append(locations, location)
	}

	return locations, nil
}

// parsePoint converts the string coordinates of a result. Unparsable coordinates leave the point
// at its zero value, the same as a provider that omits it.
func (n *Nominatim) parsePoint(result SearchResult) geocode.Point {
	lat, latErr := strconv.ParseFloat(result.APILat, 64)
	lng, lngErr := strconv.ParseFloat(result.APILon, 64)
	if latErr != nil || lngErr != nil {
		n.logger.Debug("failed to parse coordinates from Nominatim API response",
			logger.Err(errors.Join(latErr, lngErr)))
		return geocode.Point{}
	}
	return geocode.Point{Lat: lat, Lng: lng}
}
