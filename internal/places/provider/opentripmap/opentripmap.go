// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opentripmap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/gather"
	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/places"
)

const (
	name        = "opentripmap"
	APIEndpoint = "https://api.opentripmap.com/0.1"
	APITimeout  = time.Second * 10

	// MinRate is the lowest popularity rating a candidate needs to be considered.
	MinRate = 3
)

type OpenTripMap struct {
	apikey   string
	endpoint string
	log      *logger.Logger
	http     *http.Client
}

// Candidate is a ranked entry of the radius search.
type Candidate struct {
	XID  string  `json:"xid"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
	Dist float64 `json:"dist"`
}

func New(http *http.Client, log *logger.Logger, apikey string) (*OpenTripMap, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	return &OpenTripMap{apikey: apikey, endpoint: APIEndpoint, http: http, log: log}, nil
}

func (o *OpenTripMap) Name() string {
	return name
}

// Places looks up the highest ranked points of interest around the given coordinates and
// fetches their details concurrently. The result keeps the ranking order of the radius search.
func (o *OpenTripMap) Places(ctx context.Context, lat, lon float64, radius, limit int, lang language.Tag) ([]places.Place, error) {
	candidates, err := o.candidates(ctx, lat, lon, radius, limit, lang)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []places.Place{}, nil
	}
	o.log.Debug("found place candidates", slog.Int("count", len(candidates)))

	return gather.Map(ctx, candidates, func(ctx context.Context, _ int, candidate Candidate) (places.Place, error) {
		return o.details(ctx, candidate.XID, lang)
	})
}

func (o *OpenTripMap) candidates(ctx context.Context, lat, lon float64, radius, limit int, lang language.Tag) ([]Candidate, error) {
	query := url.Values{}
	query.Set("radius", strconv.Itoa(radius))
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("rate", strconv.Itoa(MinRate))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("format", "json")
	query.Set("apikey", o.apikey)

	var candidates []Candidate
	endpoint := o.endpoint + "/" + url.PathEscape(apiLanguage(lang)) + "/places/radius"
	if _, err := o.http.GetWithTimeout(ctx, endpoint, &candidates, query, nil, APITimeout); err != nil {
		return nil, fmt.Errorf("%w: failed to search places with OpenTripMap API: %w",
			http.ErrUpstreamUnavailable, err)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

func (o *OpenTripMap) details(ctx context.Context, xid string, lang language.Tag) (places.Place, error) {
	query := url.Values{}
	query.Set("apikey", o.apikey)

	var place places.Place
	endpoint := o.endpoint + "/" + url.PathEscape(apiLanguage(lang)) + "/places/xid/" + url.PathEscape(xid)
	if _, err := o.http.GetWithTimeout(ctx, endpoint, &place, query, nil, APITimeout); err != nil {
		return place, fmt.Errorf("%w: failed to fetch details for place %q from OpenTripMap API: %w",
			http.ErrUpstreamUnavailable, xid, err)
	}

	return place, nil
}

// apiLanguage reduces the tag to the base language code used as path segment.
func apiLanguage(lang language.Tag) string {
	base, _ := lang.Base()
	return base.String()
}
