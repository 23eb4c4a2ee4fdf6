// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/weather"
)

const (
	name        = "openweathermap"
	APIEndpoint = "https://api.openweathermap.org/data/2.5/weather"
	APITimeout  = time.Second * 10
)

type OpenWeatherMap struct {
	apikey string
	log    *logger.Logger
	http   *http.Client
}

func New(http *http.Client, log *logger.Logger, apikey string) (*OpenWeatherMap, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	return &OpenWeatherMap{apikey: apikey, http: http, log: log}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// Weather fetches the current weather for the given coordinates in metric units, with the
// condition description in the requested language.
func (o *OpenWeatherMap) Weather(ctx context.Context, lat, lon float64, lang language.Tag) (*weather.Data, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", o.apikey)
	query.Set("units", "metric")
	query.Set("lang", apiLanguage(lang))

	data := new(weather.Data)
	if _, err := o.http.GetWithTimeout(ctx, APIEndpoint, data, query, nil, APITimeout); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch weather data from OpenWeatherMap API: %w",
			http.ErrUpstreamUnavailable, err)
	}
	o.log.Debug("fetched weather data", slog.String("provider", name), slog.String("location", data.Name.Value()))

	return data, nil
}

// apiLanguage reduces the tag to the base language code the API expects.
func apiLanguage(lang language.Tag) string {
	base, _ := lang.Base()
	return base.String()
}
