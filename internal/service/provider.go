// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/geocode/provider/graphhopper"
	nominatim "github.com/wneessen/placefinder-bot/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/places"
	"github.com/wneessen/placefinder-bot/internal/places/provider/opentripmap"
	"github.com/wneessen/placefinder-bot/internal/translate"
	"github.com/wneessen/placefinder-bot/internal/translate/provider/yandex"
	"github.com/wneessen/placefinder-bot/internal/weather"
	"github.com/wneessen/placefinder-bot/internal/weather/provider/openweathermap"
)

func (s *Service) selectSearchProvider(client *http.Client) (geocode.Searcher, error) {
	switch strings.ToLower(s.config.Search.Provider) {
	case "graphhopper":
		return graphhopper.New(client, s.config.Search.APIKey), nil
	case "nominatim":
		return nominatim.New(client, s.logger), nil
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", s.config.Search.Provider)
	}
}

func (s *Service) selectWeatherProvider(client *http.Client) (weather.Provider, error) {
	provider, err := openweathermap.New(client, s.logger, s.config.Weather.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenWeatherMap weather provider: %w", err)
	}
	return provider, nil
}

func (s *Service) selectPlacesProvider(client *http.Client) (places.Provider, error) {
	provider, err := opentripmap.New(client, s.logger, s.config.Places.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenTripMap places provider: %w", err)
	}
	return provider, nil
}

func (s *Service) selectTranslator(client *http.Client) (translate.Translator, error) {
	translator, err := yandex.New(client, s.logger, s.credentials, s.config.Translate.FolderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Yandex translator: %w", err)
	}
	return translate.NewCachedTranslator(translator, s.config.Translate.CacheTTL), nil
}
