// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/places"
	"github.com/wneessen/placefinder-bot/internal/presenter"
	"github.com/wneessen/placefinder-bot/internal/weather"
)

const FetchTimeout = time.Second * 30

// Report is everything shown for a selected point.
type Report struct {
	Weather string
	Places  []presenter.Place
}

// Describe fetches the weather and the points of interest around the point concurrently. If
// either request fails, the other one is canceled and the error is returned.
func (s *Service) Describe(ctx context.Context, point geocode.Point) (*Report, error) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	var data *weather.Data
	var found []places.Place
	group, groupCtx := errgroup.WithContext(ctxFetch)
	group.Go(func() error {
		var err error
		if data, err = s.weather.Weather(groupCtx, point.Lat, point.Lng, s.lang); err != nil {
			return fmt.Errorf("failed to fetch weather: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		found, err = s.places.Places(groupCtx, point.Lat, point.Lng, s.config.Places.Radius, s.config.Places.Limit,
			s.lang)
		if err != nil {
			return fmt.Errorf("failed to fetch places: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("described point", slog.Float64("lat", point.Lat), slog.Float64("lng", point.Lng),
		slog.Int("places", len(found)))

	return &Report{
		Weather: s.presenter.Weather(data),
		Places:  s.presenter.Places(found),
	}, nil
}
