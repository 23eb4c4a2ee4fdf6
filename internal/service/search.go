// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/placefinder-bot/internal/selection"
)

// Search looks up the query and returns one choice per hit in the provider's order. Each choice
// carries the point of the hit it was rendered from.
func (s *Service) Search(ctx context.Context, query string) ([]selection.Choice, error) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	locations, err := s.searcher.Search(ctxFetch, query, s.lang, s.config.Search.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	s.logger.Debug("searched locations", slog.String("provider", s.searcher.Name()),
		slog.String("query", query), slog.Int("hits", len(locations)))

	lines := s.presenter.Locations(ctxFetch, locations, s.translator)
	choices := make([]selection.Choice, len(locations))
	for i, location := range locations {
		choices[i] = selection.Choice{Text: lines[i], Point: location.Point}
	}
	return choices, nil
}
