// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/config"
	"github.com/wneessen/placefinder-bot/internal/credential"
	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/places"
	"github.com/wneessen/placefinder-bot/internal/presenter"
	"github.com/wneessen/placefinder-bot/internal/translate"
	"github.com/wneessen/placefinder-bot/internal/weather"
)

// Transport delivers user requests to the service until the context is canceled.
type Transport interface {
	Run(ctx context.Context) error
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	t         *spreak.Localizer
	lang      language.Tag
	SignalSrc signalSource

	credentials *credential.Manager
	searcher    geocode.Searcher
	weather     weather.Provider
	places      places.Provider
	translator  translate.Translator
	presenter   *presenter.Presenter
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer) (*Service, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if t == nil {
		return nil, errors.New("localizer is required")
	}

	lang := t.Language()
	httpClient := http.New(log)
	service := &Service{
		config:    conf,
		logger:    log,
		t:         t,
		lang:      lang,
		SignalSrc: stdLibSignalSource{},
		credentials: credential.New(httpClient, log, credential.APIEndpoint, conf.Translate.OAuthToken,
			conf.Intervals.TokenRefresh),
		presenter: presenter.New(t, log),
	}

	var err error
	if service.searcher, err = service.selectSearchProvider(httpClient); err != nil {
		return nil, fmt.Errorf("failed to create search provider: %w", err)
	}
	if service.weather, err = service.selectWeatherProvider(httpClient); err != nil {
		return nil, fmt.Errorf("failed to create weather provider: %w", err)
	}
	if service.places, err = service.selectPlacesProvider(httpClient); err != nil {
		return nil, fmt.Errorf("failed to create places provider: %w", err)
	}
	if service.translator, err = service.selectTranslator(httpClient); err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	return service, nil
}

// Localizer returns the localizer for user facing texts.
func (s *Service) Localizer() *spreak.Localizer {
	return s.t
}

// Run initializes the translation credentials and serves the transport until the context is
// canceled. A SIGHUP forces a credential refresh.
func (s *Service) Run(ctx context.Context, transport Transport) error {
	if transport == nil {
		return errors.New("transport is required")
	}
	if err := s.credentials.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize translation credentials: %w", err)
	}
	defer func() {
		if err := s.credentials.Shutdown(); err != nil {
			s.logger.Error("failed to shut down translation credentials", logger.Err(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGHUP)
	defer s.SignalSrc.Stop(sigChan)
	go s.HandleSignals(ctx, sigChan)

	if err := transport.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("transport failed: %w", err)
	}
	return nil
}
