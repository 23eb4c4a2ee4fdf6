// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package router connects the bot's chat transport to the service. Text messages start a
// location search, pressing a result button describes the selected point.
package router

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/spreak"
	tele "gopkg.in/telebot.v3"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/selection"
	"github.com/wneessen/placefinder-bot/internal/service"
)

const (
	// MaxLabelWidth is the display width a button label is trimmed to.
	MaxLabelWidth = 64
	labelTail     = "..."

	pollTimeout = time.Second * 10
)

// Backend answers the requests of the router.
type Backend interface {
	Search(ctx context.Context, query string) ([]selection.Choice, error)
	Describe(ctx context.Context, point geocode.Point) (*service.Report, error)
}

type Router struct {
	bot     *tele.Bot
	backend Backend
	t       *spreak.Localizer
	logger  *logger.Logger
	ctx     context.Context
}

// Settings configures the bot connection. Client and URL are optional.
type Settings struct {
	Token string
	URL   string
	// Client is used for all requests to the bot API
	Client *http.Client
	// Offline skips the credential check at startup
	Offline bool
}

func New(settings Settings, backend Backend, t *spreak.Localizer, log *logger.Logger) (*Router, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if t == nil {
		return nil, errors.New("localizer is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	router := &Router{
		backend: backend,
		t:       t,
		logger:  log,
		ctx:     context.Background(),
	}
	bot, err := tele.NewBot(tele.Settings{
		Token:   settings.Token,
		URL:     settings.URL,
		Client:  settings.Client,
		Offline: settings.Offline,
		Poller:  &tele.LongPoller{Timeout: pollTimeout},
		OnError: router.onError,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	router.bot = bot

	bot.Handle("/start", router.onStart)
	bot.Handle(tele.OnText, router.onText)
	bot.Handle(tele.OnCallback, router.onCallback)

	return router, nil
}

// Run polls for updates until the context is canceled.
func (r *Router) Run(ctx context.Context) error {
	r.ctx = ctx
	stop := context.AfterFunc(ctx, r.bot.Stop)
	defer stop()

	r.logger.Info("polling for bot updates", slog.String("bot", r.bot.Me.Username))
	r.bot.Start()
	return ctx.Err()
}

func (r *Router) onStart(c tele.Context) error {
	return c.Send(r.t.Get("Hi! Let's find some interesting location!"))
}

func (r *Router) onText(c tele.Context) error {
	choices, err := r.backend.Search(r.ctx, c.Text())
	if err != nil {
		r.logger.Error("failed to search locations", logger.Err(err), slog.String("query", c.Text()))
		return c.Send(r.t.Get("Something went wrong, please try again later"))
	}
	if len(choices) == 0 {
		return c.Send(r.t.Get("Strange... I found nothing :("))
	}

	markup := &tele.ReplyMarkup{}
	for _, choice := range choices {
		markup.InlineKeyboard = append(markup.InlineKeyboard, []tele.InlineButton{{
			Text: buttonLabel(choice),
			Data: choice.Payload(),
		}})
	}
	return c.Send(r.t.Get("Look what I found:"), markup)
}

func (r *Router) onCallback(c tele.Context) error {
	data := c.Callback().Data
	if !selection.IsPayload(data) {
		r.logger.Debug("ignoring unknown callback", slog.String("data", data))
		return c.Respond()
	}
	if err := c.Respond(); err != nil {
		r.logger.Warn("failed to answer callback", logger.Err(err))
	}

	report, err := r.backend.Describe(r.ctx, selection.Decode(data))
	if err != nil {
		r.logger.Error("failed to describe selected point", logger.Err(err), slog.String("data", data))
		return c.Send(r.t.Get("Something went wrong, please try again later"))
	}

	if err = c.Send(report.Weather); err != nil {
		return err
	}
	if len(report.Places) == 0 {
		return c.Send(r.t.Get("No interesting places found nearby"))
	}
	for _, place := range report.Places {
		if place.Text != "" {
			if err = c.Send(place.Text, tele.ModeHTML); err != nil {
				return err
			}
		}
		if place.Image == nil {
			continue
		}
		photo := &tele.Photo{File: tele.FromURL(place.Image.URL), Caption: html.EscapeString(place.Image.Caption)}
		if err = c.Send(photo, tele.ModeHTML); err != nil {
			r.logger.Warn("failed to send place image", logger.Err(err), slog.String("url", place.Image.URL))
		}
	}
	return nil
}

func (r *Router) onError(err error, c tele.Context) {
	if c == nil {
		r.logger.Error("bot error", logger.Err(err))
		return
	}
	r.logger.Error("failed to handle bot update", logger.Err(err), slog.Int("update_id", c.Update().ID))
}

// buttonLabel trims the choice text to the button width. Choices without any text are labeled
// with their coordinates.
func buttonLabel(choice selection.Choice) string {
	label := choice.Text
	if label == "" {
		label = strconv.FormatFloat(choice.Point.Lat, 'f', -1, 64) + ", " +
			strconv.FormatFloat(choice.Point.Lng, 'f', -1, 64)
	}
	return runewidth.Truncate(label, MaxLabelWidth, labelTail)
}
