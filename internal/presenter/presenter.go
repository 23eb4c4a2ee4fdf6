// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter turns raw provider records into the texts shown to the user. Every
// rendering function accepts records with any field missing.
package presenter

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/gather"
	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/places"
	"github.com/wneessen/placefinder-bot/internal/translate"
	"github.com/wneessen/placefinder-bot/internal/weather"
)

const (
	NameLimit        = 50
	DescriptionLimit = 300
	AddressLimit     = 50

	fallbackPressure   = 1000.0
	fallbackVisibility = 10000.0
	hpaToMmHg          = 0.75
)

// Place is a rendered point of interest. Text is formatted for HTML parse mode.
type Place struct {
	Text  string
	Image *Image
}

type Image struct {
	URL     string
	Caption string
}

// WeatherView holds the values of the weather report after fallbacks and unit conversion.
type WeatherView struct {
	Description string
	Temp        float64
	FeelsLike   float64
	// Pressure in mmHg
	Pressure  float64
	Humidity  float64
	WindDeg   float64
	WindSpeed float64
	WindGust  float64
	Sunrise   int64
	Sunset    int64
	// Offset is the UTC offset of the location in seconds
	Offset int64
	// Visibility in km
	Visibility float64
}

type Presenter struct {
	lang      language.Tag
	localizer *spreak.Localizer
	logger    *logger.Logger
	weather   *template.Template
}

// New returns a Presenter rendering through the given localizer. Tags of locations are
// translated into the localizer's language.
func New(localizer *spreak.Localizer, log *logger.Logger) *Presenter {
	p := &Presenter{
		lang:      localizer.Language(),
		localizer: localizer,
		logger:    log,
	}
	p.weather = template.Must(template.New("weather").Funcs(p.templateFuncMap()).Parse(weatherTemplate))
	return p
}

// Locations renders one line per location. The result is index-aligned with locs. If the
// translation of a location fails, that location is rendered without its translated tags.
func (p *Presenter) Locations(ctx context.Context, locs []geocode.Location, translator translate.Translator) []string {
	lines, errs := gather.Settle(ctx, locs, func(ctx context.Context, _ int, loc geocode.Location) (string, error) {
		return p.location(ctx, loc, translator)
	})
	for i, err := range errs {
		if err != nil {
			p.logger.Warn("failed to translate location tags", logger.Err(err), slog.Int("index", i),
				slog.String("name", locs[i].Name))
		}
	}
	return lines
}

// location always returns the rendered line, with an error if the tags could not be translated.
func (p *Presenter) location(ctx context.Context, loc geocode.Location, translator translate.Translator) (string, error) {
	var parts []string
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	if loc.City != "" {
		parts = append(parts, fmt.Sprintf(p.localizer.PGet(cityContext, cityFormat), loc.City))
	}
	if loc.Name != "" {
		parts = append(parts, `"`+loc.Name+`"`)
	}

	var tags []string
	for _, tag := range []string{loc.OSMKey, loc.OSMValue} {
		if tag != "" {
			tags = append(tags, capitalize(tag))
		}
	}
	if len(tags) == 0 || translator == nil {
		return strings.Join(parts, ", "), nil
	}

	translated, err := translator.Translate(ctx, tags, p.lang)
	if err != nil {
		return strings.Join(parts, ", "), err
	}
	for _, text := range translated {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ", "), nil
}

// Weather renders the weather report. Missing values are replaced by fixed fallbacks.
func (p *Presenter) Weather(data *weather.Data) string {
	buf := strings.Builder{}
	if err := p.weather.Execute(&buf, p.BuildWeatherView(data)); err != nil {
		p.logger.Error("failed to render weather report", logger.Err(err))
		return ""
	}
	return buf.String()
}

// BuildWeatherView applies the fallbacks for missing values and converts the units of the report.
func (p *Presenter) BuildWeatherView(data *weather.Data) WeatherView {
	if data == nil {
		data = new(weather.Data)
	}
	sunriseAt, sunsetAt := p.sunTimes(data)
	return WeatherView{
		Description: data.Description(),
		Temp:        data.Main.Temp.Or(0),
		FeelsLike:   data.Main.FeelsLike.Or(0),
		Pressure:    data.Main.Pressure.Or(fallbackPressure) * hpaToMmHg,
		Humidity:    data.Main.Humidity.Or(0),
		WindDeg:     data.Wind.Deg.Or(0),
		WindSpeed:   data.Wind.Speed.Or(0),
		WindGust:    data.Wind.Gust.Or(0),
		Sunrise:     sunriseAt,
		Sunset:      sunsetAt,
		Offset:      data.Timezone.Or(0),
		Visibility:  data.Visibility.Or(fallbackVisibility) / 1000,
	}
}

// sunTimes returns the reported sunrise and sunset. Missing values are calculated from the
// coordinates for the day of the measurement if possible and are 0 otherwise.
func (p *Presenter) sunTimes(data *weather.Data) (int64, int64) {
	sunriseAt, sunsetAt := data.Sys.Sunrise.Or(0), data.Sys.Sunset.Or(0)
	if data.Sys.Sunrise.IsSet() && data.Sys.Sunset.IsSet() || !data.Coord.HasCoordinates() {
		return sunriseAt, sunsetAt
	}

	day := time.Unix(data.DT.Or(0), 0).UTC()
	rise, set := sunrise.SunriseSunset(data.Coord.Lat.Value(), data.Coord.Lon.Value(), day.Year(), day.Month(),
		day.Day())
	if !data.Sys.Sunrise.IsSet() && !rise.IsZero() {
		sunriseAt = rise.Unix()
	}
	if !data.Sys.Sunset.IsSet() && !set.IsZero() {
		sunsetAt = set.Unix()
	}
	return sunriseAt, sunsetAt
}

// Places renders every place independently.
func (p *Presenter) Places(list []places.Place) []Place {
	result := make([]Place, 0, len(list))
	for _, place := range list {
		result = append(result, p.place(place))
	}
	return result
}

func (p *Presenter) place(place places.Place) Place {
	var lines []string
	if place.Name != "" {
		lines = append(lines, "<b>"+html.EscapeString(truncate(place.Name, NameLimit)+ellipsis)+"</b>")
	}
	if description := place.Description(); description != "" {
		lines = append(lines, html.EscapeString(truncate(description, DescriptionLimit)+ellipsis))
	}

	var parts []string
	for _, part := range place.Address.Parts() {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if address := truncate(strings.Join(parts, ", "), AddressLimit); address != "" {
		lines = append(lines, "<b>"+html.EscapeString(p.localizer.Get(addressLabel)+": "+address)+"</b>")
	}

	rendered := Place{Text: strings.Join(lines, "\n")}
	if place.Image != "" {
		rendered.Image = &Image{URL: place.Image, Caption: place.Name}
	}
	return rendered
}
