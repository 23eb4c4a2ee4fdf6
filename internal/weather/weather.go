// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/vartype"
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	Weather(ctx context.Context, lat, lon float64, lang language.Tag) (*Data, error)
}

// Data holds the current weather for a point as reported by the provider. Numeric fields that
// the provider did not send stay unset.
type Data struct {
	Conditions []Condition        `json:"weather"`
	Main       Main               `json:"main"`
	Wind       Wind               `json:"wind"`
	Visibility vartype.VarFloat64 `json:"visibility"`
	Sys        Sys                `json:"sys"`
	Timezone   vartype.VarInt64   `json:"timezone"`
	Coord      Coord              `json:"coord"`
	DT         vartype.VarInt64   `json:"dt"`
	Name       vartype.VarString  `json:"name"`
}

type Condition struct {
	Description string `json:"description"`
}

type Main struct {
	Temp      vartype.VarFloat64 `json:"temp"`
	FeelsLike vartype.VarFloat64 `json:"feels_like"`
	Pressure  vartype.VarFloat64 `json:"pressure"`
	Humidity  vartype.VarFloat64 `json:"humidity"`
}

type Wind struct {
	Speed vartype.VarFloat64 `json:"speed"`
	Deg   vartype.VarFloat64 `json:"deg"`
	Gust  vartype.VarFloat64 `json:"gust"`
}

type Sys struct {
	Sunrise vartype.VarInt64 `json:"sunrise"`
	Sunset  vartype.VarInt64 `json:"sunset"`
}

type Coord struct {
	Lat vartype.VarFloat64 `json:"lat"`
	Lon vartype.VarFloat64 `json:"lon"`
}

// Description returns the description of the first reported condition or an empty string.
func (d *Data) Description() string {
	if d == nil || len(d.Conditions) == 0 {
		return ""
	}
	return d.Conditions[0].Description
}

// HasCoordinates reports whether the provider sent both coordinates.
func (c Coord) HasCoordinates() bool {
	return c.Lat.IsSet() && c.Lon.IsSet()
}
