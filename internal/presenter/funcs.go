// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"math"
	"strconv"
	"text/template"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const ellipsis = "..."

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"loc":         p.loc,
		"direction":   p.direction,
		"floatFormat": floatFormat,
		"roundFormat": roundFormat,
		"intFormat":   intFormat,
		"clockFormat": clockFormat,
	}
}

func (p *Presenter) loc(val string) string {
	return p.localizer.Get(val)
}

// direction returns the localized compass point of the wind coming from deg.
func (p *Presenter) direction(deg float64) string {
	return p.localizer.Get(windDirections[directionIndex(deg)])
}

// floatFormat returns the shortest decimal representation of val.
func floatFormat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

// roundFormat rounds val to two decimals before formatting, so that unit conversions do not
// leak floating point noise.
func roundFormat(val float64) string {
	return floatFormat(math.Round(val*100) / 100)
}

// intFormat rounds val to the nearest integer.
func intFormat(val float64) string {
	return strconv.FormatInt(int64(math.Round(val)), 10)
}

// clockFormat renders a unix timestamp as HH:MM in the zone given by its UTC offset in seconds.
func clockFormat(timestamp, offset int64) string {
	zone := time.FixedZone("", int(offset))
	return time.Unix(timestamp, 0).In(zone).Format("15:04")
}

// directionIndex buckets wind degrees into one of eight compass points, 0 being north.
func directionIndex(deg float64) int {
	idx := int(math.Floor((deg+22.5)/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return idx
}

// truncate returns the first limit runes of val.
func truncate(val string, limit int) string {
	if utf8.RuneCountInString(val) <= limit {
		return val
	}
	return string([]rune(val)[:limit])
}

// capitalize upper-cases the first letter of val and lower-cases the rest.
func capitalize(val string) string {
	if val == "" {
		return val
	}
	_, size := utf8.DecodeRuneInString(val)
	return cases.Upper(language.Und).String(val[:size]) + cases.Lower(language.Und).String(val[size:])
}
