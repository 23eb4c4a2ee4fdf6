// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package selection encodes the point of a search result into the payload of a selectable
// button and decodes it again when the button is pressed.
package selection

import (
	"encoding/json"
	"strings"

	"github.com/wneessen/placefinder-bot/internal/geocode"
)

// Prefix marks payloads that carry a point.
const Prefix = "point+@"

// Choice is a single selectable search result.
type Choice struct {
	Text  string
	Point geocode.Point
}

// Payload returns the encoded point of the choice.
func (c Choice) Payload() string {
	return Encode(c.Point)
}

// Encode serializes the point into a payload. The coordinates use the shortest representation
// that decodes to the same values.
func Encode(point geocode.Point) string {
	data, err := json.Marshal(point)
	if err != nil {
		// Only NaN and infinite coordinates fail to encode
		return Prefix + `{"lat":0,"lng":0}`
	}
	return Prefix + string(data)
}

// IsPayload reports whether data carries a point.
func IsPayload(data string) bool {
	return strings.HasPrefix(data, Prefix)
}

// Decode parses a payload created by Encode. Missing fields as well as malformed or unprefixed
// payloads yield the zero point.
func Decode(data string) geocode.Point {
	raw, ok := strings.CutPrefix(data, Prefix)
	if !ok {
		return geocode.Point{}
	}
	var point geocode.Point
	if err := json.Unmarshal([]byte(raw), &point); err != nil {
		return geocode.Point{}
	}
	return point
}
