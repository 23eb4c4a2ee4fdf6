// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

// cityContext and cityFormat select the localized format of the city part of a location.
const (
	cityContext = "city"
	cityFormat  = "%s"
)

// weatherTemplate is the weather report. Labels and units go through the localizer.
const weatherTemplate = `{{loc "Weather at the selected place"}}: {{.Description}}
{{loc "Air temperature"}}: {{floatFormat .Temp}}°C
{{loc "Feels like"}}: {{floatFormat .FeelsLike}}°C
{{loc "Atmospheric pressure"}}: {{roundFormat .Pressure}} {{loc "mmHg"}}
{{loc "Humidity"}}: {{intFormat .Humidity}}%
{{loc "Wind"}}: {{direction .WindDeg}}, {{floatFormat .WindSpeed}} {{loc "m/s"}}, {{loc "gusts up to"}} {{floatFormat .WindGust}} {{loc "m/s"}}
{{loc "Sunrise"}}: {{clockFormat .Sunrise .Offset}}
{{loc "Sunset"}}: {{clockFormat .Sunset .Offset}}
{{loc "Visibility"}}: {{roundFormat .Visibility}} {{loc "km"}}`

// addressLabel prefixes the address line of a place.
const addressLabel localize.MsgID = "Address"

// windDirections lists the compass points clockwise, starting at north.
var windDirections = [8]localize.MsgID{
	"north",
	"north-east",
	"east",
	"south-east",
	"south",
	"south-west",
	"west",
	"north-west",
}
