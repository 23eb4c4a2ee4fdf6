// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package places

import (
	"context"

	"golang.org/x/text/language"
)

// Provider is implemented by each points of interest API backend.
type Provider interface {
	Name() string
	Places(ctx context.Context, lat, lon float64, radius, limit int, lang language.Tag) ([]Place, error)
}

// Place is the detailed description of a single point of interest.
type Place struct {
	XID               string            `json:"xid"`
	Name              string            `json:"name"`
	Address           Address           `json:"address"`
	WikipediaExtracts WikipediaExtracts `json:"wikipedia_extracts"`
	Info              Info              `json:"info"`
	Image             string            `json:"image"`
}

type Address struct {
	Country     string `json:"country"`
	State       string `json:"state"`
	County      string `json:"county"`
	Town        string `json:"town"`
	City        string `json:"city"`
	Road        string `json:"road"`
	House       string `json:"house"`
	HouseNumber string `json:"house_number"`
}

type WikipediaExtracts struct {
	Text string `json:"text"`
}

type Info struct {
	Descr string `json:"descr"`
}

// Parts returns the address components in display order. Empty components are included.
func (a Address) Parts() []string {
	return []string{a.Country, a.State, a.County, a.Town, a.City, a.Road, a.House, a.HouseNumber}
}

// Description returns the Wikipedia extract, falling back to the provider's own description.
func (p Place) Description() string {
	if p.WikipediaExtracts.Text != "" {
		return p.WikipediaExtracts.Text
	}
	return p.Info.Descr
}
