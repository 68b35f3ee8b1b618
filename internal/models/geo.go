package models

import "github.com/paulmach/orb"

// Location is a WGS84 coordinate in the API's lat/lon order.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewLocation(p orb.Point) Location {
	return Location{Lat: p.Lat(), Lon: p.Lon()}
}

func (l Location) Point() orb.Point {
	return orb.Point{l.Lon, l.Lat}
}
