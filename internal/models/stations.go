package models

import "github.com/Vonter/bmrcl-station-app/internal/network"

// StationLine is a station's position on one line.
type StationLine struct {
	LineID string `json:"lineId"`
	Index  int    `json:"index"`
	// Platforms are the platforms toward the line's first and last station.
	Platforms [2]int `json:"platforms"`
}

type Station struct {
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Location    Location      `json:"location"`
	Lines       []StationLine `json:"lines"`
	Floors      []string      `json:"floors"`
	Interchange bool          `json:"interchange"`
}

func NewStation(s *network.Station) Station {
	lines := make([]StationLine, 0, len(s.Memberships))
	for _, m := range s.Memberships {
		lines = append(lines, StationLine{LineID: string(m.Line), Index: m.Index, Platforms: m.Platforms})
	}
	floors := s.Floors
	if floors == nil {
		floors = []string{}
	}
	return Station{
		Code:        s.Code,
		Name:        s.Name,
		Location:    NewLocation(s.Coordinates),
		Lines:       lines,
		Floors:      floors,
		Interchange: s.IsInterchange(),
	}
}

// Line is a line with its station codes in order.
type Line struct {
	LineReference
	StationCodes []string `json:"stationCodes"`
}

func NewLine(l *network.Line) Line {
	codes := make([]string, len(l.Stations))
	for i, s := range l.Stations {
		codes[i] = s.Code
	}
	return Line{LineReference: NewLineReference(l), StationCodes: codes}
}

// StationsData is the network overview: every line and every station.
type StationsData struct {
	Lines    []Line    `json:"lines"`
	Stations []Station `json:"stations"`
}

func NewStationsData(c *network.Catalog) StationsData {
	data := StationsData{Lines: []Line{}, Stations: []Station{}}
	for _, l := range c.Lines() {
		data.Lines = append(data.Lines, NewLine(l))
	}
	for _, s := range c.Stations() {
		data.Stations = append(data.Stations, NewStation(s))
	}
	return data
}

// StationLines returns the lines serving a station.
func StationLines(c *network.Catalog, s *network.Station) []*network.Line {
	var lines []*network.Line
	for _, m := range s.Memberships {
		if l, ok := c.Line(m.Line); ok {
			lines = append(lines, l)
		}
	}
	return lines
}
