package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// LineID identifies a metro line by its colour.
type LineID string

const (
	LineGreen  LineID = "green"
	LinePurple LineID = "purple"
)

// PlatformFloor is the floor name that marks a station's platform level.
const PlatformFloor = "Platform"

var ErrUnknownStation = errors.New("unknown station")

var defaultPlatforms = [2]int{1, 2}

// Membership places a station on a line. Index is the station's position in the
// line's ordered sequence. Platforms holds the platform used when travelling
// toward a lower index and toward a higher index, in that order.
type Membership struct {
	Line      LineID
	Index     int
	Platforms [2]int
}

// PlatformToward returns the boarding platform for travel from this membership
// to the station at index dest on the same line.
func (m Membership) PlatformToward(dest int) int {
	if dest < m.Index {
		return m.Platforms[0]
	}
	return m.Platforms[1]
}

type Station struct {
	Code        string
	Name        string
	Coordinates orb.Point
	Memberships []Membership
	Floors      []string
}

// On returns the station's membership on the given line.
func (s *Station) On(line LineID) (Membership, bool) {
	for _, m := range s.Memberships {
		if m.Line == line {
			return m, true
		}
	}
	return Membership{}, false
}

func (s *Station) IsInterchange() bool {
	return len(s.Memberships) > 1
}

// PlatformFirst reports whether the platform is the first floor listed for the station.
func (s *Station) PlatformFirst() bool {
	return len(s.Floors) > 0 && s.Floors[0] == PlatformFloor
}

type Line struct {
	ID               LineID
	Name             string
	Color            string
	BorderColor      string
	TransferElevator string
	Stations         []*Station
}

// First and Last return the terminal stations of the line.
func (l *Line) First() *Station { return l.Stations[0] }
func (l *Line) Last() *Station  { return l.Stations[len(l.Stations)-1] }

// TerminalToward returns the terminal station reached when travelling from index
// from to index to.
func (l *Line) TerminalToward(from, to int) *Station {
	if to > from {
		return l.Last()
	}
	return l.First()
}

// Between returns the stations from index a to index b inclusive, in travel order.
func (l *Line) Between(a, b int) []*Station {
	if a <= b {
		out := make([]*Station, b-a+1)
		copy(out, l.Stations[a:b+1])
		return out
	}
	out := make([]*Station, 0, a-b+1)
	for i := a; i >= b; i-- {
		out = append(out, l.Stations[i])
	}
	return out
}

// Catalog is the immutable station and line reference data. It is built once
// and shared by pointer; nothing mutates it after New returns.
type Catalog struct {
	lines       []*Line
	byID        map[LineID]*Line
	stations    map[string]*Station
	order       []*Station
	interchange *Station
}

// New builds a catalog from a dataset and validates the network topology.
func New(ds Dataset) (*Catalog, error) {
	if len(ds.Lines) == 0 {
		return nil, errors.New("network dataset has no lines")
	}

	c := &Catalog{
		byID:     make(map[LineID]*Line, len(ds.Lines)),
		stations: make(map[string]*Station),
	}

	for _, ls := range ds.Lines {
		if ls.ID == "" {
			return nil, errors.New("line without id")
		}
		if _, dup := c.byID[ls.ID]; dup {
			return nil, fmt.Errorf("duplicate line %q", ls.ID)
		}
		if len(ls.Stations) < 2 {
			return nil, fmt.Errorf("line %q needs at least two stations", ls.ID)
		}
		switch ls.TransferElevator {
		case "", "up", "down":
		default:
			return nil, fmt.Errorf("line %q: invalid transfer_elevator %q", ls.ID, ls.TransferElevator)
		}

		line := &Line{
			ID:               ls.ID,
			Name:             ls.Name,
			Color:            ls.Color,
			BorderColor:      ls.BorderColor,
			TransferElevator: ls.TransferElevator,
		}
		if line.Name == "" {
			line.Name = string(ls.ID)
		}

		for i, ss := range ls.Stations {
			code := NormalizeCode(ss.Code)
			if code == "" {
				return nil, fmt.Errorf("line %q: station %d has no code", ls.ID, i)
			}
			platforms := defaultPlatforms
			switch len(ss.Platforms) {
			case 0:
			case 2:
				platforms = [2]int{ss.Platforms[0], ss.Platforms[1]}
			default:
				return nil, fmt.Errorf("line %q station %s: platforms must list two numbers", ls.ID, code)
			}

			station, seen := c.stations[code]
			if !seen {
				station = &Station{
					Code:        code,
					Name:        ss.Name,
					Coordinates: orb.Point{ss.Coordinates[0], ss.Coordinates[1]},
					Floors:      ds.Floors[code],
				}
				c.stations[code] = station
				c.order = append(c.order, station)
			} else if _, again := station.On(ls.ID); again {
				return nil, fmt.Errorf("station %s listed twice on line %q", code, ls.ID)
			}

			station.Memberships = append(station.Memberships, Membership{
				Line:      ls.ID,
				Index:     i,
				Platforms: platforms,
			})
			line.Stations = append(line.Stations, station)
		}

		c.lines = append(c.lines, line)
		c.byID[line.ID] = line
	}

	if err := c.findInterchange(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) findInterchange() error {
	var hubs []*Station
	for _, s := range c.order {
		if s.IsInterchange() {
			hubs = append(hubs, s)
		}
	}

	if len(c.lines) != 2 {
		return fmt.Errorf("network must have exactly two lines, found %d", len(c.lines))
	}
	if len(hubs) != 1 {
		return fmt.Errorf("network must have exactly one interchange station, found %d", len(hubs))
	}
	if len(hubs[0].Memberships) != len(c.lines) {
		return fmt.Errorf("interchange %s does not serve every line", hubs[0].Code)
	}
	c.interchange = hubs[0]
	return nil
}

// NormalizeCode upper-cases and trims a station code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Station looks a station up by code, case-insensitively.
func (c *Catalog) Station(code string) (*Station, bool) {
	s, ok := c.stations[NormalizeCode(code)]
	return s, ok
}

func (c *Catalog) Line(id LineID) (*Line, bool) {
	l, ok := c.byID[id]
	return l, ok
}

// Lines returns the lines in dataset order.
func (c *Catalog) Lines() []*Line {
	return c.lines
}

// Stations returns every distinct station in the order first listed.
func (c *Catalog) Stations() []*Station {
	return c.order
}

// Interchange returns the station shared by both lines.
func (c *Catalog) Interchange() *Station {
	return c.interchange
}

// SharedLine returns the first of a's memberships whose line also serves b.
func SharedLine(a, b *Station) (Membership, Membership, bool) {
	for _, ma := range a.Memberships {
		if mb, ok := b.On(ma.Line); ok {
			return ma, mb, true
		}
	}
	return Membership{}, Membership{}, false
}
