package geometry

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var ErrDegenerateLine = errors.New("line needs at least two vertices")

// Projection is the nearest point on a line to a query point.
type Projection struct {
	Point orb.Point
	// SegmentIndex is the index of the segment's start vertex in the original line.
	SegmentIndex int
	Distance     float64
	// Line is a copy of the input with Point inserted after SegmentIndex.
	Line orb.LineString
}

// ClosestOnSegment returns the point on segment a-b nearest to p. A zero-length
// segment yields a.
func ClosestOnSegment(a, b, p orb.Point) orb.Point {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return a
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lengthSq
	t = max(0, min(1, t))
	return orb.Point{a[0] + t*dx, a[1] + t*dy}
}

// Project finds the nearest point on line to p, measured in planar
// coordinates. Ties go to the earliest segment.
func Project(line orb.LineString, p orb.Point) (Projection, error) {
	if len(line) < 2 {
		return Projection{}, ErrDegenerateLine
	}

	var best Projection
	for i := 0; i < len(line)-1; i++ {
		c := ClosestOnSegment(line[i], line[i+1], p)
		d := planar.Distance(c, p)
		if i == 0 || d < best.Distance {
			best.Point = c
			best.SegmentIndex = i
			best.Distance = d
		}
	}

	augmented := make(orb.LineString, 0, len(line)+1)
	augmented = append(augmented, line[:best.SegmentIndex+1]...)
	augmented = append(augmented, best.Point)
	augmented = append(augmented, line[best.SegmentIndex+1:]...)
	best.Line = augmented

	return best, nil
}

// Segment cuts the part of line between the projections of from and to. The
// second projection runs on the line already augmented by the first, and the
// slice extends one vertex past the later projection so the cut does not fall
// short of the station.
func Segment(line orb.LineString, from, to orb.Point) (orb.LineString, error) {
	start, err := Project(line, from)
	if err != nil {
		return nil, err
	}
	end, err := Project(start.Line, to)
	if err != nil {
		return nil, err
	}

	augmented := end.Line
	lo := min(start.SegmentIndex, end.SegmentIndex)
	hi := max(start.SegmentIndex, end.SegmentIndex) + 1
	stop := min(hi+2, len(augmented))

	out := make(orb.LineString, stop-lo)
	copy(out, augmented[lo:stop])
	return out, nil
}
