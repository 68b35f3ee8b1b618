package spatial

import "github.com/paulmach/orb"

// RingContains reports whether p lies inside ring using an even-odd ray cast.
// Points exactly on an edge may fall either way.
func RingContains(ring orb.Ring, p orb.Point) bool {
	x, y := p[0], p[1]
	inside := false

	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
