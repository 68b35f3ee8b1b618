package planner

// fareTiers maps an inclusive upper bound on stops to a token fare in rupees.
var fareTiers = []struct {
	maxStops int
	fare     int
}{
	{2, 10},
	{4, 20},
	{6, 30},
	{8, 40},
	{10, 50},
	{15, 60},
	{20, 70},
	{25, 80},
}

const maxFare = 90

// FareForStops returns the fare for travelling n stops.
func FareForStops(n int) int {
	for _, tier := range fareTiers {
		if n <= tier.maxStops {
			return tier.fare
		}
	}
	return maxFare
}

// Fare returns the fare between two stations, or 0 when either is unknown.
func (p *Planner) Fare(originCode, destCode string) int {
	stops, err := p.Stops(originCode, destCode)
	if err != nil {
		return 0
	}
	return FareForStops(stops)
}
