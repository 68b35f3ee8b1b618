package models

// NearestStation is the station whose catchment contains a coordinate.
type NearestStation struct {
	Station  Station  `json:"station"`
	EntryRef string   `json:"entryRef"`
	Entrance Location `json:"entrance"`
	// EntranceKnown is false when the entrance is the station's own position.
	EntranceKnown bool `json:"entranceKnown"`
	// Direction and DistanceMeters describe the straight line from the
	// queried point to the entrance.
	Direction      string `json:"direction"`
	DistanceMeters int    `json:"distanceMeters"`
}
