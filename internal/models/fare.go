package models

// Fare is the token fare between two stations.
type Fare struct {
	From             string `json:"from"`
	To               string `json:"to"`
	Stops            int    `json:"stops"`
	RequiresTransfer bool   `json:"requiresTransfer"`
	DurationMinutes  int    `json:"durationMinutes"`
	Fare             int    `json:"fare"`
}
