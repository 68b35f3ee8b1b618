package journey

// Details is a door-to-door journey: a walk to the origin station, one or two
// metro legs, and a walk from the destination station. Times are in minutes,
// walking distances in metres.
type Details struct {
	RequestID          string `json:"requestId"`
	OriginStation      string `json:"originStation"`
	DestinationStation string `json:"destinationStation"`
	RequiresTransfer   bool   `json:"requiresTransfer"`

	FirstLegExit              string `json:"firstLegExit"`
	FirstLegWalkTime          int    `json:"firstLegWalkTime"`
	FirstLegWalkDistance      int    `json:"firstLegWalkDistance"`
	FirstLegPlatform          int    `json:"firstLegPlatform"`
	FirstLegWalkRoute         string `json:"firstLegWalkRoute"`
	FirstLegMetroTime         int    `json:"firstLegMetroTime"`
	FirstLegMetroStops        int    `json:"firstLegMetroStops"`
	FirstLegDirectionName     string `json:"firstLegDirectionName"`
	FirstLegElevatorDirection string `json:"firstLegElevatorDirection"`

	SecondLegExit              string `json:"secondLegExit"`
	SecondLegWalkTime          int    `json:"secondLegWalkTime"`
	SecondLegWalkDistance      int    `json:"secondLegWalkDistance"`
	SecondLegPlatform          int    `json:"secondLegPlatform"`
	SecondLegWalkRoute         string `json:"secondLegWalkRoute"`
	SecondLegMetroTime         int    `json:"secondLegMetroTime"`
	SecondLegMetroStops        int    `json:"secondLegMetroStops"`
	SecondLegDirectionName     string `json:"secondLegDirectionName"`
	SecondLegElevatorDirection string `json:"secondLegElevatorDirection"`

	TransferToColor             *string `json:"transferToColor,omitempty"`
	TransferToElevatorDirection *string `json:"transferToElevatorDirection,omitempty"`

	TotalTime       int     `json:"totalTime"`
	TotalDistanceKm float64 `json:"totalDistanceKm"`
	Price           int     `json:"price"`
}
