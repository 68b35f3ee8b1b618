package models

import "time"

// NetworkTimeZone is the zone the metro timetable and fares are quoted in.
const NetworkTimeZone = "Asia/Kolkata"

// IST is fixed so the server does not depend on a tzdata install.
var IST = time.FixedZone("IST", 5*60*60+30*60)

type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	TimeZone     string `json:"timeZone"`
}

type CurrentTimeData struct {
	Entry      CurrentTimeModel `json:"entry"`
	References ReferencesModel  `json:"references"`
}

// NewCurrentTimeData reports t as epoch milliseconds and as RFC 3339 in
// network local time.
func NewCurrentTimeData(t time.Time) CurrentTimeData {
	return CurrentTimeData{
		Entry: CurrentTimeModel{
			ReadableTime: t.In(IST).Format(time.RFC3339),
			Time:         t.UnixMilli(),
			TimeZone:     NetworkTimeZone,
		},
		References: NewEmptyReferences(),
	}
}
