package activity

import "time"

// Sample is one timestamped instant of an activity. Every field besides the
// elapsed offset is optional; a nil pointer means the source did not record
// the value, which is not the same as recording zero.
type Sample struct {
	Offset      float64 // seconds from activity start
	Lat         *float64
	Lon         *float64
	Altitude    *float64 // meters
	HeartRate   *float64 // bpm
	Cadence     *float64 // rpm
	Power       *float64 // watts
	Temperature *float64 // celsius
	Speed       *float64 // m/s
	Distance    *float64 // meters
}

// Activity is the canonical in-memory record populated from either a FIT
// file or a Strava streams JSON file. Fields holds the source's own field
// vocabulary (FIT record field names or Strava stream names).
type Activity struct {
	Name         string
	StartTime    time.Time
	Sport        string
	TotalDist    float64 // meters
	TotalElapsed float64 // seconds
	AvgSpeed     *float64
	AvgHeartRate *float64
	AvgPower     *float64
	AvgCadence   *float64
	Samples      []Sample
	Fields       []string
	FileSize     int64
}

func (a *Activity) HasField(name string) bool {
	for _, f := range a.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// StreamFieldMap maps each Strava stream name to the FIT record field(s) it
// corresponds to. The latlng stream covers a pair of FIT fields. The mapping
// is fixed; the reconciliation analyzer reads it, nothing writes it.
var StreamFieldMap = map[string][]string{
	"time":            {"timestamp"},
	"latlng":          {"position_lat", "position_long"},
	"distance":        {"distance"},
	"altitude":        {"altitude"},
	"velocity_smooth": {"speed"},
	"heartrate":       {"heart_rate"},
	"cadence":         {"cadence"},
	"watts":           {"power"},
	"temp":            {"temperature"},
}

func ptr(v float64) *float64 {
	return &v
}
