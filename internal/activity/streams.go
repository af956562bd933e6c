package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// StreamsFile mirrors the JSON document the Strava fetch command writes:
// activity metadata plus the raw stream set keyed by stream type.
type StreamsFile struct {
	Activity struct {
		Name         string  `json:"name"`
		Type         string  `json:"type"`
		StartDate    string  `json:"start_date"`
		Distance     float64 `json:"distance"`
		MovingTime   float64 `json:"moving_time"`
		AverageSpeed float64 `json:"average_speed"`
	} `json:"activity"`
	Streams map[string]Stream `json:"streams"`
}

type Stream struct {
	Data json.RawMessage `json:"data"`
}

// FromStreams builds the canonical model from a saved Strava streams JSON
// file. The canonical point count is the length of the time stream; any
// shorter parallel array contributes absent values for trailing samples.
func FromStreams(path string) (*Activity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read streams file: %w", err)
	}

	var sf StreamsFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse streams file: %w", err)
	}
	return fromStreamsFile(&sf, int64(len(raw)))
}

func fromStreamsFile(sf *StreamsFile, size int64) (*Activity, error) {
	act := &Activity{
		Name:         sf.Activity.Name,
		Sport:        sf.Activity.Type,
		TotalDist:    sf.Activity.Distance,
		TotalElapsed: sf.Activity.MovingTime,
		FileSize:     size,
	}
	if sf.Activity.AverageSpeed > 0 {
		act.AvgSpeed = ptr(sf.Activity.AverageSpeed)
	}
	if sf.Activity.StartDate != "" {
		start, err := time.Parse(time.RFC3339, sf.Activity.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parse start date %q: %w", sf.Activity.StartDate, err)
		}
		act.StartTime = start
	}

	timeData, err := floatStream(sf.Streams, "time")
	if err != nil {
		return nil, err
	}
	if timeData == nil {
		return nil, fmt.Errorf("streams file has no time stream")
	}

	for name := range sf.Streams {
		act.Fields = append(act.Fields, name)
	}
	sort.Strings(act.Fields)

	latlng, err := pairStream(sf.Streams, "latlng")
	if err != nil {
		return nil, err
	}
	scalars := map[string][]float64{}
	for _, name := range []string{"altitude", "heartrate", "cadence", "watts", "temp", "velocity_smooth", "distance"} {
		data, err := floatStream(sf.Streams, name)
		if err != nil {
			return nil, err
		}
		scalars[name] = data
	}

	for i, offset := range timeData {
		s := Sample{Offset: offset}
		if i < len(latlng) {
			s.Lat = ptr(latlng[i][0])
			s.Lon = ptr(latlng[i][1])
		}
		s.Altitude = at(scalars["altitude"], i)
		s.HeartRate = at(scalars["heartrate"], i)
		s.Cadence = at(scalars["cadence"], i)
		s.Power = at(scalars["watts"], i)
		s.Temperature = at(scalars["temp"], i)
		s.Speed = at(scalars["velocity_smooth"], i)
		s.Distance = at(scalars["distance"], i)
		act.Samples = append(act.Samples, s)
	}
	return act, nil
}

func floatStream(streams map[string]Stream, name string) ([]float64, error) {
	st, ok := streams[name]
	if !ok || len(st.Data) == 0 {
		return nil, nil
	}
	var data []float64
	if err := json.Unmarshal(st.Data, &data); err != nil {
		return nil, fmt.Errorf("parse %s stream: %w", name, err)
	}
	return data, nil
}

func pairStream(streams map[string]Stream, name string) ([][2]float64, error) {
	st, ok := streams[name]
	if !ok || len(st.Data) == 0 {
		return nil, nil
	}
	var data [][2]float64
	if err := json.Unmarshal(st.Data, &data); err != nil {
		return nil, fmt.Errorf("parse %s stream: %w", name, err)
	}
	return data, nil
}

func at(data []float64, i int) *float64 {
	if i < len(data) {
		return ptr(data[i])
	}
	return nil
}
