package activity

import (
	"fmt"
	"os"
	"sort"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/basetype"
	"github.com/muktihari/fit/profile/filedef"
	"github.com/muktihari/fit/profile/mesgdef"
)

// FromFIT decodes a FIT activity file into the canonical model. Per-sample
// values come from record messages, aggregates from the session message.
func FromFIT(path string) (*Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fit file: %w", err)
	}
	defer f.Close()

	fit, err := decoder.New(f).Decode()
	if err != nil {
		return nil, fmt.Errorf("decode fit file: %w", err)
	}

	src := filedef.NewActivity(fit.Messages...)
	if len(src.Records) == 0 {
		return nil, fmt.Errorf("fit file has no record messages")
	}

	act := &Activity{}
	if info, err := os.Stat(path); err == nil {
		act.FileSize = info.Size()
	}

	start := src.Records[0].Timestamp
	fields := map[string]bool{}

	for _, rec := range src.Records {
		s := Sample{}
		if !rec.Timestamp.IsZero() {
			fields["timestamp"] = true
			s.Offset = rec.Timestamp.Sub(start).Seconds()
		}
		if rec.PositionLat != basetype.Sint32Invalid && rec.PositionLong != basetype.Sint32Invalid {
			fields["position_lat"] = true
			fields["position_long"] = true
			s.Lat = ptr(rec.PositionLatDegrees())
			s.Lon = ptr(rec.PositionLongDegrees())
		}
		if rec.Altitude != basetype.Uint16Invalid {
			fields["altitude"] = true
			s.Altitude = ptr(rec.AltitudeScaled())
		}
		if rec.HeartRate != basetype.Uint8Invalid {
			fields["heart_rate"] = true
			s.HeartRate = ptr(float64(rec.HeartRate))
		}
		if rec.Cadence != basetype.Uint8Invalid {
			fields["cadence"] = true
			s.Cadence = ptr(float64(rec.Cadence))
		}
		if rec.Power != basetype.Uint16Invalid {
			fields["power"] = true
			s.Power = ptr(float64(rec.Power))
		}
		if rec.Temperature != basetype.Sint8Invalid {
			fields["temperature"] = true
			s.Temperature = ptr(float64(rec.Temperature))
		}
		if rec.Speed != basetype.Uint16Invalid {
			fields["speed"] = true
			s.Speed = ptr(rec.SpeedScaled())
		}
		if rec.Distance != basetype.Uint32Invalid {
			fields["distance"] = true
			s.Distance = ptr(rec.DistanceScaled())
		}
		act.Samples = append(act.Samples, s)
	}

	act.StartTime = start
	act.Fields = sortedKeys(fields)

	if len(src.Sessions) > 0 {
		applySession(act, src.Sessions[0])
	}
	return act, nil
}

func applySession(act *Activity, ses *mesgdef.Session) {
	act.Sport = ses.Sport.String()
	if !ses.StartTime.IsZero() {
		act.StartTime = ses.StartTime
	}
	if ses.TotalDistance != basetype.Uint32Invalid {
		act.TotalDist = ses.TotalDistanceScaled()
	}
	if ses.TotalElapsedTime != basetype.Uint32Invalid {
		act.TotalElapsed = ses.TotalElapsedTimeScaled()
	}
	if ses.AvgSpeed != basetype.Uint16Invalid {
		act.AvgSpeed = ptr(ses.AvgSpeedScaled())
	}
	if ses.AvgHeartRate != basetype.Uint8Invalid {
		act.AvgHeartRate = ptr(float64(ses.AvgHeartRate))
	}
	if ses.AvgPower != basetype.Uint16Invalid {
		act.AvgPower = ptr(float64(ses.AvgPower))
	}
	if ses.AvgCadence != basetype.Uint8Invalid {
		act.AvgCadence = ptr(float64(ses.AvgCadence))
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
