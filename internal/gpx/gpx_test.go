package gpx

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whooshsync/internal/activity"
)

func ptr(v float64) *float64 { return &v }

func TestFromActivity(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	act := &activity.Activity{
		Name:      "Morning Ride",
		Sport:     "Ride",
		StartTime: start,
		Samples: []activity.Sample{
			{Offset: 0, Lat: ptr(1.0), Lon: ptr(2.0), HeartRate: ptr(150), Altitude: ptr(12.5)},
			{Offset: 1, Lat: ptr(1.0001), Lon: ptr(2.0001), Cadence: ptr(90), Power: ptr(220)},
		},
	}

	out, err := FromActivity(act)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `xmlns:gpxtpx="http://www.garmin.com/xmlschemas/TrackPointExtension/v1"`)
	assert.Contains(t, doc, `lat="1.0" lon="2.0"`)
	assert.Contains(t, doc, `lat="1.0001" lon="2.0001"`)
	assert.Contains(t, doc, "<time>2025-01-01T00:00:00Z</time>")
	assert.Contains(t, doc, "<time>2025-01-01T00:00:01Z</time>")
	assert.Contains(t, doc, "<ele>12.5</ele>")
	assert.Contains(t, doc, "<gpxtpx:hr>150</gpxtpx:hr>")
	assert.Contains(t, doc, "<gpxtpx:cad>90</gpxtpx:cad>")
	assert.Contains(t, doc, "<gpxtpx:power>220</gpxtpx:power>")
	assert.Contains(t, doc, "<name>Morning Ride</name>")
	assert.Contains(t, doc, "<type>Ride</type>")
}

func TestFromActivitySkipsSamplesWithoutPosition(t *testing.T) {
	act := &activity.Activity{
		StartTime: time.Now(),
		Samples: []activity.Sample{
			{Offset: 0, HeartRate: ptr(140)},
			{Offset: 1, Lat: ptr(51.5), Lon: ptr(-0.12)},
		},
	}

	out, err := FromActivity(act)
	require.NoError(t, err)
	doc := string(out)

	assert.Equal(t, 1, strings.Count(doc, "<trkpt"))
	assert.NotContains(t, doc, "gpxtpx:hr")
}

func TestFromActivityNoGPSData(t *testing.T) {
	act := &activity.Activity{
		StartTime: time.Now(),
		Samples: []activity.Sample{
			{Offset: 0, HeartRate: ptr(140), Power: ptr(200)},
			{Offset: 1, HeartRate: ptr(142), Power: ptr(205)},
		},
	}

	_, err := FromActivity(act)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoGPSData))
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "1.0", formatCoord(1))
	assert.Equal(t, "-0.5", formatCoord(-0.5))
	assert.Equal(t, "51.5074", formatCoord(51.5074))
}
