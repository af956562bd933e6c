package reconcile

import (
	"math"
	"sort"

	"whooshsync/internal/activity"
)

// Comparison thresholds. These are judgment calls, not hard rules; the
// report carries the raw booleans so callers can apply their own cut.
const (
	PointTolerance    = 0.05 // relative point-count difference treated as equal
	CoverageThreshold = 0.80 // matched-field share required for the coverage point
	DistanceTolerance = 0.01 // relative distance difference treated as equal
	DurationTolerance = 60.0 // seconds of duration difference treated as equal
)

// MaxScore is the number of independent checks contributing to the score.
const MaxScore = 4

// Report is the outcome of comparing a FIT activity against the Strava
// stream copy of the same activity.
type Report struct {
	Matched    []string `json:"matched"`
	FITOnly    []string `json:"fit_only"`
	StreamOnly []string `json:"stream_only"`

	FITPoints       int  `json:"fit_points"`
	StreamPoints    int  `json:"stream_points"`
	PointDelta      int  `json:"point_delta"`
	PointsNearEqual bool `json:"points_near_equal"`

	Coverage   float64 `json:"coverage"`
	CoverageOK bool    `json:"coverage_ok"`

	DistanceDelta float64 `json:"distance_delta"`
	DistanceOK    bool    `json:"distance_ok"`
	DurationDelta float64 `json:"duration_delta"`
	DurationOK    bool    `json:"duration_ok"`

	FITSize    int64 `json:"fit_size"`
	StreamSize int64 `json:"stream_size"`
	SizeOK     bool  `json:"size_ok"`

	Score int `json:"score"`
}

// nonDataFields are FIT record fields excluded from the FIT-only remainder:
// the raw timestamp backs the time stream, and unknown-field markers carry
// no comparable data.
var nonDataFields = map[string]bool{
	"timestamp": true,
	"unknown":   true,
}

// Compare runs field-coverage, point-count and statistic comparison between
// the FIT-sourced and stream-sourced views of one activity.
func Compare(fit, stream *activity.Activity) *Report {
	r := &Report{
		FITPoints:    len(fit.Samples),
		StreamPoints: len(stream.Samples),
		FITSize:      fit.FileSize,
		StreamSize:   stream.FileSize,
	}

	covered := map[string]bool{}
	total := 0
	for streamName, fitFields := range activity.StreamFieldMap {
		inStream := stream.HasField(streamName)
		inFIT := true
		for _, f := range fitFields {
			if !fit.HasField(f) {
				inFIT = false
				break
			}
		}
		if !inStream && !inFIT {
			continue
		}
		total++
		if inStream && inFIT {
			r.Matched = append(r.Matched, streamName)
			for _, f := range fitFields {
				covered[f] = true
			}
		} else if inStream {
			r.StreamOnly = append(r.StreamOnly, streamName)
		}
	}
	for _, f := range fit.Fields {
		if !covered[f] && !nonDataFields[f] {
			r.FITOnly = append(r.FITOnly, f)
		}
	}
	for _, f := range stream.Fields {
		if _, mapped := activity.StreamFieldMap[f]; !mapped {
			r.StreamOnly = append(r.StreamOnly, f)
		}
	}
	sort.Strings(r.Matched)
	sort.Strings(r.FITOnly)
	sort.Strings(r.StreamOnly)

	if total > 0 {
		r.Coverage = float64(len(r.Matched)) / float64(total)
	}
	r.CoverageOK = r.Coverage > CoverageThreshold

	r.PointDelta = abs(r.FITPoints - r.StreamPoints)
	r.PointsNearEqual = float64(r.PointDelta)/math.Max(float64(r.FITPoints), 1) < PointTolerance

	r.DistanceDelta = relDiff(fit.TotalDist, stream.TotalDist)
	r.DistanceOK = r.DistanceDelta < DistanceTolerance
	r.DurationDelta = math.Abs(fit.TotalElapsed - stream.TotalElapsed)
	r.DurationOK = r.DurationDelta < DurationTolerance

	r.SizeOK = r.FITSize > 0 && r.StreamSize > 0 && r.FITSize < r.StreamSize

	for _, ok := range []bool{r.PointsNearEqual, r.CoverageOK, r.DistanceOK, r.SizeOK} {
		if ok {
			r.Score++
		}
	}
	return r
}

func relDiff(a, b float64) float64 {
	return math.Abs(a-b) / math.Max(a, 1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
