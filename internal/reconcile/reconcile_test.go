package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whooshsync/internal/activity"
)

func fitActivity(fields []string, points int) *activity.Activity {
	return &activity.Activity{
		Fields:  fields,
		Samples: make([]activity.Sample, points),
	}
}

func streamActivity(fields []string, points int) *activity.Activity {
	return &activity.Activity{
		Fields:  fields,
		Samples: make([]activity.Sample, points),
	}
}

func TestCoverageBoundary(t *testing.T) {
	fit := fitActivity([]string{"heart_rate", "power", "altitude"}, 100)
	stream := streamActivity([]string{"heartrate", "watts"}, 100)

	r := Compare(fit, stream)
	assert.InDelta(t, 2.0/3.0, r.Coverage, 1e-9)
	assert.False(t, r.CoverageOK)
	assert.ElementsMatch(t, []string{"heartrate", "watts"}, r.Matched)
	assert.Equal(t, []string{"altitude"}, r.FITOnly)

	stream = streamActivity([]string{"heartrate", "watts", "altitude"}, 100)
	r = Compare(fit, stream)
	assert.InDelta(t, 1.0, r.Coverage, 1e-9)
	assert.True(t, r.CoverageOK)
	assert.Empty(t, r.FITOnly)
}

func TestPointCountTolerance(t *testing.T) {
	fit := fitActivity([]string{"heart_rate"}, 1000)

	r := Compare(fit, streamActivity([]string{"heartrate"}, 960))
	assert.Equal(t, 40, r.PointDelta)
	assert.True(t, r.PointsNearEqual, "4%% diff is within tolerance")

	r = Compare(fit, streamActivity([]string{"heartrate"}, 900))
	assert.Equal(t, 100, r.PointDelta)
	assert.False(t, r.PointsNearEqual, "10%% diff is outside tolerance")
}

func TestPositionPairRequiresBothFITFields(t *testing.T) {
	stream := streamActivity([]string{"latlng"}, 10)

	r := Compare(fitActivity([]string{"position_lat"}, 10), stream)
	assert.NotContains(t, r.Matched, "latlng")
	assert.Contains(t, r.StreamOnly, "latlng")

	r = Compare(fitActivity([]string{"position_lat", "position_long"}, 10), stream)
	assert.Contains(t, r.Matched, "latlng")
}

func TestNonDataFieldsExcludedFromFITOnly(t *testing.T) {
	fit := fitActivity([]string{"heart_rate", "timestamp", "unknown", "speed"}, 10)
	stream := streamActivity([]string{"heartrate"}, 10)

	r := Compare(fit, stream)
	assert.Equal(t, []string{"speed"}, r.FITOnly)
}

func TestUnmappedStreamsAreStreamOnly(t *testing.T) {
	fit := fitActivity([]string{"heart_rate"}, 10)
	stream := streamActivity([]string{"heartrate", "moving", "grade_smooth"}, 10)

	r := Compare(fit, stream)
	assert.ElementsMatch(t, []string{"moving", "grade_smooth"}, r.StreamOnly)
}

func TestStatisticDeltas(t *testing.T) {
	fit := fitActivity([]string{"heart_rate"}, 100)
	fit.TotalDist = 10000
	fit.TotalElapsed = 1800

	stream := streamActivity([]string{"heartrate"}, 100)
	stream.TotalDist = 10050 // 0.5% off
	stream.TotalElapsed = 1830

	r := Compare(fit, stream)
	assert.True(t, r.DistanceOK)
	assert.True(t, r.DurationOK)

	stream.TotalDist = 10500 // 5% off
	stream.TotalElapsed = 1920
	r = Compare(fit, stream)
	assert.False(t, r.DistanceOK)
	assert.False(t, r.DurationOK)
}

func TestScoreAggregation(t *testing.T) {
	fit := fitActivity([]string{"heart_rate", "power"}, 1000)
	fit.TotalDist = 10000
	fit.FileSize = 50_000

	stream := streamActivity([]string{"heartrate", "watts"}, 990)
	stream.TotalDist = 10010
	stream.FileSize = 250_000

	r := Compare(fit, stream)
	require.True(t, r.PointsNearEqual)
	require.True(t, r.CoverageOK)
	require.True(t, r.DistanceOK)
	require.True(t, r.SizeOK)
	assert.Equal(t, MaxScore, r.Score)

	// Losing the size check alone drops exactly one point.
	stream.FileSize = 10_000
	r = Compare(fit, stream)
	assert.False(t, r.SizeOK)
	assert.Equal(t, MaxScore-1, r.Score)
}

func TestScoreIgnoresDuration(t *testing.T) {
	fit := fitActivity([]string{"heart_rate"}, 100)
	fit.TotalDist = 10000
	fit.TotalElapsed = 1800
	fit.FileSize = 10

	stream := streamActivity([]string{"heartrate"}, 100)
	stream.TotalDist = 10000
	stream.TotalElapsed = 4000 // way off
	stream.FileSize = 100

	r := Compare(fit, stream)
	assert.False(t, r.DurationOK)
	assert.Equal(t, MaxScore, r.Score, "duration is reported but not scored")
}
