package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whooshsync/internal/reconcile"
)

func sampleReport() *reconcile.Report {
	return &reconcile.Report{
		Matched:         []string{"heartrate", "watts"},
		FITOnly:         []string{"temperature"},
		FITPoints:       1000,
		StreamPoints:    960,
		PointsNearEqual: true,
		Coverage:        0.85,
		CoverageOK:      true,
		Score:           3,
	}
}

func TestSaveAndGet(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.Save("2025-12-11.fit", "2025-12-11_Ride_activity.json", sampleReport())
	require.NoError(t, err)
	assert.Len(t, rec.ID, 16)
	assert.Equal(t, 3, rec.Score)

	got, rpt, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "2025-12-11.fit", got.FITFile)
	assert.Equal(t, []string{"heartrate", "watts"}, rpt.Matched)
	assert.Equal(t, 960, rpt.StreamPoints)
	assert.True(t, rpt.PointsNearEqual)
}

func TestGetUnknownID(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.Get("deadbeefdeadbeef")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 3; i++ {
		_, err := store.Save("a.fit", "a.json", sampleReport())
		require.NoError(t, err)
	}

	records, err := store.List(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = store.List(0)
	require.NoError(t, err)
	assert.Len(t, records, 3, "non-positive limit falls back to the default")
}

func TestReopenKeepsReports(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	rec, err := store.Save("a.fit", "a.json", sampleReport())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, _, err := reopened.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}
