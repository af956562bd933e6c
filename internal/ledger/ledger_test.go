package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	led, err := Open(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	require.False(t, led.IsUploaded("2025-12-11.fit"))
	require.False(t, led.IsDownloaded("2025-12-11.fit"))
}

func TestMarkUploadedIsWriteThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.MarkUploaded("2025-12-11.fit"))

	// The fact must be on disk before anything else happens.
	reopened, err := Open(path)
	require.NoError(t, err)
	require.True(t, reopened.IsUploaded("2025-12-11.fit"))
	require.False(t, reopened.IsUploaded("2025-12-09.fit"))
}

func TestMarkDownloadedIsWriteThrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.MarkDownloaded("2025-12-09.fit"))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.True(t, reopened.IsDownloaded("2025-12-09.fit"))
}

func TestSchemaShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.MarkUploaded("a.fit"))
	require.NoError(t, led.MarkDownloaded("b.fit"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "uploaded")
	require.Contains(t, doc, "downloaded")
	require.Equal(t, "success", doc["uploaded"]["a.fit"]["status"])
	require.NotEmpty(t, doc["uploaded"]["a.fit"]["uploaded_at"])
	require.NotEmpty(t, doc["downloaded"]["b.fit"]["downloaded_at"])
}

func TestRemarkingKeepsEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	led, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, led.MarkUploaded("a.fit"))
	require.NoError(t, led.MarkUploaded("a.fit"))

	require.Len(t, led.Uploaded(), 1)
	require.True(t, led.IsUploaded("a.fit"))
}
