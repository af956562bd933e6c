package strava

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Export is the saved-activity document consumed by the convert and compare
// commands: the raw activity detail plus the raw stream set.
type Export struct {
	Activity     json.RawMessage `json:"activity"`
	Streams      json.RawMessage `json:"streams"`
	DownloadedAt string          `json:"downloaded_at"`
}

// FetchExport downloads one activity's detail and streams and composes the
// export document. A stream fetch failure is not fatal; metadata-only
// activities are still worth saving.
func (c *Client) FetchExport(id int64) (*Export, *ActivitySummary, error) {
	detail, summary, err := c.Activity(id)
	if err != nil {
		return nil, nil, err
	}

	streams, err := c.Streams(id)
	if err != nil {
		streams = json.RawMessage("{}")
	}

	export := &Export{
		Activity:     detail,
		Streams:      streams,
		DownloadedAt: time.Now().Format(time.RFC3339),
	}
	return export, summary, nil
}

// ExportFileName derives the canonical saved-file name from the activity's
// date and name, e.g. "2025-12-11_MyWhoosh_-_Sweetspot_#1_activity.json".
func ExportFileName(summary *ActivitySummary) string {
	date := summary.StartDate
	if len(date) > 10 {
		date = date[:10]
	}
	name := strings.ReplaceAll(summary.Name, "/", "-")
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("%s_%s_activity.json", date, name)
}
