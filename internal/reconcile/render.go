package reconcile

import (
	"fmt"
	"strings"
)

// Render produces the human-readable comparison report printed by the CLI.
func (r *Report) Render(fitFile, streamFile string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FIT vs Strava stream comparison\n")
	fmt.Fprintf(&b, "  FIT:    %s (%d bytes, %d points)\n", fitFile, r.FITSize, r.FITPoints)
	fmt.Fprintf(&b, "  Stream: %s (%d bytes, %d points)\n", streamFile, r.StreamSize, r.StreamPoints)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Field coverage: %.0f%% (%d matched)\n", r.Coverage*100, len(r.Matched))
	writeList(&b, "  matched", r.Matched)
	writeList(&b, "  fit only", r.FITOnly)
	writeList(&b, "  stream only", r.StreamOnly)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Point count: delta %d (%s)\n", r.PointDelta, okWord(r.PointsNearEqual))
	fmt.Fprintf(&b, "Distance:    delta %.2f%% (%s)\n", r.DistanceDelta*100, okWord(r.DistanceOK))
	fmt.Fprintf(&b, "Duration:    delta %.0fs (%s)\n", r.DurationDelta, okWord(r.DurationOK))
	fmt.Fprintf(&b, "File size:   %s\n", okWord(r.SizeOK))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Preservation score: %d/%d\n", r.Score, MaxScore)
	switch {
	case r.Score == MaxScore:
		b.WriteString("The stream copy preserves the FIT data.\n")
	case float64(r.Score) >= 0.7*float64(MaxScore):
		b.WriteString("Most of the FIT data is preserved.\n")
	default:
		b.WriteString("The stream copy may have lost data.\n")
	}
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: (none)\n", label)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, ", "))
}

func okWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "differs"
}
