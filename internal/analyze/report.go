package analyze

import (
	"fmt"
	"strings"
)

// Summary renders the headline counts. Dark squares report as black and
// light as white, matching over-the-board naming.
func Summary(res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Black squares detected: %d\n", res.Counts.Dark)
	fmt.Fprintf(&b, "White squares detected: %d\n", res.Counts.Light)
	if res.OutputPath != "" {
		fmt.Fprintf(&b, "Annotated image saved to: %s\n", res.OutputPath)
	}
	return b.String()
}

// Detail renders the full per-square measurement table.
func Detail(res *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Policy: %s  threshold: %.1f\n", res.Policy, res.Threshold)
	fmt.Fprintf(&b, "Cell means: avg %.1f, std dev %.1f, range [%.1f, %.1f]\n\n",
		res.Stats.Mean, res.Stats.StdDev, res.Stats.Min, res.Stats.Max)

	fmt.Fprintf(&b, "%-8s %8s  %s\n", "Square", "Mean", "Class")
	for _, c := range res.Cells {
		fmt.Fprintf(&b, "%-8s %8.1f  %s\n", c.Square(), c.Mean, c.Class)
	}
	return b.String()
}
