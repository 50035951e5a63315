package pocket

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport writes the plain-text mapping report for one complex. Chains
// and residues are already in sorted order inside MappingStats, so two runs
// over the same inputs produce byte-identical reports.
func WriteReport(
	w io.Writer, name string, refSize, modelSize int,
	stats MappingStats) error {

	var b strings.Builder
	fmt.Fprintf(&b, "Pocket Mapping Report for %s\n", name)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))
	fmt.Fprintf(&b, "Reference pocket: %d residues\n", refSize)
	fmt.Fprintf(&b, "AF3 pocket: %d residues\n", modelSize)
	fmt.Fprintf(&b, "Successfully mapped: %d residues\n", stats.Mapped)
	fmt.Fprintf(&b, "Could not map: %d residues\n\n", len(stats.Unmapped))
	if len(stats.Unmapped) > 0 {
		fmt.Fprintf(&b, "Unmapped residues:\n")
		for _, label := range stats.Unmapped {
			fmt.Fprintf(&b, "  - %s\n", label)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
