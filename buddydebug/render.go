// Package buddydebug renders an allocator's row occupancy for interactive
// debugging, the Go counterpart of the original crate's examples/debug.rs
// driver.
package buddydebug

import (
	"fmt"
	"strings"

	"github.com/YdrMaster/buddy-allocator/buddy"
)

// Render returns a multi-line, human-readable summary of a.RowStats(),
// smallest layer first, oligarchy last.
func Render(a *buddy.Allocator) string {
	stats := a.RowStats()
	var b strings.Builder
	fmt.Fprintf(&b, "capacity=%d free=%d\n", a.Capacity(), a.Free())
	for i, s := range stats {
		label := fmt.Sprintf("row[%d]", i)
		if i == len(stats)-1 {
			label = "oligarchy"
		}
		fmt.Fprintf(&b, "  %-10s order=%-3d free_blocks=%d\n", label, s.Order, s.Free)
	}
	return b.String()
}
