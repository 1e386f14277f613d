package crystal

import (
	"fmt"
	"strings"

	"github.com/nan-1212/abipy/internal/format"
)

// Summary renders a human readable description of the structure, with an
// optional title line.
func (s *Structure) Summary(title string) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "== %s ==\n", title)
	}
	abc := s.Lattice.ABC()
	ang := s.Lattice.Angles()
	fmt.Fprintf(&sb, "Full Formula (%s)\n", s.Formula())
	fmt.Fprintf(&sb, "Reduced Formula: %s\n", s.ReducedFormula())
	fmt.Fprintf(&sb, "abc   : %12.6f %12.6f %12.6f\n", abc[0], abc[1], abc[2])
	fmt.Fprintf(&sb, "angles: %12.6f %12.6f %12.6f\n", ang[0], ang[1], ang[2])
	fmt.Fprintf(&sb, "volume: %12.6f\n", s.Lattice.Volume())
	fmt.Fprintf(&sb, "Sites (%d)\n", s.NumSites())

	tb := format.NewTable(format.ASCII)
	tb.Header("#", "SP", "a", "b", "c")
	for i, site := range s.Sites {
		tb.Row(i, site.SpeciesString(),
			fmt.Sprintf("%.6f", site.Frac[0]),
			fmt.Sprintf("%.6f", site.Frac[1]),
			fmt.Sprintf("%.6f", site.Frac[2]))
	}
	sb.WriteString(tb.String())
	sb.WriteByte('\n')
	return sb.String()
}
