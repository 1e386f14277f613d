package hist

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nan-1212/abipy/internal/periodic"
)

// WriteXDATCAR writes the trajectory in the VASP XDATCAR format, using the
// lattice of the first step. With groupByType the atoms are reordered so
// that atoms of the same element are contiguous, in order of first
// appearance.
func (h *File) WriteXDATCAR(w io.Writer, groupByType bool) error {
	if err := h.checkMixing(); err != nil {
		return err
	}
	initial, err := h.InitialStructure()
	if err != nil {
		return err
	}

	var order []string
	bySymbol := make(map[string][]int)
	symbols := make([]string, h.Natom)
	for i, t := range h.Typat {
		el, err := periodic.FromZnucl(h.Znucl[t-1])
		if err != nil {
			return fmt.Errorf("xdatcar: %w", err)
		}
		if _, seen := bySymbol[el.Symbol]; !seen {
			order = append(order, el.Symbol)
		}
		bySymbol[el.Symbol] = append(bySymbol[el.Symbol], i)
		symbols[i] = el.Symbol
	}

	ids := make([]int, 0, h.Natom)
	if groupByType {
		for _, sym := range order {
			ids = append(ids, bySymbol[sym]...)
		}
	} else {
		for i := range h.Natom {
			ids = append(ids, i)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, " %s\n", initial.Formula())
	bw.WriteString("1.0\n")
	for _, vec := range initial.Lattice.Matrix() {
		fmt.Fprintf(bw, "%.12f %.12f %.12f\n", vec[0], vec[1], vec[2])
	}
	if groupByType {
		counts := make([]string, len(order))
		for i, sym := range order {
			counts[i] = fmt.Sprint(len(bySymbol[sym]))
		}
		bw.WriteString(strings.Join(order, " ") + "\n")
		bw.WriteString(strings.Join(counts, " ") + "\n")
	} else {
		bw.WriteString(strings.Join(symbols, " ") + "\n")
		bw.WriteString(strings.Repeat("1 ", len(symbols)) + "\n")
	}

	for t, xred := range h.Xred {
		fmt.Fprintf(bw, "Direct configuration= %d\n", t+1)
		for _, i := range ids {
			fmt.Fprintf(bw, "%.12f %.12f %.12f\n", xred[i][0], xred[i][1], xred[i][2])
		}
	}
	return bw.Flush()
}
