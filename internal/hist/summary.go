package hist

import (
	"fmt"
	"strings"

	"github.com/nan-1212/abipy/internal/crystal"
)

// Summary renders the initial and final structures, the relaxation
// changes and the final stress.
func (h *File) Summary(title string) (string, error) {
	initial, err := h.InitialStructure()
	if err != nil {
		return "", err
	}
	final, err := h.FinalStructure()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "== %s ==\n", title)
	}
	if h.Path != "" {
		fmt.Fprintf(&sb, "Path: %s\n\n", h.Path)
	}
	sb.WriteString(initial.Summary("Initial Structure"))
	fmt.Fprintf(&sb, "\nNumber of relaxation steps performed: %d\n", h.NumSteps())
	sb.WriteString(final.Summary("Final structure"))

	an := crystal.NewRelaxationAnalyzer(initial, final)
	d := an.LatticeParameterChanges()
	fmt.Fprintf(&sb, "\nVolume change in percentage: %.2f%%\n", an.VolumeChange()*100)
	fmt.Fprintf(&sb, "Percentage lattice parameter changes:\n\ta: %.2f%%, b: %.2f%%, c: %.2f%%\n",
		d["a"]*100, d["b"]*100, d["c"]*100)

	tensors := h.StressTensors()
	sb.WriteString("\nStress tensor (Cartesian coordinates in Ha/Bohr**3):\n")
	for _, row := range tensors[len(tensors)-1] {
		fmt.Fprintf(&sb, "%14.6e %14.6e %14.6e\n", row[0], row[1], row[2])
	}
	fmt.Fprintf(&sb, "Pressure: %.3f [GPa]\n", h.FinalPressure())
	return sb.String(), nil
}
