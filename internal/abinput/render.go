package abinput

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nan-1212/abipy/internal/ir"
)

// Render produces the ABINIT input file for in: the comment, the variables
// in insertion order, then the structure and the pseudopotentials.
func Render(in *Input) (string, error) {
	var lines []string
	if in.Comment != nil {
		for _, l := range strings.Split(*in.Comment, "\n") {
			lines = append(lines, strings.TrimRight("# "+l, " "))
		}
		lines = append(lines, "")
	}

	vars, err := renderVars(in.args)
	if err != nil {
		return "", err
	}
	lines = append(lines, vars...)

	av, err := in.Structure.ToAbivars()
	if err != nil {
		return "", fmt.Errorf("render structure: %w", err)
	}
	xred := make(ir.Array, len(av.Xred))
	for i, x := range av.Xred {
		xred[i] = ir.FloatVector(x[:]...)
	}
	typat := make([]int64, len(av.Typat))
	for i, t := range av.Typat {
		typat[i] = int64(t)
	}
	rprim := make(ir.Array, 3)
	for i, row := range av.Rprim {
		rprim[i] = ir.FloatVector(row[:]...)
	}
	structVars, err := renderVars([]Arg{
		{"natom", ir.Int(av.Natom)},
		{"ntypat", ir.Int(av.Ntypat)},
		{"typat", ir.IntVector(typat...)},
		{"znucl", ir.FloatVector(av.Znucl...)},
		{"xred", xred},
		{"acell", ir.FloatVector(av.Acell[:]...)},
		{"rprim", rprim},
	})
	if err != nil {
		return "", err
	}
	lines = append(lines, "", "#### STRUCTURE ####")
	lines = append(lines, structVars...)

	lines = append(lines, "", "#### PSEUDOS ####")
	for _, p := range in.Pseudos {
		lines = append(lines, "# "+p.Path(""))
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func renderVars(args []Arg) ([]string, error) {
	width := 0
	for _, a := range args {
		width = max(width, len(a.Key))
	}

	var lines []string
	for _, a := range args {
		rows, err := formatValue(a.Value)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", a.Key, err)
		}
		if len(rows) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-*s %s", width, a.Key, rows[0]))
		pad := strings.Repeat(" ", width+1)
		for _, r := range rows[1:] {
			lines = append(lines, pad+r)
		}
	}
	return lines, nil
}

// formatValue returns one line per row. Nulls and empty arrays render as
// no rows.
func formatValue(v ir.Value) ([]string, error) {
	switch val := v.(type) {
	case ir.Null, nil:
		return nil, nil
	case ir.Array:
		if len(val) == 0 {
			return nil, nil
		}
		if _, nested := val[0].(ir.Array); nested {
			rows := make([]string, len(val))
			for i, row := range val {
				r, ok := row.(ir.Array)
				if !ok {
					return nil, fmt.Errorf("row %d is not an array", i)
				}
				s, err := joinScalars(r)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				rows[i] = s
			}
			return rows, nil
		}
		s, err := joinScalars(val)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	default:
		s, err := FormatScalar(val)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func joinScalars(arr ir.Array) (string, error) {
	parts := make([]string, len(arr))
	for i, e := range arr {
		s, err := FormatScalar(e)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, " "), nil
}

// FormatScalar formats a scalar the way it is written in an ABINIT input.
// Floats always carry a decimal point or an exponent.
func FormatScalar(v ir.Value) (string, error) {
	switch val := v.(type) {
	case ir.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case ir.Float:
		s, err := ir.FormatNumber(float64(val))
		if err != nil {
			return "", err
		}
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s, nil
	case ir.String:
		return string(val), nil
	case ir.Bool:
		if val {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("cannot render %s as an ABINIT value", ir.KindOf(v))
	}
}
