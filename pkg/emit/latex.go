package emit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/instdict"
)

// field is one named bit-span of an instruction row: either a variable
// field (looked up through the LUT) or a run of fixed '0'/'1' bits.
type field struct {
	msb, lsb int
	label    string
}

// LatexTable renders a dictionary as a riscv-isa-manual-style LaTeX
// table: one row per instruction, one multicolumn cell per bit-field,
// widths proportional to field size. This mirrors the layout
// make_ext_latex_table builds field-by-field from the encoding string
// and the argument lookup table, collapsed here to emit every
// instruction in the dictionary as a single table rather than the
// upstream tool's curated per-extension sections.
type LatexTable struct {
	LUT     *arglut.LUT
	Caption string
}

func (LatexTable) Name() string { return "latex" }

func (lt LatexTable) Emit(w io.Writer, d instdict.Dictionary) error {
	lut := lt.LUT
	if lut == nil {
		lut = arglut.DefaultLUT()
	}

	fmt.Fprintln(w, `\begin{table}[p]`)
	fmt.Fprintln(w, `\begin{small}`)
	fmt.Fprintln(w, `\begin{center}`)
	fmt.Fprintln(w, `\begin{tabular}{`+strings.Repeat("p{0.002in}", 33)+`l}`)

	for _, name := range d.Sorted() {
		in := d[name]
		fields := fieldsFor(in, lut)
		row := rowLatex(fields, strings.ToUpper(strings.ReplaceAll(name, "_", ".")))
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, `\end{tabular}`)
	fmt.Fprintln(w, `\end{center}`)
	fmt.Fprintln(w, `\end{small}`)
	if lt.Caption != "" {
		fmt.Fprintf(w, "\\caption{%s}\n", lt.Caption)
	}
	fmt.Fprintln(w, `\end{table}`)
	return nil
}

// fieldsFor walks a 32-char encoding and groups it into named spans:
// a variable field wherever the LUT knows an argument occupies that
// range, otherwise a run of contiguous fixed bits.
func fieldsFor(in instdict.Instruction, lut *arglut.LUT) []field {
	claimed := make([]bool, instdict.EncodingWidth)
	var fields []field
	for _, name := range in.VariableFields {
		spec, ok := lut.Get(name)
		if !ok {
			continue
		}
		for b := int(spec.LSB); b <= int(spec.MSB); b++ {
			claimed[b] = true
		}
		fields = append(fields, field{msb: int(spec.MSB), lsb: int(spec.LSB), label: name})
	}

	run := ""
	runMSB := -1
	flush := func(lsb int) {
		if run != "" {
			fields = append(fields, field{msb: runMSB, lsb: lsb, label: run})
			run = ""
		}
	}
	for i := 0; i < instdict.EncodingWidth; i++ {
		bit := instdict.EncodingWidth - 1 - i
		if claimed[bit] {
			flush(bit + 1)
			runMSB = -1
			continue
		}
		c := in.Encoding[i]
		if c == '-' {
			flush(bit + 1)
			runMSB = -1
			continue
		}
		if run == "" {
			runMSB = bit
		}
		run += string(c)
	}
	flush(0)

	sort.Slice(fields, func(i, j int) bool { return fields[i].msb > fields[j].msb })
	return fields
}

func rowLatex(fields []field, instName string) string {
	var b strings.Builder
	for i, f := range fields {
		width := f.msb - f.lsb + 1
		switch {
		case i == len(fields)-1:
			fmt.Fprintf(&b, "\\multicolumn{%d}{|c|}{%s} & %s \\\\\n", width, f.label, instName)
		case i == 0:
			fmt.Fprintf(&b, "\\multicolumn{%d}{|c|}{%s} &\n", width, f.label)
		default:
			fmt.Fprintf(&b, "\\multicolumn{%d}{c|}{%s} &\n", width, f.label)
		}
	}
	b.WriteString("\\cline{2-33}\n")
	return b.String()
}
