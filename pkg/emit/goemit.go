package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/riscv/rvopc/pkg/instdict"
)

// GoTable renders the dictionary as a Go source file defining an
// []InstructionInfo table, mirroring the generator's inst.go output.
type GoTable struct {
	Package string
}

func (GoTable) Name() string { return "go" }

func (g GoTable) Emit(w io.Writer, d instdict.Dictionary) error {
	pkg := g.Package
	if pkg == "" {
		pkg = "rvinst"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by rvopc. DO NOT EDIT.\npackage %s\n\n", pkg)
	b.WriteString("type InstructionInfo struct {\n\tName string\n\tMatch uint32\n\tMask uint32\n}\n\n")
	b.WriteString("var Instructions = []InstructionInfo{\n")
	for _, name := range d.Sorted() {
		in := d[name]
		fmt.Fprintf(&b, "\t{Name: %q, Match: %s, Mask: %s},\n", name, in.MatchHex(), in.MaskHex())
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}
