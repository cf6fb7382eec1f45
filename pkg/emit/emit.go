// Package emit renders a built instruction dictionary into the various
// downstream artifact formats (C header, Go encoder table, a LaTeX
// instruction-listing table, and constants-only stubs for Rust,
// SystemVerilog, Chisel and SpinalHDL).
package emit

import (
	"io"
	"strings"

	"github.com/riscv/rvopc/pkg/instdict"
)

// Emitter renders a dictionary to w. Every concrete emitter in this
// package satisfies it, so the CLI can dispatch a selected subset
// uniformly instead of special-casing each format.
type Emitter interface {
	Name() string
	Emit(w io.Writer, d instdict.Dictionary) error
}

// safeName mirrors the Python generator's per-language identifier
// sanitizing: dots become underscores (already true post-normalize),
// and this additionally guards against identifiers starting with a
// digit by prefixing an underscore.
func safeName(name string) string {
	if name == "" {
		return name
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}

func upperSnake(name string) string {
	return strings.ToUpper(safeName(name))
}
