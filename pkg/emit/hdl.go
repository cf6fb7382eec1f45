package emit

import (
	"fmt"
	"io"

	"github.com/riscv/rvopc/pkg/instdict"
)

// Rust renders match/mask pairs as Rust u32 constants.
type Rust struct{}

func (Rust) Name() string { return "rust" }

func (Rust) Emit(w io.Writer, d instdict.Dictionary) error {
	if _, err := fmt.Fprintln(w, "// Generated instruction encodings. Do not edit."); err != nil {
		return err
	}
	for _, name := range d.Sorted() {
		in := d[name]
		tag := upperSnake(name)
		if _, err := fmt.Fprintf(w, "pub const MATCH_%s: u32 = %s;\n", tag, in.MatchHex()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "pub const MASK_%s: u32 = %s;\n", tag, in.MaskHex()); err != nil {
			return err
		}
	}
	return nil
}

// SystemVerilog renders match/mask pairs as localparam constants, one
// package per call, matching the naming convention of the upstream
// generator's riscv_instr_pkg output.
type SystemVerilog struct {
	Package string
}

func (SystemVerilog) Name() string { return "sverilog" }

func (s SystemVerilog) Emit(w io.Writer, d instdict.Dictionary) error {
	pkg := s.Package
	if pkg == "" {
		pkg = "riscv_instr_pkg"
	}
	if _, err := fmt.Fprintf(w, "package %s;\n", pkg); err != nil {
		return err
	}
	for _, name := range d.Sorted() {
		in := d[name]
		tag := upperSnake(name)
		if _, err := fmt.Fprintf(w, "  localparam logic [31:0] MATCH_%s = %s;\n", tag, in.MatchHex()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  localparam logic [31:0] MASK_%s = %s;\n", tag, in.MaskHex()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "endpackage")
	return err
}

// Chisel renders match/mask pairs as a Scala object of BitPats, with an
// optional SpinalHDL dialect (SpinalHDL's M"..." masked-literal syntax
// instead of Chisel's BitPat), matching how the upstream generator's
// single make_chisel(..., spinal_hdl=bool) function branches on output
// dialect rather than duplicating the whole emitter.
type Chisel struct {
	SpinalHDL bool
}

func (c Chisel) Name() string {
	if c.SpinalHDL {
		return "spinalhdl"
	}
	return "chisel"
}

func (c Chisel) Emit(w io.Writer, d instdict.Dictionary) error {
	objectName := "RVInstructions"
	if c.SpinalHDL {
		objectName = "RVInstructionsSpinal"
	}
	if _, err := fmt.Fprintf(w, "object %s {\n", objectName); err != nil {
		return err
	}
	for _, name := range d.Sorted() {
		in := d[name]
		tag := upperSnake(name)
		pattern := bitPattern(in)
		var line string
		if c.SpinalHDL {
			line = fmt.Sprintf("  def %s = M\"%s\"\n", tag, pattern)
		} else {
			line = fmt.Sprintf("  def %s = BitPat(\"b%s\")\n", tag, pattern)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// bitPattern renders an instruction's 32-bit match/mask pair as a
// BitPat-style string: '0'/'1' where masked, '?' where don't-care.
func bitPattern(in instdict.Instruction) string {
	buf := make([]byte, instdict.EncodingWidth)
	for i := 0; i < instdict.EncodingWidth; i++ {
		bit := uint32(instdict.EncodingWidth - 1 - i)
		if in.Mask&(1<<bit) == 0 {
			buf[i] = '?'
			continue
		}
		if in.Match&(1<<bit) != 0 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
