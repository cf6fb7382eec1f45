package emit

import (
	"fmt"
	"io"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/instdict"
)

// CHeader renders the dictionary as a C header of MATCH_/MASK_ defines,
// in the spirit of the upstream generator's encoding.out.h.
type CHeader struct{}

func (CHeader) Name() string { return "c" }

func (CHeader) Emit(w io.Writer, d instdict.Dictionary) error {
	if _, err := fmt.Fprintln(w, "/* Generated instruction encodings. Do not edit. */"); err != nil {
		return err
	}
	for _, name := range d.Sorted() {
		in := d[name]
		tag := upperSnake(name)
		if _, err := fmt.Fprintf(w, "#define MATCH_%s %s\n", tag, in.MatchHex()); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "#define MASK_%s %s\n", tag, in.MaskHex()); err != nil {
			return err
		}
	}
	return nil
}

// CSRHeader renders a CSR number table as C defines, grounded on the
// same CSRs the dictionary's argument lookup table exposes.
type CSRHeader struct {
	Entries []arglut.CSREntry
}

func (CSRHeader) Name() string { return "csr-c" }

func (h CSRHeader) Emit(w io.Writer, _ instdict.Dictionary) error {
	if _, err := fmt.Fprintln(w, "/* Generated CSR numbers. Do not edit. */"); err != nil {
		return err
	}
	for _, e := range h.Entries {
		if _, err := fmt.Fprintf(w, "#define CSR_%s 0x%x\n", upperSnake(e.Name), e.Number); err != nil {
			return err
		}
	}
	return nil
}
