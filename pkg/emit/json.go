package emit

import (
	"io"

	"github.com/riscv/rvopc/pkg/instdict"
)

// JSON renders the canonical dictionary JSON document via instdict's
// own marshaler, so every emitter in this package is reachable through
// the same Emitter interface regardless of how trivial its format is.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) Emit(w io.Writer, d instdict.Dictionary) error {
	return instdict.WriteJSON(w, d)
}
