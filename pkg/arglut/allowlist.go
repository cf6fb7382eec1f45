package arglut

import "strings"

// PairSet is a symmetric set of unordered string pairs: Allows(a, b)
// holds whenever (a, b) or (b, a) was added. The Python generator keeps
// a dict-of-sets keyed arbitrarily; this reproduces the same symmetric
// membership test behind an explicit type instead of the raw shape.
type PairSet struct {
	m map[string]map[string]struct{}
}

// NewPairSet builds a PairSet from literal (a, b) pairs.
func NewPairSet(pairs ...[2]string) *PairSet {
	ps := &PairSet{m: make(map[string]map[string]struct{})}
	for _, p := range pairs {
		ps.add(p[0], p[1])
	}
	return ps
}

func (ps *PairSet) add(a, b string) {
	if ps.m[a] == nil {
		ps.m[a] = make(map[string]struct{})
	}
	ps.m[a][b] = struct{}{}
}

// Allows reports whether (a, b) or (b, a) is in the set.
func (ps *PairSet) Allows(a, b string) bool {
	if s, ok := ps.m[a]; ok {
		if _, ok := s[b]; ok {
			return true
		}
	}
	if s, ok := ps.m[b]; ok {
		if _, ok := s[a]; ok {
			return true
		}
	}
	return false
}

// OverlappingExtensions is the static allow-list of extension-filename
// pairs that are permitted to encode overlapping opcodes.
var OverlappingExtensions = NewPairSet(
	[2]string{"rv_zcmt", "rv_c_d"},
	[2]string{"rv_zcmp", "rv_c_d"},
	[2]string{"rv_c", "rv_zcmop"},
)

// OverlappingInstructions is the static allow-list of mnemonic pairs
// that are permitted to encode overlapping opcodes.
var OverlappingInstructions = NewPairSet(
	[2]string{"c_addi", "c_nop"},
	[2]string{"c_lui", "c_addi16sp"},
	[2]string{"c_mv", "c_jr"},
	[2]string{"c_jalr", "c_ebreak"},
	[2]string{"c_add", "c_ebreak"},
	[2]string{"c_add", "c_jalr"},
)

// BaseISA returns the filename prefix up to the first '_', e.g.
// "rv32_i" -> "rv32", "rv_zicsr" -> "rv".
func BaseISA(extensionFile string) string {
	base := extensionFile
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.IndexByte(base, '_'); i >= 0 {
		return base[:i]
	}
	return base
}

// SameBaseISA reports whether two base-ISA prefixes are equivalent:
// equal, or one is "rv" and the other is "rv32"/"rv64". "rv128"
// does not widen-match "rv", matching the source's literal wording.
func SameBaseISA(a, b string) bool {
	if a == b {
		return true
	}
	isWide := func(s string) bool { return s == "rv32" || s == "rv64" }
	if a == "rv" && isWide(b) {
		return true
	}
	if b == "rv" && isWide(a) {
		return true
	}
	return false
}
