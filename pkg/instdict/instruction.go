// Package instdict implements the instruction dictionary: the
// Instruction record, the three-pass dictionary builder (C4), and the
// fatal-error taxonomy the rest of rvopc reports failures through.
package instdict

import (
	"fmt"
	"sort"
)

// EncodingWidth is the fixed bit width the parser bakes into every
// instruction. Compressed (16-bit) instructions are 32-bit encodings
// whose top 16 bits are '-'.
const EncodingWidth = 32

// Instruction is one admitted opcode record.
type Instruction struct {
	Name           string          // normalized mnemonic, dots -> underscores
	Encoding       string          // 32-char string over {'0','1','-'}; position 0 = bit 31
	VariableFields []string        // argument names, source order
	Extensions     map[string]struct{} // set of contributing extension base-names
	Match          uint32
	Mask           uint32
}

// ExtensionList returns Extensions as a sorted slice, for deterministic
// output.
func (in Instruction) ExtensionList() []string {
	out := make([]string, 0, len(in.Extensions))
	for e := range in.Extensions {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Decodes reports whether a 32-bit word matches this instruction:
// (w & mask) == match.
func (in Instruction) Decodes(w uint32) bool {
	return w&in.Mask == in.Match
}

// MatchHex renders Match as a lowercase "0x…" string.
func (in Instruction) MatchHex() string { return fmt.Sprintf("0x%x", in.Match) }

// MaskHex renders Mask as a lowercase "0x…" string.
func (in Instruction) MaskHex() string { return fmt.Sprintf("0x%x", in.Mask) }

// NewInstruction builds an Instruction from an already-assembled
// encoding string and variable-field list, deriving Match/Mask from it.
// The Extensions set is left empty; callers add the owning extension.
func NewInstruction(name, encoding string, fields []string) (Instruction, error) {
	match, mask, err := matchMaskFromEncoding(encoding)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Name:           name,
		Encoding:       encoding,
		VariableFields: fields,
		Extensions:     make(map[string]struct{}),
		Match:          match,
		Mask:           mask,
	}, nil
}

// matchMaskFromEncoding derives (match, mask) from a 32-char tri-state
// encoding string: match treats '-' as 0; mask is 1 wherever the
// encoding is '0' or '1'.
func matchMaskFromEncoding(encoding string) (match, mask uint32, err error) {
	if len(encoding) != EncodingWidth {
		return 0, 0, fmt.Errorf("instdict: encoding must be %d chars, got %d", EncodingWidth, len(encoding))
	}
	for i := 0; i < EncodingWidth; i++ {
		bit := uint32(EncodingWidth-1-i) // position 0 = bit 31
		switch encoding[i] {
		case '0':
			mask |= 1 << bit
		case '1':
			match |= 1 << bit
			mask |= 1 << bit
		case '-':
			// don't care
		default:
			return 0, 0, fmt.Errorf("instdict: bad encoding char %q at position %d", encoding[i], i)
		}
	}
	return match, mask, nil
}
