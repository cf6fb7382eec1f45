// Package segexpand implements the segmented-VLS expander (C5): a pure
// function from instdict.Dictionary to instdict.Dictionary that
// expands every instruction carrying an "nf" field into its eight
// concrete nf=0..7 variants.
package segexpand

import (
	"strings"

	"github.com/riscv/rvopc/pkg/instdict"
)

// Expand returns a new dictionary with every "nf"-bearing instruction
// replaced by its 8 segmented variants. Instructions without "nf" pass
// through unchanged. Running Expand on an already-expanded dictionary
// is a no-op, since no admitted instruction retains "nf" in
// VariableFields after one pass.
func Expand(dict instdict.Dictionary) (instdict.Dictionary, error) {
	out := make(instdict.Dictionary, len(dict))
	for name, in := range dict {
		if !hasNf(in.VariableFields) {
			out[name] = in
			continue
		}
		variants, err := expandOne(in)
		if err != nil {
			return nil, err
		}
		for _, v := range variants {
			out[v.Name] = v
		}
	}
	return out, nil
}

func hasNf(fields []string) bool {
	for _, f := range fields {
		if f == "nf" {
			return true
		}
	}
	return false
}

// expandOne expands a single nf-bearing instruction into 8 variants:
// strip "nf" from variable_fields, force mask bits 31..29, and for nf
// in 0..7 compute match/encoding/name.
func expandOne(in instdict.Instruction) ([]instdict.Instruction, error) {
	if !hasNf(in.VariableFields) {
		return nil, instdict.NewFatal(instdict.KindCannotExpandNf, in.Name, "", "instruction has no nf field")
	}

	fields := make([]string, 0, len(in.VariableFields)-1)
	for _, f := range in.VariableFields {
		if f != "nf" {
			fields = append(fields, f)
		}
	}

	mask := in.Mask | (0b111 << 29)
	tail := in.Encoding[3:] // characters from position 3 onward (bit 28 downward)

	variants := make([]instdict.Instruction, 0, 8)
	for nf := uint32(0); nf < 8; nf++ {
		match := in.Match | (nf << 29)
		var nfBits [3]byte
		for i := 0; i < 3; i++ {
			if (nf>>(2-i))&1 == 1 {
				nfBits[i] = '1'
			} else {
				nfBits[i] = '0'
			}
		}
		encoding := string(nfBits[:]) + tail

		name := in.Name
		if nf != 0 {
			var err error
			name, err = insertSegSuffix(in.Name, nf)
			if err != nil {
				return nil, err
			}
		}

		exts := make(map[string]struct{}, len(in.Extensions))
		for e := range in.Extensions {
			exts[e] = struct{}{}
		}

		variants = append(variants, instdict.Instruction{
			Name:           name,
			Encoding:       encoding,
			VariableFields: append([]string(nil), fields...),
			Extensions:     exts,
			Match:          match,
			Mask:           mask,
		})
	}
	return variants, nil
}

// insertSegSuffix inserts "seg{nf+1}" immediately before the first
// occurrence of 'e' in name. A name lacking 'e' is rejected rather
// than silently appended-to, since the Python generator leaves that
// case undefined and a silent fallback could collide with an unrelated
// mnemonic.
func insertSegSuffix(name string, nf uint32) (string, error) {
	idx := strings.IndexByte(name, 'e')
	if idx < 0 {
		return "", instdict.NewFatal(instdict.KindCannotExpandNf, name, "",
			"cannot insert seg%d suffix: mnemonic has no 'e'", nf+1)
	}
	suffix := "seg" + itoa(int(nf+1))
	return name[:idx] + suffix + name[idx:], nil
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
