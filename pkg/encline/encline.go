// Package encline implements the line parser (C2): it turns one
// non-blank, non-comment source line into an instdict.Instruction,
// enforcing every per-line encoding invariant.
package encline

import (
	"strconv"
	"strings"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/instdict"
)

// fixedBit records one bit position assigned a literal value by a
// MSB..LSB=VAL or POS=VAL token, for overlap detection.
type fixedBit struct {
	pos int
	val byte // '0' or '1'
}

// Parse parses one line ("<mnemonic> <token>*") against lut, which may
// be mutated in place when the line installs a NEW=OLD alias. file is
// the owning extension filename, used only for error messages.
func Parse(line, file string, lut *arglut.LUT) (instdict.Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return instdict.Instruction{}, badRange("", file, "empty line")
	}
	name := strings.ReplaceAll(fields[0], ".", "_")
	tokens := fields[1:]

	encoding := make([]byte, instdict.EncodingWidth)
	for i := range encoding {
		encoding[i] = '-'
	}

	var fixedBits []fixedBit
	var argTokens []string

	// Ranges first, then single-bit, then the remainder is arguments —
	// classification is per-token since the three token shapes are
	// syntactically disjoint and token order within a line carries no
	// meaning.
	for _, tok := range tokens {
		if m := arglut.RangeToken.FindStringSubmatch(tok); m != nil {
			bits, err := applyRange(name, file, m[1], m[2], m[3])
			if err != nil {
				return instdict.Instruction{}, err
			}
			for _, b := range bits {
				if encoding[b.pos] != '-' {
					return instdict.Instruction{}, bitAlreadyAssigned(name, file)
				}
				encoding[b.pos] = b.val
			}
			fixedBits = append(fixedBits, bits...)
			continue
		}
		argTokens = append(argTokens, tok)
	}

	var remaining []string
	for _, tok := range argTokens {
		if m := arglut.SingleBitToken.FindStringSubmatch(tok); m != nil {
			b, err := applySingleBit(name, file, m[1], m[2])
			if err != nil {
				return instdict.Instruction{}, err
			}
			if encoding[b.pos] != '-' {
				return instdict.Instruction{}, bitAlreadyAssigned(name, file)
			}
			encoding[b.pos] = b.val
			fixedBits = append(fixedBits, b)
			continue
		}
		remaining = append(remaining, tok)
	}

	// Remaining tokens are argument references, possibly NEW=OLD alias
	// installs.
	argEncoding := make([]byte, instdict.EncodingWidth)
	copy(argEncoding, encoding)
	var fields2 []string

	for _, tok := range remaining {
		argName := tok
		if strings.Contains(tok, "=") {
			parts := strings.SplitN(tok, "=", 2)
			newName, oldName := parts[0], parts[1]
			if _, ok := lut.Get(oldName); !ok {
				return instdict.Instruction{}, unknownArg(name, file, oldName)
			}
			spec, _ := lut.Get(oldName)
			lut.Install(newName, spec)
			argName = newName
		}

		spec, ok := lut.Get(argName)
		if !ok {
			return instdict.Instruction{}, unknownArg(name, file, argName)
		}

		for pos := int(spec.LSB); pos <= int(spec.MSB); pos++ {
			idx := instdict.EncodingWidth - 1 - pos
			if argEncoding[idx] != '-' {
				// Overlapping a fixed bit and overlapping another
				// argument both report as ArgOverlap, with the same
				// message.
				return instdict.Instruction{}, argOverlap(name, file, argName)
			}
			argEncoding[idx] = '*' // mark claimed, distinct from fixed '0'/'1'
		}
		fields2 = append(fields2, argName)
	}

	inst, err := instdict.NewInstruction(name, string(encoding), fields2)
	if err != nil {
		return instdict.Instruction{}, err
	}
	return inst, nil
}

// applyRange parses "MSB..LSB=VAL" into the list of fixed bits it sets.
func applyRange(name, file, msbStr, lsbStr, valStr string) ([]fixedBit, error) {
	msb, _ := strconv.Atoi(msbStr)
	lsb, _ := strconv.Atoi(lsbStr)
	if msb < lsb {
		return nil, badRange(name, file, "msb %d < lsb %d", msb, lsb)
	}
	val, err := parseIntLiteral(valStr)
	if err != nil {
		return nil, outOfRange(name, file, "cannot parse value %q: %v", valStr, err)
	}
	width := msb - lsb + 1
	if width < 64 && val >= (int64(1)<<uint(width)) {
		return nil, outOfRange(name, file, "value %d does not fit in %d bits", val, width)
	}
	bits := make([]fixedBit, 0, width)
	for pos := lsb; pos <= msb; pos++ {
		bit := byte('0')
		if (val>>uint(pos-lsb))&1 == 1 {
			bit = '1'
		}
		bits = append(bits, fixedBit{pos: instdict.EncodingWidth - 1 - pos, val: bit})
	}
	return bits, nil
}

// applySingleBit parses "POS=VAL" into the one fixed bit it sets.
func applySingleBit(name, file, posStr, valStr string) (fixedBit, error) {
	pos, _ := strconv.Atoi(posStr)
	val, err := parseIntLiteral(valStr)
	if err != nil {
		return fixedBit{}, outOfRange(name, file, "cannot parse value %q: %v", valStr, err)
	}
	if val != 0 && val != 1 {
		return fixedBit{}, outOfRange(name, file, "single-bit value %d does not fit in 1 bit", val)
	}
	bit := byte('0')
	if val == 1 {
		bit = '1'
	}
	return fixedBit{pos: instdict.EncodingWidth - 1 - pos, val: bit}, nil
}

// parseIntLiteral parses decimal, 0x-hex, or 0b-binary integer literals.
func parseIntLiteral(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		return strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		return strconv.ParseInt(s[2:], 2, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}

func badRange(name, file, format string, args ...any) *instdict.FatalError {
	return instdict.NewFatal(instdict.KindBadRange, name, file, format, args...)
}
func outOfRange(name, file, format string, args ...any) *instdict.FatalError {
	return instdict.NewFatal(instdict.KindOutOfRange, name, file, format, args...)
}
func bitAlreadyAssigned(name, file string) *instdict.FatalError {
	return instdict.NewFatal(instdict.KindBitAlreadyAssigned, name, file, "bit assigned twice")
}
func unknownArg(name, file, arg string) *instdict.FatalError {
	return instdict.NewFatal(instdict.KindUnknownArg, name, file, "unknown argument %q", arg)
}
func argOverlap(name, file, arg string) *instdict.FatalError {
	return instdict.NewFatal(instdict.KindArgOverlap, name, file, "argument %q overlaps another field", arg)
}
