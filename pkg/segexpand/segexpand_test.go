package segexpand

import (
	"testing"

	"github.com/riscv/rvopc/pkg/instdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseVlseg() instdict.Instruction {
	// vlsegNe8.v-style skeleton: 32 chars, "nf" occupying bits 31..29.
	encoding := "---00000-----------------1010111"[:32]
	return instdict.Instruction{
		Name:           "vle8_v",
		Encoding:       encoding,
		VariableFields: []string{"nf", "vd", "rs1", "vm"},
		Extensions:     map[string]struct{}{"rv_v": {}},
		Match:          0b00000000000000000000000001010111,
		Mask:           0b00011111000000000000000001111111,
	}
}

func TestExpandProducesEightVariants(t *testing.T) {
	dict := instdict.Dictionary{"vle8_v": baseVlseg()}
	out, err := Expand(dict)
	require.NoError(t, err)

	assert.Contains(t, out, "vle8_v")
	for nf := 1; nf < 8; nf++ {
		name := "vlseg" + string(rune('0'+nf+1)) + "e8_v"
		assert.Contains(t, out, name, "expected variant for nf=%d", nf)
	}
}

func TestExpandSetsMaskBitsAndMatch(t *testing.T) {
	dict := instdict.Dictionary{"vle8_v": baseVlseg()}
	out, err := Expand(dict)
	require.NoError(t, err)

	for nf := uint32(0); nf < 8; nf++ {
		name := "vle8_v"
		if nf != 0 {
			name = "vlseg" + string(rune('0'+nf+1)) + "e8_v"
		}
		inst, ok := out[name]
		require.True(t, ok, "missing variant nf=%d", nf)
		assert.Equal(t, uint32(0b111)<<29|inst.Mask&^(uint32(0b111)<<29), inst.Mask)
		assert.Equal(t, nf<<29, inst.Match&(0b111<<29))
		assert.NotContains(t, inst.VariableFields, "nf")
	}
}

func TestExpandSkipsNonNfInstructions(t *testing.T) {
	dict := instdict.Dictionary{
		"addi": {Name: "addi", Encoding: "00000000000000000000000000010011", VariableFields: []string{"rd", "rs1", "imm12"}},
	}
	out, err := Expand(dict)
	require.NoError(t, err)
	assert.Contains(t, out, "addi")
	assert.Len(t, out, 1)
}

func TestExpandFatalWhenNameHasNoE(t *testing.T) {
	in := baseVlseg()
	in.Name = "vlsgXX8v"
	dict := instdict.Dictionary{"vlsgXX8v": in}

	_, err := Expand(dict)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindCannotExpandNf, fe.Kind)
}
