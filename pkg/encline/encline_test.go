package encline

import (
	"testing"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/instdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLUIBaseline(t *testing.T) {
	lut := arglut.DefaultLUT()
	inst, err := Parse("lui rd imm20 6..2=0x0D 1=1 0=1", "rv_i", lut)
	require.NoError(t, err)
	assert.Equal(t, "lui", inst.Name)
	assert.Equal(t, "0x37", inst.MatchHex())
	assert.Equal(t, "0x7f", inst.MaskHex())
	assert.ElementsMatch(t, []string{"rd", "imm20"}, inst.VariableFields)
}

func TestParseOverlapWithinLineBitAlreadyAssigned(t *testing.T) {
	lut := arglut.DefaultLUT()
	_, err := Parse("jol rd jimm20 6..2=0x00 3=1", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindBitAlreadyAssigned, fe.Kind)
}

func TestParseBadRange(t *testing.T) {
	lut := arglut.DefaultLUT()
	_, err := Parse("jol 2..6=0x1b", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindBadRange, fe.Kind)
}

func TestParseIllegalValueOutOfRange(t *testing.T) {
	lut := arglut.DefaultLUT()
	_, err := Parse("jol rd jimm20 2..0=10", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindOutOfRange, fe.Kind)
}

func TestParseUnknownArg(t *testing.T) {
	lut := arglut.DefaultLUT()
	_, err := Parse("jol rd jimm128 2..0=3", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindUnknownArg, fe.Kind)
}

func TestParseFullRangeBoundary(t *testing.T) {
	lut := arglut.DefaultLUT()
	inst, err := Parse("allones 31..0=0xFFFFFFFF", "rv_i", lut)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), inst.Match)
}

func TestParseOutOfRangeOverflow(t *testing.T) {
	lut := arglut.DefaultLUT()
	_, err := Parse("bad 31..0=0x100000000", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindOutOfRange, fe.Kind)
}

func TestParseAliasInstallsAndPersists(t *testing.T) {
	lut := arglut.DefaultLUT()
	inst, err := Parse("foo rd_alias=rd 6..2=0x00", "rv_i", lut)
	require.NoError(t, err)
	assert.Contains(t, inst.VariableFields, "rd_alias")

	spec, ok := lut.Get("rd_alias")
	require.True(t, ok)
	rdSpec, _ := lut.Get("rd")
	assert.Equal(t, rdSpec, spec)

	// Alias persists for later lines in the same run.
	inst2, err := Parse("bar rd_alias 6..2=0x01", "rv_i", lut)
	require.NoError(t, err)
	assert.Contains(t, inst2.VariableFields, "rd_alias")
}

func TestParseArgOverlapsFixedBit(t *testing.T) {
	lut := arglut.DefaultLUT()
	// rd occupies bits 11..7; 7=1 collides with it.
	_, err := Parse("bad rd 7=1", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindArgOverlap, fe.Kind)
}

func TestParseArgsOverlapEachOther(t *testing.T) {
	lut := arglut.DefaultLUT()
	lut.Install("fakearg", arglut.ArgSpec{MSB: 11, LSB: 9})
	_, err := Parse("bad rd fakearg", "rv_i", lut)
	require.Error(t, err)
	fe, ok := err.(*instdict.FatalError)
	require.True(t, ok)
	assert.Equal(t, instdict.KindArgOverlap, fe.Kind)
}
