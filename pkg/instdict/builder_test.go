package instdict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildLUIBaseline(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv_i", "lui rd imm20 6..2=0x0D 1=1 0=1\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_i"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)

	inst, ok := dict["lui"]
	require.True(t, ok)
	assert.Equal(t, "0x37", inst.MatchHex())
	assert.Equal(t, "0x7f", inst.MaskHex())
	assert.Equal(t, []string{"rv_i"}, inst.ExtensionList())
}

func TestBuildCrossFileOverlapAllowed(t *testing.T) {
	root := t.TempDir()
	// c_addi and c_nop are allow-listed to overlap.
	writeFile(t, root, "rv_c", "c_addi rd_rs1 c_nzimm6lo c_nzimm6hi 15..13=0x0\nc_nop 12..2=0x0 15..13=0x0\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_c"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	assert.Contains(t, dict, "c_addi")
	assert.Contains(t, dict, "c_nop")
}

func TestBuildCrossInstructionOverlapFatal(t *testing.T) {
	root := t.TempDir()
	// Two unrelated mnemonics, same fixed bits, same base ISA, no
	// allow-list entry -> fatal.
	writeFile(t, root, "rv32_x", "foo 6..0=0x33\nbar 6..0=0x33\n")

	_, err := Build(BuildConfig{Root: root, Patterns: []string{"rv32_x"}, LUT: arglut.DefaultLUT()})
	require.Error(t, err)
	fe, ok := err.(*FatalError)
	require.True(t, ok)
	assert.Equal(t, KindCrossInstructionOverlap, fe.Kind)
}

func TestBuildDuplicateSameBaseFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv32_x", "foo 6..0=0x33\n")
	writeFile(t, root, "rv32_y", "foo 6..0=0x37\n")

	_, err := Build(BuildConfig{Root: root, Patterns: []string{"rv32_*"}, LUT: arglut.DefaultLUT()})
	require.Error(t, err)
	fe, ok := err.(*FatalError)
	require.True(t, ok)
	assert.Equal(t, KindDuplicateSameBase, fe.Kind)
}

func TestBuildEncodingConflictAcrossBaseISAs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv32_x", "foo 6..0=0x33\n")
	writeFile(t, root, "rv64_x", "foo 6..0=0x37\n")

	_, err := Build(BuildConfig{Root: root, Patterns: []string{"rv*_x"}, LUT: arglut.DefaultLUT()})
	require.Error(t, err)
	fe, ok := err.(*FatalError)
	require.True(t, ok)
	assert.Equal(t, KindEncodingConflict, fe.Kind)
}

func TestBuildUnionsExtensionsForIdenticalEncoding(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv32_x", "foo 6..0=0x33\n")
	writeFile(t, root, "rv64_x", "foo 6..0=0x33\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv*_x"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"rv32_x", "rv64_x"}, dict["foo"].ExtensionList())
}

func TestBuildPseudoOpAdmittedWhenDependencyMissing(t *testing.T) {
	root := t.TempDir()
	// rv_i defines "addi" as a standard instruction but is deliberately
	// left out of the glob patterns below: $pseudo_op's dependency
	// lookup searches the whole extensions root
	// regardless of the pattern list, but admission (step 4) only
	// checks whether "addi" made it into the dictionary via Pass 1 —
	// which it didn't, since rv_i was never loaded.
	writeFile(t, root, "rv_i", "addi rd rs1 imm12 14..12=0 6..0=0x13\n")
	writeFile(t, root, "rv_pseudo", "$pseudo_op rv_i::addi nop 11..7=0 19..15=0 14..12=0 6..0=0x13 31..20=0\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_pseudo"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	assert.Contains(t, dict, "nop")
}

func TestBuildPseudoOpSkippedWhenDependencyLoaded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv_i", "addi rd rs1 imm12 14..12=0 6..0=0x13\n"+
		"$pseudo_op rv_i::addi nop 11..7=0 19..15=0 14..12=0 6..0=0x13 31..20=0\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_i"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	assert.NotContains(t, dict, "nop")
}

func TestBuildPseudoOpForcedViaIncludePseudo(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv_i", "addi rd rs1 imm12 14..12=0 6..0=0x13\n"+
		"$pseudo_op rv_i::addi nop 11..7=0 19..15=0 14..12=0 6..0=0x13 31..20=0\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_i"}, IncludePseudo: true, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	assert.Contains(t, dict, "nop")
}

func TestBuildImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv_i", "addi rd rs1 imm12 14..12=0 6..0=0x13\n")
	writeFile(t, root, "rv64_i", "$import rv_i::addi\n")

	dict, err := Build(BuildConfig{Root: root, Patterns: []string{"rv_i", "rv64_i"}, LUT: arglut.DefaultLUT()})
	require.NoError(t, err)
	require.Contains(t, dict, "addi")
	assert.ElementsMatch(t, []string{"rv_i", "rv64_i"}, dict["addi"].ExtensionList())
}

func TestBuildImportMissingFileFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "rv64_i", "$import rv_nonexistent::addi\n")

	_, err := Build(BuildConfig{Root: root, Patterns: []string{"rv64_i"}, LUT: arglut.DefaultLUT()})
	require.Error(t, err)
	fe, ok := err.(*FatalError)
	require.True(t, ok)
	assert.Equal(t, KindMissingDependencyFile, fe.Kind)
}

func TestOverlapsFunction(t *testing.T) {
	assert.True(t, Overlaps("000-----", "0001----"))
	assert.False(t, Overlaps("0000----", "0001----"))
	assert.True(t, Overlaps("----", "0101"))
}

func TestDictionarySortedOrder(t *testing.T) {
	d := Dictionary{
		"zzz": Instruction{Name: "zzz"},
		"aaa": Instruction{Name: "aaa"},
		"mmm": Instruction{Name: "mmm"},
	}
	assert.Equal(t, []string{"aaa", "mmm", "zzz"}, d.Sorted())
}
