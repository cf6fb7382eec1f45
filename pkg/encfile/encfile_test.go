package encfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesStripsBlankAndComment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rv_i")
	content := "# base ISA\nlui rd imm20 6..2=0x0D 1=1 0=1\n\n  # indented comment\naddi rd rs1 imm12 14..12=0 6..2=0x04 1=1 0=1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)

	want := []Line{
		{File: path, Text: "lui rd imm20 6..2=0x0D 1=1 0=1", No: 2},
		{File: path, Text: "addi rd rs1 imm12 14..12=0 6..2=0x04 1=1 0=1", No: 5},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("ReadLines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtensionName(t *testing.T) {
	assert.Equal(t, "rv_b", ExtensionName("unratified/rv_b"))
	assert.Equal(t, "rv32_i", ExtensionName("rv32_i.txt"))
}

func TestResolveGlobsDescendingPerPatternConcatenatedInOrder(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"rv32_i", "rv32_m", "rv64_i", "rv_c"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(""), 0o644))
	}

	got, err := ResolveGlobs(root, []string{"rv32_*", "rv64_*"})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "rv32_m"),
		filepath.Join(root, "rv32_i"),
		filepath.Join(root, "rv64_i"),
	}
	assert.Equal(t, want, got)
}

func TestResolveGlobsDedupesAcrossPatterns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "rv_c"), []byte(""), 0o644))

	got, err := ResolveGlobs(root, []string{"rv_c", "rv_*"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "rv_c")}, got)
}

func TestFindExtensionFileSearchesUnratified(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "unratified"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "unratified", "rv_b.txt"), []byte(""), 0o644))

	path, ok := FindExtensionFile(root, "rv_b")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "unratified", "rv_b.txt"), path)

	_, ok = FindExtensionFile(root, "does_not_exist")
	assert.False(t, ok)
}
