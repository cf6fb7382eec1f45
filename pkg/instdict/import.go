package instdict

import (
	"strings"

	"github.com/riscv/rvopc/pkg/encfile"
	"github.com/riscv/rvopc/pkg/encline"
)

// admitImport implements Pass 3: lines of the form
// "$import EXTFILE::INSTNAME".
func (b *builder) admitImport(line, file string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "$import"))
	parts := strings.SplitN(rest, "::", 2)
	if len(parts) != 2 {
		return NewFatal(KindMissingDependencyInstruction, "", file, "malformed $import line: %q", line)
	}
	extFile, instName := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	resolvedPath, ok := encfile.FindExtensionFile(b.root, extFile)
	if !ok {
		return NewFatal(KindMissingDependencyFile, instName, file, "import target file %q not found", extFile)
	}

	sourceLine, ok := findFirstStandardLine(resolvedPath, instName)
	if !ok {
		return NewFatal(KindMissingDependencyInstruction, instName, file,
			"cannot import pseudo/imported ops: %q not found in %q", instName, extFile)
	}

	importingExt := encfile.ExtensionName(file)
	newInst, err := encline.Parse(sourceLine, resolvedPath, b.lut)
	if err != nil {
		return err
	}
	newInst.Extensions[importingExt] = struct{}{}

	existing, ok := b.dict[newInst.Name]
	if !ok {
		b.dict[newInst.Name] = newInst
		return nil
	}
	if existing.Encoding != newInst.Encoding {
		return NewFatal(KindEncodingConflict, newInst.Name, file,
			"$import encoding differs from existing definition (%s vs %s)", newInst.Encoding, existing.Encoding)
	}
	merged := existing
	merged.Extensions = unionExtensions(existing.Extensions, newInst.Extensions)
	b.dict[newInst.Name] = merged
	return nil
}

// findFirstStandardLine returns the first non-$pseudo_op/$import line in
// path whose mnemonic is instName.
func findFirstStandardLine(path, instName string) (string, bool) {
	lines, err := encfile.ReadLines(path)
	if err != nil {
		return "", false
	}
	want := strings.ReplaceAll(instName, ".", "_")
	for _, l := range lines {
		if strings.HasPrefix(l.Text, "$pseudo_op") || strings.HasPrefix(l.Text, "$import") {
			continue
		}
		fields := strings.Fields(l.Text)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == instName || strings.ReplaceAll(fields[0], ".", "_") == want {
			return l.Text, true
		}
	}
	return "", false
}
