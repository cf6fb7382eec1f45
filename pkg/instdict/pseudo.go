package instdict

import (
	"strings"

	"github.com/riscv/rvopc/pkg/encfile"
	"github.com/riscv/rvopc/pkg/encline"
)

// admitPseudo implements Pass 2: lines of the form
// "$pseudo_op DEPFILE::DEPINST PSEUDO_NAME ENCODING_TOKENS".
func (b *builder) admitPseudo(line, ext, file string) error {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "$pseudo_op"))
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return NewFatal(KindMissingDependencyInstruction, "", file, "malformed $pseudo_op line: %q", line)
	}

	depSpec := fields[0]
	parts := strings.SplitN(depSpec, "::", 2)
	if len(parts) != 2 {
		return NewFatal(KindMissingDependencyInstruction, "", file, "malformed DEPFILE::DEPINST %q", depSpec)
	}
	depFile, depInst := parts[0], parts[1]

	resolvedDepPath, ok := encfile.FindExtensionFile(b.root, depFile)
	if !ok {
		return NewFatal(KindMissingDependencyFile, depInst, file, "dependency file %q not found", depFile)
	}

	if !instructionDeclaredIn(resolvedDepPath, depInst) {
		return NewFatal(KindMissingDependencyInstruction, depInst, file,
			"cannot import pseudo/imported ops: %q not a standard instruction in %q", depInst, depFile)
	}

	pseudoLine := strings.Join(fields[1:], " ")
	newInst, err := encline.Parse(pseudoLine, file, b.lut)
	if err != nil {
		return err
	}
	newInst.Extensions[ext] = struct{}{}

	depKey := strings.ReplaceAll(depInst, ".", "_")
	_, depLoaded := b.dict[depKey]

	_, explicitlyIncluded := b.includePseudoOps[newInst.Name]
	admit := !depLoaded || b.includePseudo || explicitlyIncluded
	if !admit {
		return nil
	}

	existing, ok := b.dict[newInst.Name]
	if !ok {
		b.dict[newInst.Name] = newInst
		return nil
	}

	if newInst.Match != existing.Match {
		// A pseudo-op name colliding with a differently-encoded existing
		// mnemonic installs under "<name>_pseudo" rather than overwriting it.
		renamed := newInst
		renamed.Name = newInst.Name + "_pseudo"
		b.dict[renamed.Name] = renamed
		return nil
	}

	if _, already := existing.Extensions[ext]; !already {
		merged := existing
		merged.Extensions = unionExtensions(existing.Extensions, newInst.Extensions)
		b.dict[newInst.Name] = merged
	}
	return nil
}

// instructionDeclaredIn reports whether depInst appears as the mnemonic
// of a standard (non-$pseudo_op, non-$import) line in path.
func instructionDeclaredIn(path, depInst string) bool {
	lines, err := encfile.ReadLines(path)
	if err != nil {
		return false
	}
	for _, l := range lines {
		if strings.HasPrefix(l.Text, "$pseudo_op") || strings.HasPrefix(l.Text, "$import") {
			continue
		}
		fields := strings.Fields(l.Text)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == depInst || strings.ReplaceAll(fields[0], ".", "_") == strings.ReplaceAll(depInst, ".", "_") {
			return true
		}
	}
	return false
}
