package instdict

import (
	"sort"
	"strings"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/encfile"
	"github.com/riscv/rvopc/pkg/encline"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Dictionary maps mnemonic to Instruction. Use Sorted for the final,
// post-build iteration order: mnemonics in lexicographic order, the
// order every emitter renders output in.
type Dictionary map[string]Instruction

// Sorted returns the dictionary's mnemonics in ascending order.
func (d Dictionary) Sorted() []string {
	names := make([]string, 0, len(d))
	for k := range d {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Extensions returns the set of base-name extensions contributing to
// the dictionary, sorted, mirroring the introspection
// count_extensions.py/list_combinations.py do over the Python
// dictionary.
func (d Dictionary) Extensions() []string {
	seen := make(map[string]struct{})
	for _, in := range d {
		for e := range in.Extensions {
			seen[e] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// ExtensionCounts returns, for each contributing extension, the number
// of instructions it contributes.
func ExtensionCounts(d Dictionary) map[string]int {
	counts := make(map[string]int)
	for _, in := range d {
		for e := range in.Extensions {
			counts[e]++
		}
	}
	return counts
}

// BuildConfig configures the three-pass loader.
type BuildConfig struct {
	Root              string   // extensions root directory
	Patterns          []string // glob patterns, relative to Root
	IncludePseudo     bool     // -pseudo: admit every pseudo-op
	IncludePseudoOps  []string // admit these pseudo-ops even without -pseudo
	LUT               *arglut.LUT
	Log               *logrus.Logger
}

// Build runs the three passes (standard, pseudo, imports) over the
// resolved file list and returns the finalized, sorted-ready
// Dictionary. Any violation aborts the whole run: Build returns the
// first *FatalError encountered.
func Build(cfg BuildConfig) (Dictionary, error) {
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}
	lut := cfg.LUT
	if lut == nil {
		lut = arglut.DefaultLUT()
	}

	files, err := encfile.ResolveGlobs(cfg.Root, cfg.Patterns)
	if err != nil {
		return nil, err
	}

	b := &builder{
		dict:             make(Dictionary),
		lut:              lut,
		log:              log,
		includePseudo:    cfg.IncludePseudo,
		includePseudoOps: lo.SliceToMap(cfg.IncludePseudoOps, func(s string) (string, struct{}) { return s, struct{}{} }),
		root:             cfg.Root,
	}

	// Pass 1: standard instructions.
	for _, file := range files {
		lines, err := encfile.ReadLines(file)
		if err != nil {
			return nil, err
		}
		ext := encfile.ExtensionName(file)
		for _, line := range lines {
			if strings.HasPrefix(line.Text, "$pseudo_op") || strings.HasPrefix(line.Text, "$import") {
				continue
			}
			if err := b.admitStandard(line.Text, ext, file); err != nil {
				log.WithFields(logrus.Fields{"file": file, "pass": "standard"}).Error(err)
				return nil, err
			}
		}
	}
	log.WithField("count", len(b.dict)).Info("pass 1 complete: standard instructions")

	// Pass 2: pseudo-ops.
	for _, file := range files {
		lines, err := encfile.ReadLines(file)
		if err != nil {
			return nil, err
		}
		ext := encfile.ExtensionName(file)
		for _, line := range lines {
			if !strings.HasPrefix(line.Text, "$pseudo_op") {
				continue
			}
			if err := b.admitPseudo(line.Text, ext, file); err != nil {
				log.WithFields(logrus.Fields{"file": file, "pass": "pseudo"}).Error(err)
				return nil, err
			}
		}
	}
	log.WithField("count", len(b.dict)).Info("pass 2 complete: pseudo-ops")

	// Pass 3: imports.
	for _, file := range files {
		lines, err := encfile.ReadLines(file)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if !strings.HasPrefix(line.Text, "$import") {
				continue
			}
			if err := b.admitImport(line.Text, file); err != nil {
				log.WithFields(logrus.Fields{"file": file, "pass": "import"}).Error(err)
				return nil, err
			}
		}
	}
	log.WithField("count", len(b.dict)).Info("pass 3 complete: imports")

	return b.dict, nil
}

type builder struct {
	dict             Dictionary
	lut              *arglut.LUT
	log              *logrus.Logger
	includePseudo    bool
	includePseudoOps map[string]struct{}
	root             string
}

// admitStandard implements Pass 1: standard instruction lines.
func (b *builder) admitStandard(line, ext, file string) error {
	inst, err := encline.Parse(line, file, b.lut)
	if err != nil {
		return err
	}
	inst.Extensions[ext] = struct{}{}

	existing, ok := b.dict[inst.Name]
	if ok {
		return b.mergeStandard(inst, existing, ext, file)
	}

	if err := b.checkCrossInstructionOverlap(inst, ext); err != nil {
		return err
	}
	b.dict[inst.Name] = inst
	return nil
}

func (b *builder) mergeStandard(newInst, existing Instruction, ext, file string) error {
	for existingExt := range existing.Extensions {
		if arglut.SameBaseISA(arglut.BaseISA(ext), arglut.BaseISA(existingExt)) {
			return NewFatal(KindDuplicateSameBase, newInst.Name, file,
				"mnemonic already defined in extension %q (same base ISA as %q)", existingExt, ext)
		}
	}
	if newInst.Encoding != existing.Encoding {
		return NewFatal(KindEncodingConflict, newInst.Name, file,
			"different encodings across base ISAs (%s vs %s)", newInst.Encoding, existing.Encoding)
	}
	merged := existing
	merged.Extensions = unionExtensions(existing.Extensions, newInst.Extensions)
	b.dict[newInst.Name] = merged
	return nil
}

// checkCrossInstructionOverlap enforces the cross-instruction overlap
// rule before a brand-new mnemonic is installed: a new encoding may not
// overlap an existing one in the same base ISA unless the pair is
// allow-listed by extension or by mnemonic.
func (b *builder) checkCrossInstructionOverlap(newInst Instruction, ext string) error {
	newBase := arglut.BaseISA(ext)
	for _, other := range b.dict {
		if !Overlaps(newInst.Encoding, other.Encoding) {
			continue
		}
		if pairAllowedByExtensions(newInst, other, ext) {
			continue
		}
		if arglut.OverlappingInstructions.Allows(newInst.Name, other.Name) {
			continue
		}
		shareBase := false
		for otherExt := range other.Extensions {
			if arglut.SameBaseISA(newBase, arglut.BaseISA(otherExt)) {
				shareBase = true
				break
			}
		}
		if !shareBase {
			continue
		}
		return NewFatal(KindCrossInstructionOverlap, newInst.Name, ext,
			"encoding overlaps %q (extension %q) with no allow-list entry", other.Name, extensionOf(other))
	}
	return nil
}

func pairAllowedByExtensions(a, b Instruction, aExt string) bool {
	for bExt := range b.Extensions {
		if arglut.OverlappingExtensions.Allows(aExt, bExt) {
			return true
		}
	}
	return false
}

func extensionOf(in Instruction) string {
	for e := range in.Extensions {
		return e
	}
	return ""
}

func unionExtensions(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}

// Overlaps reports whether two 32-char tri-state encodings overlap:
// at every bit position they are equal or at least one is '-'.
func Overlaps(a, b string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != '-' && b[i] != '-' && a[i] != b[i] {
			return false
		}
	}
	return true
}
