package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/riscv/rvopc/pkg/arglut"
	"github.com/riscv/rvopc/pkg/emit"
	"github.com/riscv/rvopc/pkg/instdict"
	"github.com/riscv/rvopc/pkg/rvconfig"
	"github.com/riscv/rvopc/pkg/segexpand"
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "rvopc",
		Short: "rvopc — RISC-V instruction opcode dictionary builder",
	}

	var dump bool
	var stats bool
	v := rvconfig.New()

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the instruction dictionary and emit artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rvconfig.Load(v), dump, stats)
		},
	}
	rvconfig.BindFlags(buildCmd, v)
	buildCmd.Flags().BoolVar(&dump, "dump", false, "dump the full parsed dictionary via go-spew before emitting")
	buildCmd.Flags().BoolVar(&stats, "stats", false, "print per-extension instruction counts before emitting")

	var queryRoot string
	var queryPatterns []string
	queryCmd := &cobra.Command{
		Use:   "query <glob>",
		Short: "Print every mnemonic matching a glob, with its encoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(queryRoot, queryPatterns, args[0])
		},
	}
	queryCmd.Flags().StringVar(&queryRoot, "root", "extensions", "extensions root directory")
	queryCmd.Flags().StringSliceVar(&queryPatterns, "patterns", []string{"rv*", "unratified/rv*"}, "glob patterns selecting extension files")

	rootCmd.AddCommand(buildCmd, queryCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("rvopc failed")
		os.Exit(1)
	}
}

func setLogLevel(levelName string) {
	lvl, err := logrus.ParseLevel(levelName)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}

func buildDictionary(root string, patterns []string, includePseudo bool, includePseudoOps []string, expandSegmented bool) (instdict.Dictionary, error) {
	lut := arglut.DefaultLUT()
	if rootLUT, err := arglut.LoadLUTFile(filepath.Join(root, "arg_lut.csv")); err == nil {
		lut = rootLUT
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	cfg := instdict.BuildConfig{
		Root:             root,
		Patterns:         patterns,
		IncludePseudo:    includePseudo,
		IncludePseudoOps: includePseudoOps,
		LUT:              lut,
		Log:              log,
	}
	dict, err := instdict.Build(cfg)
	if err != nil {
		return nil, err
	}
	if expandSegmented {
		dict, err = segexpand.Expand(dict)
		if err != nil {
			return nil, err
		}
	}
	return dict, nil
}

func runBuild(cfg rvconfig.Config, dump, stats bool) error {
	setLogLevel(cfg.LogLevel)

	dict, err := buildDictionary(cfg.Root, cfg.Patterns, cfg.IncludePseudo, cfg.IncludePseudoOps, cfg.ExpandSegmented)
	if err != nil {
		if fe, ok := err.(*instdict.FatalError); ok {
			log.WithFields(logrus.Fields{"kind": fe.Kind, "mnemonic": fe.Mnemonic, "file": fe.File}).Error(fe.Detail)
		}
		return err
	}
	log.WithField("count", len(dict)).Info("dictionary built")

	if stats {
		printExtensionCounts(dict)
	}

	if dump {
		spew.Fdump(os.Stderr, dict)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}

	emitters, err := resolveEmitters(cfg.Emitters)
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, e := range emitters {
		e := e
		g.Go(func() error {
			return writeEmitterOutput(cfg.OutDir, e, dict)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.WithField("emitters", cfg.Emitters).Info("build complete")
	return nil
}

func resolveEmitters(names []string) ([]emit.Emitter, error) {
	out := make([]emit.Emitter, 0, len(names))
	for _, name := range names {
		switch name {
		case "json":
			out = append(out, emit.JSON{})
		case "c":
			out = append(out, emit.CHeader{})
		case "csr-c":
			out = append(out, emit.CSRHeader{Entries: arglut.CSRs(false)})
		case "go":
			out = append(out, emit.GoTable{Package: "rvinst"})
		case "latex":
			out = append(out, emit.LatexTable{LUT: arglut.DefaultLUT(), Caption: "Instruction listing for RISC-V"})
		case "rust":
			out = append(out, emit.Rust{})
		case "sverilog":
			out = append(out, emit.SystemVerilog{})
		case "chisel":
			out = append(out, emit.Chisel{})
		case "spinalhdl":
			out = append(out, emit.Chisel{SpinalHDL: true})
		default:
			return nil, fmt.Errorf("rvopc: unknown emitter %q", name)
		}
	}
	return out, nil
}

func extensionForFile(name string) string {
	switch name {
	case "c", "csr-c":
		return "h"
	case "go":
		return "go"
	case "latex":
		return "tex"
	case "rust":
		return "rs"
	case "sverilog":
		return "sv"
	case "chisel", "spinalhdl":
		return "scala"
	default:
		return name
	}
}

func writeEmitterOutput(outDir string, e emit.Emitter, dict instdict.Dictionary) error {
	path := filepath.Join(outDir, "encoding."+e.Name()+"."+extensionForFile(e.Name()))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := e.Emit(f, dict); err != nil {
		return fmt.Errorf("rvopc: emitter %q: %w", e.Name(), err)
	}
	log.WithFields(logrus.Fields{"emitter": e.Name(), "path": path}).Info("wrote artifact")
	return nil
}

// printExtensionCounts prints per-extension instruction counts,
// sorted by extension name, the supplemental introspection
// count_extensions.py/list_combinations.py provide over the Python
// dictionary.
func printExtensionCounts(dict instdict.Dictionary) {
	counts := instdict.ExtensionCounts(dict)
	exts := make([]string, 0, len(counts))
	for e := range counts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	for _, e := range exts {
		fmt.Printf("%-20s %d\n", e, counts[e])
	}
}

// runQuery loads the dictionary and prints every mnemonic whose
// (dot-to-underscore normalized) name matches glob, one line per
// match, supplementing search_op.py/print_opcodes.py's debug entry
// points as a single cobra subcommand.
func runQuery(root string, patterns []string, glob string) error {
	dict, err := buildDictionary(root, patterns, false, nil, false)
	if err != nil {
		return err
	}

	key := strings.ReplaceAll(glob, ".", "_")
	matched := 0
	for _, name := range dict.Sorted() {
		ok, err := filepath.Match(key, name)
		if err != nil {
			return fmt.Errorf("rvopc: bad glob %q: %w", glob, err)
		}
		if !ok {
			continue
		}
		matched++
		in := dict[name]
		fmt.Printf("%-20s %s  match=%s mask=%s  [%s]\n",
			in.Name, in.Encoding, in.MatchHex(), in.MaskHex(), strings.Join(in.ExtensionList(), ","))
	}
	if matched == 0 {
		return fmt.Errorf("rvopc: no instruction matched %q", glob)
	}
	return nil
}
