// Package arglut holds the static lookup tables the rest of rvopc is
// built around: argument name to bit-range, CSR and trap-cause number
// maps, and the overlap allow-lists. Everything here is built once at
// startup and is read-only afterward, except for alias installation
// (see Install) which the line parser performs while it runs.
package arglut

import (
	"bufio"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed data/arg_lut.csv data/causes.csv data/csrs.csv data/csrs32.csv
var defaultData embed.FS

// ArgSpec is an immutable bit range, msb >= lsb, both in [0, 31].
type ArgSpec struct {
	MSB uint8
	LSB uint8
}

// Width returns the number of bits the argument spans.
func (a ArgSpec) Width() int { return int(a.MSB) - int(a.LSB) + 1 }

// Overlaps reports whether two bit ranges share any position.
func (a ArgSpec) Overlaps(b ArgSpec) bool {
	return int(a.MSB) >= int(b.LSB) && int(b.MSB) >= int(a.LSB)
}

// LUT is a scoped argument-name -> ArgSpec table. The zero value is not
// usable; construct with NewLUT or LoadLUT.
//
// Design note: the Python generator mutates a single process-wide
// arg_lut when a line installs an alias. We keep the same run-wide
// visibility (aliases installed while loading one file are visible to
// files loaded afterward in the same run) but behind a named type with
// an explicit Install method, rather than a bare global map, so a test
// or a second dictionary build in the same process can each start from
// a clean clone via Clone.
type LUT struct {
	specs map[string]ArgSpec
}

// NewLUT returns an empty table.
func NewLUT() *LUT {
	return &LUT{specs: make(map[string]ArgSpec)}
}

// Clone returns a deep copy, so installing an alias on the clone never
// affects the original.
func (l *LUT) Clone() *LUT {
	c := NewLUT()
	for k, v := range l.specs {
		c.specs[k] = v
	}
	return c
}

// Get looks up an argument name, returning ok=false if absent.
func (l *LUT) Get(name string) (ArgSpec, bool) {
	spec, ok := l.specs[name]
	return spec, ok
}

// Install adds or overwrites an entry. Used both for loading the CSV
// source and for installing NEW=OLD aliases: an alias persists for the
// remainder of the run once installed.
func (l *LUT) Install(name string, spec ArgSpec) {
	l.specs[name] = spec
}

// Names returns all known argument names, sorted.
func (l *LUT) Names() []string {
	names := make([]string, 0, len(l.specs))
	for k := range l.specs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LoadLUT reads an arg_lut.csv-shaped file: rows of (name, msb, lsb).
func LoadLUT(r io.Reader) (*LUT, error) {
	lut := NewLUT()
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 3
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("arglut: %w", err)
		}
		name := strings.TrimSpace(rec[0])
		msb, err := strconv.ParseUint(strings.TrimSpace(rec[1]), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("arglut: bad msb for %q: %w", name, err)
		}
		lsb, err := strconv.ParseUint(strings.TrimSpace(rec[2]), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("arglut: bad lsb for %q: %w", name, err)
		}
		lut.Install(name, ArgSpec{MSB: uint8(msb), LSB: uint8(lsb)})
	}
	return lut, nil
}

// LoadLUTFile loads arg_lut.csv from disk.
func LoadLUTFile(path string) (*LUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadLUT(bufio.NewReader(f))
}

// DefaultLUT returns the table built from the embedded arg_lut.csv
// shipped with rvopc, used when the CLI isn't pointed at an extensions
// root with its own copy.
func DefaultLUT() *LUT {
	f, err := defaultData.Open("data/arg_lut.csv")
	if err != nil {
		panic(err) // embedded at build time, cannot fail at runtime
	}
	defer f.Close()
	lut, err := LoadLUT(f)
	if err != nil {
		panic(err)
	}
	return lut
}

// CSREntry is one (number, name) row of a CSR table.
type CSREntry struct {
	Number uint32
	Name   string
}

// CauseEntry is one (number, name) row of the trap-cause table.
type CauseEntry struct {
	Number uint32
	Name   string
}

func loadNumberNamePairs(r io.Reader) ([]CSREntry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 2
	var out []CSREntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("arglut: bad number %q: %w", rec[0], err)
		}
		out = append(out, CSREntry{Number: uint32(n), Name: strings.TrimSpace(rec[1])})
	}
	return out, nil
}

// LoadCauses reads causes.csv: rows of (hex_or_dec_number, name).
func LoadCauses(r io.Reader) ([]CauseEntry, error) {
	pairs, err := loadNumberNamePairs(r)
	if err != nil {
		return nil, err
	}
	out := make([]CauseEntry, len(pairs))
	for i, p := range pairs {
		out[i] = CauseEntry(p)
	}
	return out, nil
}

// LoadCSRs reads a csrs.csv/csrs32.csv-shaped file: rows of (number, name).
func LoadCSRs(r io.Reader) ([]CSREntry, error) {
	return loadNumberNamePairs(r)
}

// Tables bundles the CSR and cause tables an emitter needs.
type Tables struct {
	Causes    []CauseEntry
	CSRs      []CSREntry // base CSR set, all widths
	CSRsRV32  []CSREntry // RV32-only extras, from csrs32.csv
}

// CSRs32 returns the CSR table; when rv32 is true, the RV32-only
// extras from csrs32.csv are appended, matching the source's
// csrs32.csv role of listing the extras for RV32 only.
func (t Tables) CSRs32(rv32 bool) []CSREntry {
	if !rv32 {
		return t.CSRs
	}
	out := make([]CSREntry, 0, len(t.CSRs)+len(t.CSRsRV32))
	out = append(out, t.CSRs...)
	out = append(out, t.CSRsRV32...)
	return out
}

// DefaultTables returns the CSR/cause tables built from embedded CSVs.
func DefaultTables() Tables {
	open := func(name string) io.ReadCloser {
		f, err := defaultData.Open(name)
		if err != nil {
			panic(err)
		}
		return f
	}

	causesF := open("data/causes.csv")
	defer causesF.Close()
	causes, err := LoadCauses(causesF)
	if err != nil {
		panic(err)
	}

	csrsF := open("data/csrs.csv")
	defer csrsF.Close()
	csrs, err := LoadCSRs(csrsF)
	if err != nil {
		panic(err)
	}

	csrs32F := open("data/csrs32.csv")
	defer csrs32F.Close()
	csrs32, err := LoadCSRs(csrs32F)
	if err != nil {
		panic(err)
	}

	return Tables{Causes: causes, CSRs: csrs, CSRsRV32: csrs32}
}

// CSRs returns the default CSR table; when rv32 is true, the RV32-only
// extras from csrs32.csv are appended. A thin wrapper over
// DefaultTables for callers, such as the C-header emitter, that only
// need the CSR table and not the trap-cause table too.
func CSRs(rv32 bool) []CSREntry {
	return DefaultTables().CSRs32(rv32)
}

// Causes returns the default trap-cause table.
func Causes() []CauseEntry {
	return DefaultTables().Causes
}

// LoadTables reads the three CSR/cause CSVs from an extensions root
// directory ("<root>/causes.csv", "<root>/csrs.csv", "<root>/csrs32.csv").
func LoadTables(root string) (Tables, error) {
	readOne := func(name string) (*os.File, error) {
		return os.Open(root + "/" + name)
	}

	causesF, err := readOne("causes.csv")
	if err != nil {
		return Tables{}, err
	}
	defer causesF.Close()
	causes, err := LoadCauses(causesF)
	if err != nil {
		return Tables{}, err
	}

	csrsF, err := readOne("csrs.csv")
	if err != nil {
		return Tables{}, err
	}
	defer csrsF.Close()
	csrs, err := LoadCSRs(csrsF)
	if err != nil {
		return Tables{}, err
	}

	csrs32F, err := readOne("csrs32.csv")
	if err != nil {
		return Tables{}, err
	}
	defer csrs32F.Close()
	csrs32, err := LoadCSRs(csrs32F)
	if err != nil {
		return Tables{}, err
	}

	return Tables{Causes: causes, CSRs: csrs, CSRsRV32: csrs32}, nil
}

// Regex patterns, compiled once at init rather than per call.
var (
	// RangeToken matches "MSB..LSB=VAL".
	RangeToken = regexp.MustCompile(`^(\d+)\.\.(\d+)=(.+)$`)
	// SingleBitToken matches "POS=VAL" where VAL is 0 or 1 (or any small
	// literal — the width check happens after parsing).
	SingleBitToken = regexp.MustCompile(`^(\d+)=(\w+)$`)
	// AliasToken matches "NEW=OLD" argument-alias installs. encline does
	// not use it: it treats any leftover token containing '=' as an alias
	// install and splits it on the first '='.
	AliasToken = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)=([A-Za-z_][A-Za-z0-9_]*)$`)
)
