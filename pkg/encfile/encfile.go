// Package encfile implements the file reader (C3): it strips comments
// and blank lines from an encoding file and yields the remaining lines
// paired with the owning filename. Blank/comment stripping is identical
// for all three dictionary-builder passes.
package encfile

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Line is one non-blank, non-comment source line paired with the
// filename it came from.
type Line struct {
	File string // path as resolved on disk
	Text string // trimmed line content
	No   int    // 1-based line number within File, for diagnostics
}

// ReadLines opens path and yields every line whose trimmed content is
// non-empty and does not start with '#'.
func ReadLines(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scanLines(f, path)
}

func scanLines(r io.Reader, file string) ([]Line, error) {
	var out []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		trimmed := strings.TrimSpace(sc.Text())
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		out = append(out, Line{File: file, Text: trimmed, No: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtensionName returns the base filename (no directory, no extension),
// e.g. "unratified/rv_b" -> "rv_b", "rv32_i.txt" -> "rv32_i".
func ExtensionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ResolveGlobs expands a list of glob patterns against root, in input
// order, each pattern's matches sorted in lexicographic descending
// order, and concatenated across patterns. Glob expansion is
// deterministic: descending per pattern, patterns concatenated in
// input order, so the three-pass builder sees a stable file order run
// to run.
func ResolveGlobs(root string, patterns []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, pat := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pat))
		if err != nil {
			return nil, err
		}
		sort.Sort(sort.Reverse(sort.StringSlice(matches)))
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			all = append(all, m)
		}
	}
	return all, nil
}

// FindExtensionFile locates an extension filename referenced by
// $import/$pseudo_op: it searches root first, then root/unratified.
// In each directory "name" is tried first, then "name.txt", since the
// encoding files in the wild ship without an extension; the returned
// path is whichever of the two was found.
func FindExtensionFile(root, name string) (string, bool) {
	for _, dir := range []string{root, filepath.Join(root, "unratified")} {
		for _, candidate := range []string{name, name + ".txt"} {
			p := filepath.Join(dir, candidate)
			if fileExists(p) {
				return p, true
			}
		}
	}
	return "", false
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
