// Package mapping loads the caller-supplied lookup tables used during
// an import run: the identity map (source handle -> target handle) and
// the commit map (abbreviated revision -> canonical revision). Both are
// loaded once at startup and never mutated afterwards.
package mapping

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// IdentityMap translates source-tracker user handles to target-system
// handles.
type IdentityMap map[string]string

// LoadIdentities reads a whitespace-separated two-column file,
// `target-handle source-handle` per line. Blank lines and lines
// starting with # are skipped; any other malformed line is an error.
func LoadIdentities(path string) (IdentityMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identity map: %w", err)
	}
	defer f.Close()

	m := make(IdentityMap)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("identity map %s:%d: expected 2 columns, got %d", path, lineNo, len(fields))
		}
		m[fields[1]] = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading identity map: %w", err)
	}
	return m, nil
}

// Lookup returns the target handle for a source handle.
func (m IdentityMap) Lookup(source string) (string, bool) {
	target, ok := m[source]
	return target, ok
}
