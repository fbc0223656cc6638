package mapping

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// minAbbrevLen is the shortest revision abbreviation that is looked up.
// Shorter hex runs are too collision-prone to rewrite.
const minAbbrevLen = 8

// CommitMap translates abbreviated revision ids to canonical ones.
// Every recorded source id is expanded into all of its prefixes of
// length >= minAbbrevLen, so any valid abbreviation resolves.
type CommitMap map[string]string

// LoadCommits reads a whitespace-separated two-column file,
// `target-id source-id` per line, expanding each source id at load
// time.
func LoadCommits(path string) (CommitMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening commit map: %w", err)
	}
	defer f.Close()

	m := make(CommitMap)
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
			return nil, fmt.Errorf("commit map %s:%d: expected 2 columns, got %d", path, lineNo, len(fields))
		}
		m.Add(fields[0], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading commit map: %w", err)
	}
	return m, nil
}

// Add records one target/source pair, expanding the source id into all
// prefixes of length >= minAbbrevLen.
func (m CommitMap) Add(target, source string) {
	source = strings.ToLower(source)
	for l := minAbbrevLen; l <= len(source); l++ {
		m[source[:l]] = target
	}
}

// revisionRef matches a bare revision reference: an optional leading
// `r` marker followed by 8 or more hex digits. Bracketed and otherwise
// decorated forms are deliberately not matched; only strict hex runs
// are rewritten.
var revisionRef = regexp.MustCompile(`\br?[0-9a-fA-F]{8,40}\b`)

// Rewrite replaces every resolvable revision reference in text with its
// canonical id. Lookup lower-cases the token, strips a leading `r`, and
// tries the token then successively shorter prefixes down to
// minAbbrevLen. Unresolvable tokens are left unchanged.
func (m CommitMap) Rewrite(text string) string {
	if len(m) == 0 {
		return text
	}
	return revisionRef.ReplaceAllStringFunc(text, func(tok string) string {
		key := strings.ToLower(strings.TrimPrefix(tok, "r"))
		for l := len(key); l >= minAbbrevLen; l-- {
			if target, ok := m[key[:l]]; ok {
				return target
			}
		}
		return tok
	})
}
