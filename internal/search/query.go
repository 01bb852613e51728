// Package search ranks the paths of a tree against a query typed in the
// browser.
//
// A query is a list of space-separated terms that must all hold. A bare term
// matches fuzzily and contributes to the ranking. Operators turn a term into
// an exact filter:
//
//	^src     path starts with src
//	.go$     path ends with .go
//	'util    util starts a word
//	'util'   util is a whole word
//	!test    path does not contain test (combines with the operators above)
//
// Matching is case-insensitive.
package search

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

type term struct {
	raw        string
	text       string // lower-cased text without operators
	head       bool   // ^text
	tail       bool   // text$
	wordPrefix bool   // 'text
	wordExact  bool   // 'text'
	negate     bool   // !text
}

// exact reports whether t filters instead of ranking.
func (t term) exact() bool {
	return t.head || t.tail || t.wordPrefix || t.wordExact || t.negate
}

// Query is a parsed search.
type Query struct {
	filters []term
	fuzzy   []string
}

// Parse reads a query. It fails on a term that is only operators.
func Parse(s string) (Query, error) {
	var q Query
	for _, raw := range strings.Fields(s) {
		t, err := parseTerm(raw)
		if err != nil {
			return Query{}, err
		}
		if t.exact() {
			q.filters = append(q.filters, t)
		} else {
			q.fuzzy = append(q.fuzzy, t.text)
		}
	}
	return q, nil
}

func parseTerm(raw string) (term, error) {
	t := term{raw: raw}
	p := raw

	if strings.HasPrefix(p, "!") {
		t.negate = true
		p = p[1:]
	}
	if strings.HasPrefix(p, "'") {
		p = p[1:]
		if len(p) > 1 && strings.HasSuffix(p, "'") {
			t.wordExact = true
			p = p[:len(p)-1]
		} else {
			t.wordPrefix = true
		}
	}
	if strings.HasPrefix(p, "^") {
		t.head = true
		p = p[1:]
	}
	if strings.HasSuffix(p, "$") {
		t.tail = true
		p = p[:len(p)-1]
	}
	if p == "" {
		return term{}, fmt.Errorf("empty search term %q", raw)
	}

	t.text = strings.ToLower(p)
	return t, nil
}

// Empty reports whether q has no terms.
func (q Query) Empty() bool {
	return len(q.filters) == 0 && len(q.fuzzy) == 0
}

// Rank returns the paths that satisfy q, best match first. Paths that score
// the same keep the shorter one first, then their input order.
func (q Query) Rank(paths []string) []string {
	if q.Empty() {
		return nil
	}

	var kept []string
	for _, p := range paths {
		if q.keep(p) {
			kept = append(kept, p)
		}
	}

	type ranked struct {
		path  string
		score int
		order int
	}
	scores := make([]ranked, len(kept))
	alive := make([]bool, len(kept))
	for i, p := range kept {
		scores[i] = ranked{path: p, order: i}
		alive[i] = true
	}

	// every fuzzy term must match; scores add up
	for _, f := range q.fuzzy {
		hit := make([]bool, len(kept))
		for _, m := range fuzzy.Find(f, lowered(kept)) {
			hit[m.Index] = true
			scores[m.Index].score += m.Score
		}
		for i := range alive {
			alive[i] = alive[i] && hit[i]
		}
	}

	var out []ranked
	for i, r := range scores {
		if alive[i] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if len(a.path) != len(b.path) {
			return len(a.path) < len(b.path)
		}
		return a.order < b.order
	})

	result := make([]string, len(out))
	for i, r := range out {
		result[i] = r.path
	}
	return result
}

// Best returns the top ranked path for the query s, or "" when none matches.
func Best(s string, paths []string) (string, error) {
	q, err := Parse(s)
	if err != nil {
		return "", err
	}
	if ranked := q.Rank(paths); len(ranked) > 0 {
		return ranked[0], nil
	}
	return "", nil
}

func lowered(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = strings.ToLower(p)
	}
	return out
}

// keep applies the exact terms to path.
func (q Query) keep(path string) bool {
	lower := strings.ToLower(path)
	for _, t := range q.filters {
		if t.matches(lower) == t.negate {
			return false
		}
	}
	return true
}

// matches tests t against a lower-cased path, ignoring negation.
func (t term) matches(path string) bool {
	if t.head && t.tail && !t.wordExact && !t.wordPrefix {
		return path == t.text
	}

	region := path
	if t.head {
		if !strings.HasPrefix(path, t.text) {
			return false
		}
		region = path[:len(t.text)]
	}
	if t.tail {
		if !strings.HasSuffix(path, t.text) {
			return false
		}
		region = path[len(path)-len(t.text):]
	}

	switch {
	case t.wordExact:
		return findWord(region, t.text, true)
	case t.wordPrefix:
		return findWord(region, t.text, false)
	}
	return strings.Contains(region, t.text)
}

// findWord reports whether needle occurs in s starting at a word boundary,
// and, when both is set, also ending at one.
func findWord(s, needle string, both bool) bool {
	for start := 0; start+len(needle) <= len(s); {
		rel := strings.Index(s[start:], needle)
		if rel < 0 {
			return false
		}
		i := start + rel
		left := i == 0 || !isWordByte(s[i-1])
		right := i+len(needle) == len(s) || !isWordByte(s[i+len(needle)])
		if left && (!both || right) {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
