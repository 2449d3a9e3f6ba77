// Package match decides which catalog building, if any, a typed guess names.
//
// Matching runs in three phases over the whole catalog, first hit wins:
// exact canonical name, exact alias, then a length-gated fuzzy comparison
// using Distance. Input is NFKC-normalized, trimmed and lowercased first.
package match

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/playperu/campusguessr/internal/campus"
)

const (
	// FuzzyMinRunes is the shortest input that is compared fuzzily.
	FuzzyMinRunes = 7
	// RunesPerEdit sets the fuzzy allowance: one edit per this many runes.
	RunesPerEdit = 5
)

type Kind int

const (
	KindExact Kind = iota + 1
	KindAlias
	KindFuzzy
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindAlias:
		return "alias"
	case KindFuzzy:
		return "fuzzy"
	default:
		return "none"
	}
}

// Result describes a successful match. Distance is zero for exact and
// alias hits.
type Result struct {
	Building campus.Building
	Kind     Kind
	Distance int
}

type entry struct {
	name    string
	aliases []string
}

// Matcher is safe for concurrent use; it only reads the catalog.
type Matcher struct {
	catalog *campus.Catalog
	entries []entry
	exact   map[string]int
	alias   map[string]int
}

func New(catalog *campus.Catalog) *Matcher {
	m := &Matcher{
		catalog: catalog,
		entries: make([]entry, catalog.Len()),
		exact:   make(map[string]int, catalog.Len()),
		alias:   make(map[string]int),
	}

	for i := range catalog.Len() {
		b := catalog.At(i)
		e := entry{name: Normalize(b.Name)}
		for _, a := range catalog.Aliases(b.Name) {
			a = Normalize(a)
			e.aliases = append(e.aliases, a)
			// Shared aliases resolve to the first building in catalog order.
			if _, ok := m.alias[a]; !ok {
				m.alias[a] = i
			}
		}
		m.entries[i] = e
		if _, ok := m.exact[e.name]; !ok {
			m.exact[e.name] = i
		}
	}
	return m
}

// Normalize folds compatibility forms, trims surrounding space and lowercases.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(s)))
}

// Allowance is the largest edit distance accepted for a normalized input,
// or -1 when the input is too short for fuzzy matching.
func Allowance(normalized string) int {
	n := utf8.RuneCountInString(normalized)
	if n < FuzzyMinRunes {
		return -1
	}
	return n / RunesPerEdit
}

// Match reports the building the input refers to. It never fails: empty or
// unrecognized input simply yields false.
func (m *Matcher) Match(input string) (Result, bool) {
	q := Normalize(input)
	if q == "" {
		return Result{}, false
	}

	if i, ok := m.exact[q]; ok {
		return Result{Building: m.catalog.At(i), Kind: KindExact}, true
	}
	if i, ok := m.alias[q]; ok {
		return Result{Building: m.catalog.At(i), Kind: KindAlias}, true
	}

	allowance := Allowance(q)
	if allowance < 0 {
		return Result{}, false
	}

	qLen := utf8.RuneCountInString(q)
	best, bestDist := -1, allowance+1
	for i, e := range m.entries {
		for _, cand := range append([]string{e.name}, e.aliases...) {
			if abs(utf8.RuneCountInString(cand)-qLen) >= bestDist {
				continue
			}
			if d := Distance(q, cand); d < bestDist {
				best, bestDist = i, d
			}
		}
	}
	if best < 0 {
		return Result{}, false
	}
	return Result{Building: m.catalog.At(best), Kind: KindFuzzy, Distance: bestDist}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
