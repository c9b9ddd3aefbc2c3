package catalog

import (
	"slices"
	"strings"
)

// regexMeta lists the characters that make a pattern token non-literal.
const regexMeta = `\.+*?()|[]{}^$`

// Lexicon is the set of known vocabulary words derived from a catalog's
// literal pattern tokens. It is immutable after [BuildLexicon] returns.
type Lexicon struct {
	words []string
	set   map[string]struct{}
}

// BuildLexicon collects every whitespace-separated, lowercased pattern token
// that contains no regular-expression syntax. Duplicates are removed and the
// words are kept sorted so fuzzy lookups are deterministic.
func BuildLexicon(rules []IntentRule) *Lexicon {
	set := make(map[string]struct{})
	for _, r := range rules {
		for _, p := range r.Patterns {
			for _, tok := range strings.Fields(strings.ToLower(p)) {
				if strings.ContainsAny(tok, regexMeta) {
					continue
				}
				set[tok] = struct{}{}
			}
		}
	}
	return NewLexicon(keys(set)...)
}

// NewLexicon builds a lexicon from explicit words. Words are lowercased.
func NewLexicon(words ...string) *Lexicon {
	l := &Lexicon{set: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := l.set[w]; ok {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	slices.Sort(l.words)
	return l
}

// Words returns the sorted vocabulary. The returned slice must not be modified.
func (l *Lexicon) Words() []string {
	if l == nil {
		return nil
	}
	return l.words
}

// Contains reports whether w (already lowercased) is a known word.
func (l *Lexicon) Contains(w string) bool {
	if l == nil {
		return false
	}
	_, ok := l.set[w]
	return ok
}

// Len returns the vocabulary size.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
