package correct

import (
	"fmt"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Scorer returns the similarity of two lowercase words in [0, 1], where 1
// means identical.
type Scorer func(a, b string) float64

// Scorer names accepted by [ScorerByName].
const (
	ScorerLevenshtein = "levenshtein"
	ScorerJaroWinkler = "jaro-winkler"
)

// LevenshteinRatio scores two words as 1 - distance/maxLen, counting runes so
// accented letters weigh the same as plain ones.
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	n := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if n == 0 {
		return 1
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(n)
}

// JaroWinkler scores two words with the Jaro-Winkler similarity, which
// rewards a shared prefix.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}

// ScorerByName resolves a configured scorer name. The empty string selects
// the Levenshtein ratio.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", ScorerLevenshtein:
		return LevenshteinRatio, nil
	case ScorerJaroWinkler:
		return JaroWinkler, nil
	default:
		return nil, fmt.Errorf("correct: unknown scorer %q (want %q or %q)", name, ScorerLevenshtein, ScorerJaroWinkler)
	}
}
