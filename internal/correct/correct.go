// Package correct repairs typos and chat slang in one line of user input
// before it reaches the intent classifier or a dialogue state handler.
//
// Every whitespace-separated token is handled on its own:
//
//  1. Slang lookup: the lowercased token is replaced by its entry in the slang
//     table ("zi" → "sí", "okey" → "ok").
//  2. Fuzzy lookup: otherwise the lexicon word with the highest similarity
//     score at or above the threshold replaces the token.
//  3. Otherwise the token is kept verbatim, original case included.
//
// Tokens are re-joined with single spaces. A [Corrector] is read-only after
// construction and safe for concurrent use.
package correct

import (
	"maps"
	"strings"

	"github.com/MrWong99/paraiso/internal/catalog"
)

const (
	// DefaultThreshold is the permissive similarity cut-off.
	DefaultThreshold = 0.6

	// StrictThreshold is the stricter profile that only fixes near-misses.
	StrictThreshold = 0.8
)

// DefaultSlang returns a fresh copy of the built-in slang table.
func DefaultSlang() map[string]string {
	return map[string]string{
		"zi":   "sí",
		"si":   "sí",
		"sip":  "sí",
		"okey": "ok",
		"nop":  "no",
		"nope": "no",
		"nel":  "no",
	}
}

// Method records which stage produced a [Correction].
type Method string

const (
	MethodSlang Method = "slang"
	MethodFuzzy Method = "fuzzy"
)

// Correction describes a single token substitution.
type Correction struct {
	// Original is the token as typed.
	Original string

	// Corrected is the replacement written into the output.
	Corrected string

	// Score is the similarity that selected Corrected. Slang substitutions
	// always score 1.
	Score float64

	Method Method
}

// Option is a functional option for configuring a [Corrector].
type Option func(*Corrector)

// WithThreshold sets the minimum similarity a lexicon word must reach to
// replace a token. Values outside (0, 1] are ignored. Default: 0.6.
func WithThreshold(t float64) Option {
	return func(c *Corrector) {
		if t > 0 && t <= 1 {
			c.threshold = t
		}
	}
}

// WithScorer replaces the similarity function. Default: [LevenshteinRatio].
func WithScorer(s Scorer) Option {
	return func(c *Corrector) {
		if s != nil {
			c.score = s
		}
	}
}

// WithSlang merges extra entries into the slang table. Keys are lowercased;
// an entry for an existing key overrides the built-in mapping.
func WithSlang(table map[string]string) Option {
	return func(c *Corrector) {
		for k, v := range table {
			c.slang[strings.ToLower(k)] = v
		}
	}
}

// Corrector normalizes user input against a fixed [catalog.Lexicon].
type Corrector struct {
	lexicon   *catalog.Lexicon
	slang     map[string]string
	threshold float64
	score     Scorer
}

// New returns a Corrector for lexicon. A nil lexicon disables fuzzy lookup.
func New(lexicon *catalog.Lexicon, opts ...Option) *Corrector {
	c := &Corrector{
		lexicon:   lexicon,
		slang:     DefaultSlang(),
		threshold: DefaultThreshold,
		score:     LevenshteinRatio,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Threshold returns the configured similarity cut-off.
func (c *Corrector) Threshold() float64 { return c.threshold }

// Slang returns a copy of the effective slang table.
func (c *Corrector) Slang() map[string]string { return maps.Clone(c.slang) }

// Normalize returns the corrected form of text.
func (c *Corrector) Normalize(text string) string {
	out, _ := c.Correct(text)
	return out
}

// Correct returns the corrected form of text together with every token that
// changed. Tokens whose only change is letter case are not reported.
func (c *Corrector) Correct(text string) (string, []Correction) {
	tokens := strings.Fields(text)
	var corrections []Correction

	for i, tok := range tokens {
		lower := strings.ToLower(tok)

		if repl, ok := c.slang[lower]; ok {
			tokens[i] = repl
			if repl != tok {
				corrections = append(corrections, Correction{Original: tok, Corrected: repl, Score: 1, Method: MethodSlang})
			}
			continue
		}

		word, score, ok := c.closest(lower)
		if !ok {
			continue
		}
		tokens[i] = word
		if word != lower {
			corrections = append(corrections, Correction{Original: tok, Corrected: word, Score: score, Method: MethodFuzzy})
		}
	}

	return strings.Join(tokens, " "), corrections
}

// closest returns the best-scoring lexicon word for w. Ties keep the word
// that sorts first, which makes the result independent of catalog order.
func (c *Corrector) closest(w string) (string, float64, bool) {
	if c.lexicon.Contains(w) {
		return w, 1, true
	}

	var (
		best      string
		bestScore float64
	)
	for _, cand := range c.lexicon.Words() {
		s := c.score(w, cand)
		if s >= c.threshold && s > bestScore {
			best, bestScore = cand, s
		}
	}
	return best, bestScore, best != ""
}
