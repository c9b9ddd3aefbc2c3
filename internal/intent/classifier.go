// Package intent maps corrected user text to a catalog intent.
//
// Every rule whose patterns hit the text is collected in catalog order. When
// more than one rule matched, the first tag from the priority list that
// appears among the matches wins, so a medical emergency mentioned in passing
// is never answered with the greeting that happened to be listed first.
// Without a priority hit the earliest catalog match is returned.
package intent

import (
	"slices"

	"github.com/MrWong99/paraiso/internal/catalog"
)

// DefaultPriorityTags returns the built-in tie-breaking order.
func DefaultPriorityTags() []string {
	return []string{"problema_habitacion", "emergencia_medica", "objeto_perdido", "asistencia_general"}
}

// Option is a functional option for configuring a [Classifier].
type Option func(*Classifier)

// WithPriorityTags replaces the tie-breaking order. An empty list disables
// priority resolution so the first catalog match always wins.
func WithPriorityTags(tags ...string) Option {
	return func(c *Classifier) {
		c.priority = slices.Clone(tags)
	}
}

// Classifier is read-only after construction and safe for concurrent use.
type Classifier struct {
	catalog  *catalog.Catalog
	priority []string
}

// New returns a Classifier over cat.
func New(cat *catalog.Catalog, opts ...Option) *Classifier {
	c := &Classifier{
		catalog:  cat,
		priority: DefaultPriorityTags(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// PriorityTags returns a copy of the tie-breaking order.
func (c *Classifier) PriorityTags() []string { return slices.Clone(c.priority) }

// Matches returns every rule that matches text, in catalog order, at most once
// per rule.
func (c *Classifier) Matches(text string) []*catalog.IntentRule {
	rules := c.catalog.Rules()
	var matched []*catalog.IntentRule
	for i := range rules {
		if rules[i].Matches(text) {
			matched = append(matched, &rules[i])
		}
	}
	return matched
}

// Match returns the rule that answers text, or false when nothing matched.
func (c *Classifier) Match(text string) (*catalog.IntentRule, bool) {
	matched := c.Matches(text)
	if len(matched) == 0 {
		return nil, false
	}
	return Resolve(matched, c.priority), true
}

// Resolve picks the winner among matched rules: the first rule carrying the
// earliest priority tag, else matched[0]. matched must not be empty.
func Resolve(matched []*catalog.IntentRule, priority []string) *catalog.IntentRule {
	for _, tag := range priority {
		for _, r := range matched {
			if r.Tag == tag {
				return r
			}
		}
	}
	return matched[0]
}
