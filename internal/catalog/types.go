// Package catalog holds the intent catalog consumed by the dialogue engine.
//
// A catalog is an ordered list of [IntentRule] values. Each rule carries a
// unique tag, an ordered list of case-insensitive regular expressions, a list
// of candidate replies and an optional [FollowupSpec] that starts a multi-turn
// sub-dialogue once the reply has been shown.
//
// Catalogs are loaded once from a JSON or YAML file ([Load],
// [LoadFromReader]), validated entry by entry and compiled up front so that
// matching never parses a pattern at turn time. A [Catalog] is immutable
// after construction and safe for concurrent use.
package catalog

import (
	"fmt"
	"regexp"
	"slices"
)

// FollowupKind selects which waiting state the conversation controller enters
// after an intent's reply has been shown.
type FollowupKind string

const (
	FollowupAskName             FollowupKind = "ask_name"
	FollowupAskDates            FollowupKind = "ask_dates"
	FollowupAskRoomNumber       FollowupKind = "ask_room_number"
	FollowupAskRoomNumberCancel FollowupKind = "ask_room_number_cancel"
	FollowupAskRoomEmergency    FollowupKind = "ask_room_emergency"
	FollowupAskLostItem         FollowupKind = "ask_lost_item"
	FollowupOfferMoreInfo       FollowupKind = "offer_more_info"
	FollowupOfferMoreInfoSpa    FollowupKind = "offer_more_info_spa"
)

// IsValid reports whether k is a recognised follow-up kind.
func (k FollowupKind) IsValid() bool {
	switch k {
	case FollowupAskName, FollowupAskDates, FollowupAskRoomNumber,
		FollowupAskRoomNumberCancel, FollowupAskRoomEmergency,
		FollowupAskLostItem, FollowupOfferMoreInfo, FollowupOfferMoreInfoSpa:
		return true
	}
	return false
}

// HasOptions reports whether follow-ups of kind k carry a menu of options.
func (k FollowupKind) HasOptions() bool {
	return k == FollowupOfferMoreInfo || k == FollowupOfferMoreInfoSpa
}

// FollowupSpec is the tagged follow-up descriptor attached to an intent.
// Options is only meaningful for the two "offer more info" kinds.
type FollowupSpec struct {
	Kind    FollowupKind
	Options []string
}

// IntentRule is one compiled catalog entry. Construct it with [NewRule]; the
// zero value matches nothing.
type IntentRule struct {
	// Tag uniquely identifies the intent (e.g. "reserva", "objeto_perdido").
	Tag string

	// Patterns are the source expressions in catalog order.
	Patterns []string

	// Responses are the candidate replies; one is picked at random per match.
	Responses []string

	// Followup is nil when the intent ends with its reply.
	Followup *FollowupSpec

	compiled []*regexp.Regexp
}

// NewRule compiles patterns case-insensitively and returns the resulting rule.
// The slices are copied so later changes by the caller do not leak in.
func NewRule(tag string, patterns, responses []string, followup *FollowupSpec) (IntentRule, error) {
	r := IntentRule{
		Tag:       tag,
		Patterns:  slices.Clone(patterns),
		Responses: slices.Clone(responses),
		compiled:  make([]*regexp.Regexp, 0, len(patterns)),
	}
	if followup != nil {
		r.Followup = &FollowupSpec{Kind: followup.Kind, Options: slices.Clone(followup.Options)}
	}
	for i, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return IntentRule{}, fmt.Errorf("pattern[%d] %q: %w", i, p, err)
		}
		r.compiled = append(r.compiled, re)
	}
	return r, nil
}

// MustRule is like [NewRule] but panics on an invalid pattern. Intended for
// tests and static catalogs.
func MustRule(tag string, patterns, responses []string, followup *FollowupSpec) IntentRule {
	r, err := NewRule(tag, patterns, responses, followup)
	if err != nil {
		panic("catalog: " + tag + ": " + err.Error())
	}
	return r
}

// Matches reports whether any of the rule's patterns occurs anywhere in text.
// Patterns are tried in order and the scan stops at the first hit.
func (r *IntentRule) Matches(text string) bool {
	for _, re := range r.compiled {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Catalog is an ordered, immutable collection of intent rules.
type Catalog struct {
	rules []IntentRule
	index map[string]int
}

// New builds a catalog from rules in the given order. Later rules with a tag
// already present are ignored.
func New(rules ...IntentRule) *Catalog {
	c := &Catalog{
		rules: make([]IntentRule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if _, dup := c.index[r.Tag]; dup {
			continue
		}
		c.index[r.Tag] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	return c
}

// Rules returns the rules in catalog order. The returned slice must not be
// modified.
func (c *Catalog) Rules() []IntentRule {
	if c == nil {
		return nil
	}
	return c.rules
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Lookup returns the rule with the given tag.
func (c *Catalog) Lookup(tag string) (IntentRule, bool) {
	if c == nil {
		return IntentRule{}, false
	}
	i, ok := c.index[tag]
	if !ok {
		return IntentRule{}, false
	}
	return c.rules[i], true
}

// Tags returns every tag in catalog order.
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, c.Len())
	for _, r := range c.Rules() {
		tags = append(tags, r.Tag)
	}
	return tags
}
