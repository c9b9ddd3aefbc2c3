// Package dialog implements the hotel front-desk conversation controller.
//
// An [Engine] bundles everything that is shared and immutable: the compiled
// catalog, the corrector built from the catalog's lexicon, the classifier and
// the randomness source. Each conversation gets its own [Session], which owns
// the current [State] and the slot [Context] and serialises its turns behind
// its own mutex, so unrelated conversations never block each other.
//
// A turn runs the raw line through the corrector, then either hands the
// corrected text to the active state's handler or, when idle, classifies it,
// answers with one of the intent's replies and starts the intent's follow-up.
// Input problems are never errors: the handler re-prompts and keeps its state.
package dialog

import (
	"slices"
	"time"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/correct"
	"github.com/MrWong99/paraiso/internal/intent"
	"github.com/MrWong99/paraiso/internal/observe"
)

// Tags that switch to reservation-aware handling once a reservation exists.
const (
	TagManageReservation  = "gestion_reserva"
	TagCancellationPolicy = "politica_cancelacion"
)

// DefaultMenuReservedTags returns the tags that never break out of the
// information menus.
func DefaultMenuReservedTags() []string {
	return []string{"informacion_servicios", "spa"}
}

// DefaultHistoryLimit caps the transition history kept per session.
const DefaultHistoryLimit = 100

// Option is a functional option for configuring an [Engine].
type Option func(*Engine)

// WithCorrectorOptions forwards options to the corrector the engine builds.
func WithCorrectorOptions(opts ...correct.Option) Option {
	return func(e *Engine) {
		e.correctOpts = append(e.correctOpts, opts...)
	}
}

// WithPriorityTags sets the classifier's tie-breaking order.
func WithPriorityTags(tags ...string) Option {
	return func(e *Engine) {
		e.classifyOpts = append(e.classifyOpts, intent.WithPriorityTags(tags...))
	}
}

// WithMenuReservedTags replaces the tags that keep the general information
// menu open when they match.
func WithMenuReservedTags(tags ...string) Option {
	return func(e *Engine) {
		e.menuReserved = slices.Clone(tags)
	}
}

// WithRand injects the randomness source. Default: math/rand/v2.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rand = r
		}
	}
}

// WithMetrics sets the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithHistoryLimit caps each session's transition history. Default: 100.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

// WithClock overrides the time source used for transition timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine is the immutable, shareable part of the dialogue system. Build one
// per catalog and create a [Session] per conversation.
type Engine struct {
	catalog    *catalog.Catalog
	corrector  *correct.Corrector
	classifier *intent.Classifier

	menuReserved []string
	rand         Rand
	metrics      *observe.Metrics
	historyLimit int
	now          func() time.Time

	correctOpts  []correct.Option
	classifyOpts []intent.Option
}

// NewEngine builds an engine over cat. A nil or empty catalog is valid: every
// idle turn is then answered with the "didn't understand" reply.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		cat = catalog.New()
	}
	e := &Engine{
		catalog:      cat,
		menuReserved: DefaultMenuReservedTags(),
		rand:         globalRand{},
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	e.corrector = correct.New(catalog.BuildLexicon(cat.Rules()), e.correctOpts...)
	e.classifier = intent.New(cat, e.classifyOpts...)
	return e
}

// Catalog returns the catalog the engine was built from.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Corrector returns the engine's corrector.
func (e *Engine) Corrector() *correct.Corrector { return e.corrector }

// Classifier returns the engine's classifier.
func (e *Engine) Classifier() *intent.Classifier { return e.classifier }

// NewSession starts a conversation in [StateIdle] with an empty context.
func (e *Engine) NewSession() *Session {
	return &Session{
		engine: e,
		state:  StateIdle,
		ctx:    newContext(),
	}
}
