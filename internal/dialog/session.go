package dialog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/observe"
)

// Transition is one recorded state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// Session is one conversation. All methods are safe for concurrent use; turns
// of the same session are processed one at a time.
type Session struct {
	engine *Engine

	mu      sync.Mutex
	state   State
	ctx     Context
	menuTag string // tag of the intent that opened the active menu
	history []Transition
}

// turn accumulates the output of a single Respond call.
type turn struct {
	raw   string // trimmed input as typed
	text  string // corrected input
	tag   string // matched intent, if the classifier ran
	lines []string
}

func (t *turn) say(lines ...string) { t.lines = append(t.lines, lines...) }

func (t *turn) sayf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Engine returns the engine the session was created from.
func (s *Session) Engine() *Engine { return s.engine }

// State returns the active state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Context returns a snapshot of the session's slots.
func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx.clone()
}

// History returns a copy of the recorded transitions, oldest first.
func (s *Session) History() []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Respond processes one line of user input and returns the reply lines. It
// always returns at least one line.
func (s *Session) Respond(ctx context.Context, raw string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.engine
	start := time.Now()
	from := s.state

	ctx, span := observe.StartSpan(ctx, "dialog.turn")
	defer span.End()

	text, corrections := e.corrector.Correct(raw)
	for _, c := range corrections {
		e.metrics.RecordCorrection(ctx, string(c.Method))
	}

	t := &turn{raw: strings.TrimSpace(raw), text: text}
	s.process(ctx, t)
	if len(t.lines) == 0 {
		t.say(msgNotUnderstood)
	}

	span.SetAttributes(
		attribute.String("dialog.state.from", string(from)),
		attribute.String("dialog.state.to", string(s.state)),
		attribute.String("dialog.intent", t.tag),
		attribute.Int("dialog.corrections", len(corrections)),
	)
	e.metrics.RecordTurn(ctx, string(from), time.Since(start))
	observe.Logger(ctx).Debug("dialog turn",
		"from", from,
		"to", s.state,
		"tag", t.tag,
		"corrected", t.text,
	)
	return t.lines
}

// process runs one turn. A waiting state gets the first look at the text; if
// its handler declines (only the general information menu does, after it has
// already returned to idle) the text is classified as a fresh idle turn. The
// idle path never calls a state handler, so re-dispatch happens at most once.
func (s *Session) process(ctx context.Context, t *turn) {
	if s.state != StateIdle {
		if s.handle(ctx, t) {
			return
		}
	}
	s.idle(ctx, t)
}

// idle classifies the text and answers it.
func (s *Session) idle(ctx context.Context, t *turn) {
	e := s.engine

	rule, ok := e.classifier.Match(t.text)
	if !ok {
		e.metrics.RecordIntent(ctx, "")
		t.say(msgNotUnderstood)
		return
	}
	t.tag = rule.Tag
	e.metrics.RecordIntent(ctx, rule.Tag)

	if code, has := s.ctx.Get(KeyReservation); has {
		switch rule.Tag {
		case TagManageReservation:
			t.sayf(msgEditAsk, code)
			s.transition(ctx, StateAwaitingReservationEdit)
			return
		case TagCancellationPolicy:
			t.sayf(msgCancelAsk, code)
			s.transition(ctx, StateAwaitingCancelConfirm)
			return
		}
	}

	if len(rule.Responses) > 0 {
		t.say(rule.Responses[e.rand.IntN(len(rule.Responses))])
	}
	s.followup(ctx, t, rule)
}

// followup applies the rule's follow-up, if any.
func (s *Session) followup(ctx context.Context, t *turn, rule *catalog.IntentRule) {
	step, ok := PlanFollowup(rule.Followup)
	if !ok {
		return
	}
	t.say(step.Prompts...)
	if step.OptionsKey != "" {
		s.ctx.setOptions(step.OptionsKey, step.Options)
		s.menuTag = rule.Tag
	}
	s.transition(ctx, step.Target)
}

// transition moves to state to, recording history and metrics when the state
// actually changes.
func (s *Session) transition(ctx context.Context, to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	s.engine.metrics.RecordTransition(ctx, string(from), string(to))

	limit := s.engine.historyLimit
	if len(s.history) >= limit {
		evict := max(limit/10, 1)
		s.history = slices.Delete(s.history, 0, min(evict, len(s.history)))
	}
	s.history = append(s.history, Transition{From: from, To: to, At: s.engine.now()})
}

// reservation returns the stored reservation code or "N/A".
func (s *Session) reservation() string {
	if code, ok := s.ctx.Get(KeyReservation); ok {
		return code
	}
	return "N/A"
}
