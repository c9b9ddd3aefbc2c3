package dialog

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/observe"
)

func quietEngine(t *testing.T) *Engine {
	t.Helper()
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatal(err)
	}
	cat := catalog.New(
		catalog.MustRule("emergencia_medica", []string{"emergencia"}, []string{"Ayuda en camino."},
			&catalog.FollowupSpec{Kind: catalog.FollowupAskRoomEmergency}),
	)
	return NewEngine(cat, WithMetrics(m))
}

// Every state must answer every kind of input and land in a declared state.
func TestEveryStateAnswers(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "no", "???", "1", "sí", "habitación 12", "emergencia", "5512345678"}
	for _, st := range AllStates() {
		for _, in := range inputs {
			s := quietEngine(t).NewSession()
			s.state = st
			s.ctx.setOptions(KeyExtraOptions, []string{"Desayuno"})
			s.ctx.setOptions(KeyExtraOptionsSpa, []string{"Sauna"})

			out := s.Respond(context.Background(), in)
			if len(out) == 0 {
				t.Errorf("%s/%q: no reply", st, in)
			}
			if !s.State().IsValid() {
				t.Errorf("%s/%q: invalid state %q", st, in, s.State())
			}
		}
	}
}

func TestUnknownStateResets(t *testing.T) {
	t.Parallel()

	s := quietEngine(t).NewSession()
	s.state = State("awaiting_shoe_size")

	out := s.Respond(context.Background(), "hola")
	if len(out) != 1 || out[0] != msgUnknownStateReset {
		t.Errorf("reply = %q", out)
	}
	if s.State() != StateIdle {
		t.Errorf("state = %q, want idle", s.State())
	}
}

func TestCancelConfirmWithoutReservation(t *testing.T) {
	t.Parallel()

	s := quietEngine(t).NewSession()
	s.state = StateAwaitingCancelConfirm

	out := s.Respond(context.Background(), "sí")
	if out[0] != "Tu reserva N/A ha sido cancelada. Esperamos verte pronto." {
		t.Errorf("reply = %q", out)
	}
}

func TestEmptyNameReprompts(t *testing.T) {
	t.Parallel()

	s := quietEngine(t).NewSession()
	s.state = StateAwaitingName

	out := s.Respond(context.Background(), "   ")
	if len(out) != 1 || out[0] != msgAskName {
		t.Errorf("reply = %q", out)
	}
	if s.State() != StateAwaitingName {
		t.Errorf("state = %q", s.State())
	}
}
