package dialog_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/MrWong99/paraiso/internal/catalog"
	"github.com/MrWong99/paraiso/internal/dialog"
	"github.com/MrWong99/paraiso/internal/observe"
)

// seqRand replays a fixed sequence of values, reduced modulo n.
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) IntN(n int) int {
	if len(r.vals) == 0 {
		return 0
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func followup(kind catalog.FollowupKind, options ...string) *catalog.FollowupSpec {
	return &catalog.FollowupSpec{Kind: kind, Options: options}
}

// hotelCatalog mirrors the shape of the shipped catalog with single-reply
// intents so scenario output is predictable.
func hotelCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.MustRule("saludo", []string{"hola", "buen(os|as) (d[ií]as|tardes|noches)"},
			[]string{"¡Hola! Bienvenido al Hotel Paraíso."}, nil),
		catalog.MustRule("presentacion", []string{"quien eres", "c[oó]mo te llamas"},
			[]string{"Soy el asistente virtual del Hotel Paraíso."}, followup(catalog.FollowupAskName)),
		catalog.MustRule("disponibilidad", []string{"disponibilidad", "reservar", "habitaci[oó]n libre"},
			[]string{"Con gusto reviso la disponibilidad."}, followup(catalog.FollowupAskDates)),
		catalog.MustRule("gestion_reserva", []string{"modificar mi reserva", "cambiar mi reserva"},
			[]string{"Aún no tienes una reserva registrada."}, nil),
		catalog.MustRule("politica_cancelacion", []string{"pol[ií]tica de cancelaci[oó]n", "cancelar (mi|la) reserva"},
			[]string{"Puedes cancelar sin costo hasta 48 horas antes."}, nil),
		catalog.MustRule("problema_habitacion", []string{"no funciona", "descompuest[oa]", "fuga"},
			[]string{"Lamento el inconveniente."}, followup(catalog.FollowupAskRoomNumber)),
		catalog.MustRule("emergencia_medica", []string{"m[eé]dico", "emergencia", "ambulancia"},
			[]string{"Mantén la calma, vamos a ayudarte."}, followup(catalog.FollowupAskRoomEmergency)),
		catalog.MustRule("objeto_perdido", []string{"perd[ií]", "olvid[eé]"},
			[]string{"Lamento que hayas perdido algo."}, followup(catalog.FollowupAskLostItem)),
		catalog.MustRule("cancelar_servicio", []string{"cancelar (el )?servicio"},
			[]string{"Puedo cancelar el servicio programado."}, followup(catalog.FollowupAskRoomNumberCancel)),
		catalog.MustRule("informacion_servicios", []string{"servicios", "instalaciones"},
			[]string{"Contamos con varias instalaciones."},
			followup(catalog.FollowupOfferMoreInfo, "Desayuno", "Gimnasio", "Alberca", "WiFi")),
		catalog.MustRule("spa", []string{"spa", "masaje"},
			[]string{"Nuestro spa te espera."},
			followup(catalog.FollowupOfferMoreInfoSpa, "Masaje relajante", "Facial", "Sauna")),
		catalog.MustRule("despedida", []string{"adi[oó]s", "hasta luego"},
			[]string{"¡Hasta pronto!"}, nil),
	)
}

// testMetrics returns metrics bound to a no-op provider so tests do not share
// the global instruments.
func testMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	m, err := observe.NewMetrics(noop.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

func newEngine(t *testing.T, opts ...dialog.Option) *dialog.Engine {
	t.Helper()
	base := []dialog.Option{
		dialog.WithRand(&seqRand{vals: []int{234}}),
		dialog.WithMetrics(testMetrics(t)),
	}
	return dialog.NewEngine(hotelCatalog(), append(base, opts...)...)
}

// say sends one line and fails the test if the reply is empty or the state
// is undefined.
func say(t *testing.T, s *dialog.Session, line string) []string {
	t.Helper()
	out := s.Respond(context.Background(), line)
	if len(out) == 0 {
		t.Fatalf("Respond(%q) returned no lines", line)
	}
	if !s.State().IsValid() {
		t.Fatalf("Respond(%q) left invalid state %q", line, s.State())
	}
	return out
}

func wantState(t *testing.T, s *dialog.Session, want dialog.State) {
	t.Helper()
	if got := s.State(); got != want {
		t.Fatalf("state = %q, want %q", got, want)
	}
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
