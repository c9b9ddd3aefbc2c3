package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/MrWong99/paraiso/internal/catalog"
)

func TestBuildLexicon(t *testing.T) {
	t.Parallel()

	rules := []catalog.IntentRule{
		catalog.MustRule("reserva", []string{"Quiero reservar", "reservar habitacion", `d[ií]as?`}, []string{"x"}, nil),
		catalog.MustRule("spa", []string{"spa", "masaje (relajante)?", "quiero spa"}, []string{"x"}, nil),
	}
	lex := catalog.BuildLexicon(rules)

	want := []string{"habitacion", "masaje", "quiero", "reservar", "spa"}
	if diff := cmp.Diff(want, lex.Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	if !lex.Contains("spa") || lex.Contains("d[ií]as?") {
		t.Error("Contains mismatch")
	}
	if lex.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", lex.Len(), len(want))
	}
}

func TestNewLexicon_NormalisesWords(t *testing.T) {
	t.Parallel()

	lex := catalog.NewLexicon("Hola", "hola", " ", "Adiós")
	if diff := cmp.Diff([]string{"adiós", "hola"}, lex.Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}

	var nilLex *catalog.Lexicon
	if nilLex.Len() != 0 || nilLex.Contains("hola") || nilLex.Words() != nil {
		t.Error("nil lexicon should behave as empty")
	}
}
