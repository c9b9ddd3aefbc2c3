package dialog

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wordRegexp matches any of alts as a whole word. Go's \b only knows ASCII
// letters, so "sí" or "olvídalo" need explicit Unicode boundaries.
func wordRegexp(alts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(?:` + strings.Join(alts, "|") + `)(?:[^\p{L}\p{N}]|$)`)
}

var (
	negativeRe = wordRegexp(
		`no`, `nada`, `ya\s+no`, `no\s+quiero`, `no\s+deseo`, `cancelar`, `salir`,
		`mejor\s+no`, `ni\s+modo`, `d[eé]jalo`, `olv[ií]dalo`, `olvida`,
	)
	negativeExactRe = regexp.MustCompile(`(?i)^(?:nop|nel|nope)$`)

	// affirmativeRe is the general acknowledgement used while choosing a room.
	affirmativeRe = wordRegexp(`s[ií]`, `ok`, `vale`, `claro`, `perfecto`, `genial`, `excelente`)

	// confirmRe accepts a reservation or a cancellation.
	confirmRe = wordRegexp(`s[ií]`, `ok`, `vale`, `claro`, `reservar`, `confirmar`, `confirmo`, `adelante`, `proceder`)

	menuExitRe = wordRegexp(`salir`, `ya\s+no`, `terminar`, `cancelar`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`\d{1,2}\s+de\s+\p{L}+`),
		regexp.MustCompile(`enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre`),
		regexp.MustCompile(`lunes|martes|mi[eé]rcoles|jueves|viernes|s[aá]bado|domingo`),
		regexp.MustCompile(`ma[nñ]ana|pasado\s+ma[nñ]ana|pr[oó]xim[oa]|siguiente`),
		regexp.MustCompile(`hoy|ayer`),
		regexp.MustCompile(`\d{1,2}\s*al\s*\d{1,2}`),
		regexp.MustCompile(`del\s+\d{1,2}\s+al\s+\d{1,2}`),
	}

	numberRe     = regexp.MustCompile(`\d+`)
	leadingNumRe = regexp.MustCompile(`^\s*(\d+)`)
	phoneRunRe   = regexp.MustCompile(`[\d\-()+\s]+`)
)

// minPhoneDigits is the shortest accepted contact number.
const minPhoneDigits = 10

func isNegative(text string) bool {
	return negativeRe.MatchString(text) || negativeExactRe.MatchString(strings.TrimSpace(text))
}

func isAffirmative(text string) bool { return affirmativeRe.MatchString(text) }

func isConfirmation(text string) bool { return confirmRe.MatchString(text) }

func isMenuExit(text string) bool { return menuExitRe.MatchString(text) }

// isDate reports whether text mentions a date in any of the accepted forms:
// numeric dates, "15 de enero", month or weekday names, relative terms and
// "15 al 20" style ranges.
func isDate(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range datePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// firstNumber returns the first run of digits in text.
func firstNumber(text string) (string, bool) {
	n := numberRe.FindString(text)
	return n, n != ""
}

// leadingNumber returns the integer that text starts with.
func leadingNumber(text string) (int, bool) {
	m := leadingNumRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n := 0
	for _, r := range m[1] {
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return 0, false
		}
	}
	return n, true
}

// findPhone returns the first run of digits and phone punctuation that holds
// at least minPhoneDigits digits, trimmed of surrounding spaces.
func findPhone(text string) (string, bool) {
	for _, run := range phoneRunRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range run {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits {
			return strings.TrimSpace(run), true
		}
	}
	return "", false
}

// fold lowercases s and strips combining marks so "Alberca Climatizada" and
// "ALBERCA climatizáda" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// titleName capitalises every word of a guest name using Spanish rules. A
// Caser is stateful, so one is built per call.
func titleName(s string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(s))
}
