package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Indonesian free-text number parsing. Spoken and typed rupiah amounts mix
// digit words, decimal commas, thousands dots and magnitude suffixes
// ("1.5jt", "250rb", "dua koma lima juta"), so parsing is layered: explicit
// "koma" handling first, then a general word/number converter, then a
// digit-strip fallback. ParseAmount and ParseQuantity are total functions:
// malformed input yields 0, never an error.

var (
	thousandsSepRe = regexp.MustCompile(`(\d)[.,](\d{3})([^0-9]|$)`)
	decimalCommaRe = regexp.MustCompile(`(\d),(\d)`)
	plainNumberRe  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	decimalFindRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	digitRe        = regexp.MustCompile(`\d`)
	nonDigitRe     = regexp.MustCompile(`\D+`)
	tokenCleanRe   = regexp.MustCompile(`[^a-z0-9\s,.]+`)

	// attached and standalone magnitude abbreviations: 250rb, 1.5jt, 2k
	attachedAbbrevRe   = regexp.MustCompile(`(\d(?:[.,]\d+)?)\s*(jt|rb|k|m|t)\b`)
	standaloneAbbrevRe = regexp.MustCompile(`\b(jt|rb|milyar|milyard|mlyr)\b`)

	literalDecimalRe = regexp.MustCompile(`^(\d+)\.(\d+)\s*(juta|ribu|miliar|triliun)?$`)
	noSpaceScaleRe   = regexp.MustCompile(`^(\d+)\s*(juta|ribu|miliar|triliun)$`)
	komaSplitRe      = regexp.MustCompile(`\b(?:koma|titik)\b`)
	alnumTokenRe     = regexp.MustCompile(`[a-z0-9]+`)
)

var digitWords = map[string]int64{
	"nol": 0, "kosong": 0,
	"satu": 1, "se": 1,
	"dua": 2, "tiga": 3, "empat": 4, "lima": 5,
	"enam": 6, "tujuh": 7, "delapan": 8, "sembilan": 9,
	"sepuluh": 10, "sebelas": 11,
}

var scaleWords = map[string]int64{
	"ribu":    1_000,
	"juta":    1_000_000,
	"miliar":  1_000_000_000,
	"triliun": 1_000_000_000_000,
}

// "se-" fused forms: one thousand, one million.
var sePrefixScales = map[string]int64{
	"seribu": 1_000,
	"sejuta": 1_000_000,
}

var abbrevScale = map[string]string{
	"jt": "juta", "rb": "ribu", "k": "ribu",
	"m": "miliar", "milyar": "miliar", "milyard": "miliar", "mlyr": "miliar",
	"t": "triliun",
}

// normalizeNumberText removes thousands separators (a period or comma
// followed by exactly three digits and a non-digit or end) and converts a
// remaining digit,digit comma into a decimal point.
func normalizeNumberText(text string) string {
	t := strings.TrimSpace(text)
	for {
		next := thousandsSepRe.ReplaceAllString(t, "$1$2$3")
		if next == t {
			break
		}
		t = next
	}
	return decimalCommaRe.ReplaceAllString(t, "$1.$2")
}

// expandAbbreviations rewrites magnitude shorthand into full scale words so
// "250rb" and "1.5jt" go through the same paths as "250 ribu".
func expandAbbreviations(lower string) string {
	s := attachedAbbrevRe.ReplaceAllStringFunc(lower, func(m string) string {
		parts := attachedAbbrevRe.FindStringSubmatch(m)
		return parts[1] + " " + abbrevScale[parts[2]]
	})
	return standaloneAbbrevRe.ReplaceAllStringFunc(s, func(m string) string {
		return abbrevScale[m]
	})
}

var scaleFindRe = regexp.MustCompile(`\b(ribu|juta|miliar|triliun)\b`)

// detectScale returns the first magnitude keyword found anywhere in the
// text; only one keyword is honored per input.
func detectScale(lower string) int64 {
	if m := scaleFindRe.FindString(lower); m != "" {
		return scaleWords[m]
	}
	return 0
}

func tokenizeWords(lower string) []string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(lower)
	s = tokenCleanRe.ReplaceAllString(s, " ")
	return strings.Fields(s)
}

// parseIntegerWords accumulates an Indonesian integer phrase
// ("dua ratus lima puluh ribu" = 250000). Unknown tokens are skipped.
func parseIntegerWords(tokens []string) int64 {
	var total, current int64
	for i := 0; i < len(tokens); i++ {
		w := tokens[i]

		if plainNumberRe.MatchString(w) {
			if f, err := strconv.ParseFloat(w, 64); err == nil {
				current += int64(f)
			}
			continue
		}
		if w == "seratus" {
			current += 100
			continue
		}
		if scale, ok := sePrefixScales[w]; ok {
			if current == 0 {
				current = 1
			}
			total += current * scale
			current = 0
			continue
		}
		if v, ok := digitWords[w]; ok {
			if i+1 < len(tokens) {
				switch tokens[i+1] {
				case "belas":
					current += 10 + v
					i++
					continue
				case "puluh":
					current += v * 10
					i++
					continue
				case "ratus":
					current += v * 100
					i++
					continue
				}
			}
			current += v
			continue
		}
		if scale, ok := scaleWords[w]; ok {
			if current == 0 {
				current = 1
			}
			total += current * scale
			current = 0
		}
	}
	return total + current
}

// voiceToNumber is the general converter behind ParseAmount and
// ParseQuantity. The boolean is false when the text carries no numeric
// signal at all.
func voiceToNumber(text string) (float64, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return 0, false
	}
	lower = expandAbbreviations(lower)
	norm := normalizeNumberText(lower)

	if plainNumberRe.MatchString(norm) {
		f, err := strconv.ParseFloat(norm, 64)
		return f, err == nil
	}

	if m := literalDecimalRe.FindStringSubmatch(norm); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, _ := strconv.ParseFloat("0."+m[2], 64)
		v := whole + frac
		if m[3] != "" {
			v *= float64(scaleWords[m[3]])
		}
		return v, true
	}

	if m := noSpaceScaleRe.FindStringSubmatch(norm); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return n * float64(scaleWords[m[2]]), true
	}

	if komaSplitRe.MatchString(norm) {
		if v, ok := parseKomaPhrase(norm); ok {
			return v, true
		}
	}

	tokens := tokenizeWords(norm)
	if v := parseIntegerWords(tokens); v > 0 || containsZeroWord(tokens) {
		return float64(v), true
	}

	if digits := digitRe.FindAllString(norm, -1); len(digits) > 0 {
		n, err := strconv.ParseFloat(strings.Join(digits, ""), 64)
		return n, err == nil
	}
	return 0, false
}

func containsZeroWord(tokens []string) bool {
	for _, t := range tokens {
		if t == "nol" || t == "kosong" || t == "0" {
			return true
		}
	}
	return false
}

// parseKomaPhrase handles spoken decimals: the last alphanumeric token left
// of "koma" and the first token right of it go through the digit-word
// table, combined as left.right and scaled by any magnitude keyword.
func parseKomaPhrase(norm string) (float64, bool) {
	parts := komaSplitRe.Split(norm, 2)
	if len(parts) != 2 {
		return 0, false
	}
	leftTokens := alnumTokenRe.FindAllString(parts[0], -1)
	rightTokens := alnumTokenRe.FindAllString(parts[1], -1)
	if len(leftTokens) == 0 || len(rightTokens) == 0 {
		return 0, false
	}
	left, okL := tokenToNumber(leftTokens[len(leftTokens)-1])
	right, okR := tokenToNumber(rightTokens[0])
	if !okL || !okR {
		return 0, false
	}
	fracDigits := len(strconv.FormatInt(right, 10))
	v := float64(left) + float64(right)/math.Pow10(fracDigits)
	if scale := detectScale(norm); scale > 0 {
		v *= float64(scale)
	}
	return v, true
}

func tokenToNumber(tok string) (int64, bool) {
	if plainNumberRe.MatchString(tok) {
		n, err := strconv.ParseInt(tok, 10, 64)
		return n, err == nil
	}
	if tok == "seratus" {
		return 100, true
	}
	if v, ok := sePrefixScales[tok]; ok {
		return v, true
	}
	v, ok := digitWords[tok]
	return v, ok
}

// ParseAmount converts Indonesian free text into a whole rupiah amount.
// It never fails: garbage input parses to 0.
func ParseAmount(text string) int64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	// Every voiceToNumber path applies magnitude words itself (the koma and
	// literal-decimal branches scale their value, the word grammar folds
	// "ribu"/"juta" into the accumulation), so the result is never re-scaled
	// here: "nol koma lima juta" is already 500000.
	if v, ok := voiceToNumber(text); ok {
		return roundHalfAway(v)
	}

	norm := normalizeNumberText(expandAbbreviations(strings.ToLower(strings.TrimSpace(text))))

	digits := nonDigitRe.ReplaceAllString(norm, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseQuantity converts Indonesian free text into a float quantity
// ("2,5" and "dua koma lima" both yield 2.5). Malformed input yields 0.
func ParseQuantity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	if v, ok := voiceToNumber(text); ok {
		return v
	}
	norm := normalizeNumberText(strings.ToLower(strings.TrimSpace(text)))
	if m := decimalFindRe.FindString(norm); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			return f
		}
	}
	return 0
}

// HasNumericSignal reports whether the text plausibly encodes a number.
// Amount-collecting steps use it to re-prompt instead of silently storing
// a zero parsed from nonsense.
func HasNumericSignal(text string) bool {
	lower := expandAbbreviations(strings.ToLower(text))
	if digitRe.MatchString(lower) {
		return true
	}
	for _, tok := range tokenizeWords(lower) {
		if _, ok := digitWords[tok]; ok {
			return true
		}
		if _, ok := scaleWords[tok]; ok {
			return true
		}
		if tok == "seratus" {
			return true
		}
		if _, ok := sePrefixScales[tok]; ok {
			return true
		}
	}
	return false
}

// ParseTerminDays parses a payment-term answer in days, falling back to
// def and clamping to [min, max] by rejecting out-of-range values.
func ParseTerminDays(text string, def, min, max int) int {
	if strings.TrimSpace(text) == "" {
		return def
	}
	v, ok := voiceToNumber(text)
	if !ok {
		return def
	}
	n := int(roundHalfAway(v))
	if n < min || n > max {
		return def
	}
	return n
}

func roundHalfAway(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v + 0.5))
	}
	return int64(math.Floor(v + 0.5))
}
