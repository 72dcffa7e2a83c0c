package core

import (
	"regexp"
	"strings"
)

// AddressPlaceholder is used whenever no trustworthy mailing address could
// be resolved. A finalized record never carries an empty address field.
const AddressPlaceholder = "Di tempat"

// Search snippets and AI completions sometimes hand back apologies or
// explanations instead of an address. Any of these phrases marks the text
// as a non-answer.
var addressBadPatterns = []*regexp.Regexp{
	regexp.MustCompile(`tidak\s*dapat\s+menentukan`),
	regexp.MustCompile(`tidak\s*bisa\s+menentukan`),
	regexp.MustCompile(`tidak\s*dapat\s+menemukan`),
	regexp.MustCompile(`tidak\s*bisa\s+menemukan`),
	regexp.MustCompile(`tidak\s*ditemukan`),
	regexp.MustCompile(`tidak\s*ketemu`),
	regexp.MustCompile(`tidak\s+ada\s+informasi`),
	regexp.MustCompile(`tidak\s+memiliki\s+informasi`),
	regexp.MustCompile(`saya\s+tidak\s+memiliki`),
	regexp.MustCompile(`informasi\s+yang\s+cukup`),
	regexp.MustCompile(`tidak\s+cukup\s+informasi`),
	regexp.MustCompile(`untuk\s+menentukan`),
	regexp.MustCompile(`terlalu\s+umum`),
	regexp.MustCompile(`tidak\s+spesifik`),
	regexp.MustCompile(`placeholder`),
	regexp.MustCompile(`nama\s+contoh`),
	regexp.MustCompile(`banyak\s+perusahaan.*nama\s+serupa`),
	regexp.MustCompile(`mungkin\s+menggunakan\s+nama\s+serupa`),
	regexp.MustCompile(`maaf`),
	regexp.MustCompile(`gagal`),
	regexp.MustCompile(`cannot\s+find`),
	regexp.MustCompile(`not\s+found`),
	regexp.MustCompile(`no\s+information`),
	regexp.MustCompile(`no\s+result`),
	regexp.MustCompile(`unknown`),
}

// Real addresses carry street/area markers; a long paragraph without any of
// them is prose, not an address.
var addressTokenRe = regexp.MustCompile(`\b(jl|jalan|rt|rw|kec|kel|kab|kota|no\.?|blok|desa)\b`)

// SanitizeAddress decides whether resolver output is usable as a mailing
// address. It returns "" for empty input, not-found prose, and over-long
// text without address markers.
func SanitizeAddress(addr string) string {
	a := strings.TrimSpace(addr)
	if a == "" {
		return ""
	}
	low := strings.ToLower(a)
	for _, p := range addressBadPatterns {
		if p.MatchString(low) {
			return ""
		}
	}
	if len(a) > 120 && !addressTokenRe.MatchString(low) {
		return ""
	}
	if len(a) > 250 {
		return ""
	}
	return a
}

// addressOrPlaceholder substitutes the placeholder for an unresolved
// address.
func addressOrPlaceholder(addr string) string {
	if a := SanitizeAddress(addr); a != "" {
		return a
	}
	return AddressPlaceholder
}
