package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Indonesian formatting helpers shared by the renderers: spelled-out
// numbers for payment terms, dotted thousands for rupiah, roman months for
// letter numbers and the long date line used in agreements.

var (
	terbilangUnits = [...]string{"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "delapan", "sembilan"}
	terbilangTeens = [...]string{"sepuluh", "sebelas", "dua belas", "tiga belas", "empat belas", "lima belas",
		"enam belas", "tujuh belas", "delapan belas", "sembilan belas"}

	romanMonths = [...]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

	indonesianDays = map[time.Weekday]string{
		time.Monday: "Senin", time.Tuesday: "Selasa", time.Wednesday: "Rabu",
		time.Thursday: "Kamis", time.Friday: "Jumat", time.Saturday: "Sabtu", time.Sunday: "Minggu",
	}
	indonesianMonths = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

// Terbilang spells out 0..999 in Indonesian. Larger values fall back to
// their decimal form, which is all the payment-term sentence ever needs.
func Terbilang(n int) string {
	switch {
	case n < 0 || n >= 1000:
		return strconv.Itoa(n)
	case n == 0:
		return "nol"
	case n < 10:
		return terbilangUnits[n]
	case n < 20:
		return terbilangTeens[n-10]
	case n < 100:
		tens := terbilangUnits[n/10] + " puluh"
		if n%10 == 0 {
			return tens
		}
		return tens + " " + terbilangUnits[n%10]
	default:
		var hundreds string
		if n/100 == 1 {
			hundreds = "seratus"
		} else {
			hundreds = terbilangUnits[n/100] + " ratus"
		}
		if n%100 == 0 {
			return hundreds
		}
		return hundreds + " " + Terbilang(n%100)
	}
}

// FormatRupiah renders an amount with dotted thousands separators
// (1500000 -> "1.500.000").
func FormatRupiah(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// RomanMonth returns the roman numeral used in letter numbers (VIII for
// August).
func RomanMonth(m time.Month) string {
	if m < time.January || m > time.December {
		return "I"
	}
	return romanMonths[m-1]
}

// FormatTanggalIndonesia renders the agreement date line, e.g.
// "Kamis, tanggal 28 Agustus 2026".
func FormatTanggalIndonesia(t time.Time) string {
	return fmt.Sprintf("%s, tanggal %d %s %d",
		indonesianDays[t.Weekday()], t.Day(), indonesianMonths[t.Month()-1], t.Year())
}
