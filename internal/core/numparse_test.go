package core_test

import (
	"testing"

	"dokumen-agent/internal/core"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"plain digits", "50000", 50000},
		{"dotted thousands", "1.500.000", 1500000},
		{"comma thousands", "1,500,000", 1500000},
		{"decimal comma with scale", "1,5 juta", 1500000},
		{"decimal dot with scale", "1.5 juta", 1500000},
		{"attached abbreviation rb", "250rb", 250000},
		{"attached abbreviation jt", "2jt", 2000000},
		{"spaced abbreviation", "750 rb", 750000},
		{"digits with scale word", "250 ribu", 250000},
		{"spoken decimal with scale", "dua koma lima juta", 2500000},
		{"spoken zero-point decimal with scale", "nol koma lima juta", 500000},
		{"zero-point decimal with scale", "0,5 juta", 500000},
		{"spoken integer phrase", "dua ratus lima puluh ribu", 250000},
		{"spoken teens", "lima belas ribu", 15000},
		{"seratus ribu", "seratus ribu", 100000},
		{"bare scale word", "sejuta", 1000000},
		{"zero word", "nol", 0},
		{"kosong", "kosong", 0},
		{"currency prefix", "Rp 2.500.000", 2500000},
		{"trailing noise", "50000 rupiah ya", 50000},
		{"garbage", "tidak tahu", 0},
		{"empty", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.ParseAmount(tc.in); got != tc.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"integer", "749", 749},
		{"decimal comma", "2,5", 2.5},
		{"decimal dot", "2.5", 2.5},
		{"spoken decimal", "dua koma lima", 2.5},
		{"spoken integer", "seratus", 100},
		{"unit suffix", "749 kg", 749},
		{"garbage", "banyak sekali", 0},
		{"empty", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.ParseQuantity(tc.in); got != tc.want {
				t.Errorf("ParseQuantity(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestHasNumericSignal(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"50000", true},
		{"dua koma lima juta", true},
		{"250rb", true},
		{"nol", true},
		{"seribu", true},
		{"tidak tahu", false},
		{"nanti saja", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := core.HasNumericSignal(tc.in); got != tc.want {
			t.Errorf("HasNumericSignal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTerminDays(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"plain", "30", 30},
		{"with unit", "30 hari", 30},
		{"spoken", "empat belas", 14},
		{"over range", "400", 14},
		{"zero", "0", 14},
		{"garbage", "secepatnya", 14},
		{"empty", "", 14},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.ParseTerminDays(tc.in, 14, 1, 365); got != tc.want {
				t.Errorf("ParseTerminDays(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}
