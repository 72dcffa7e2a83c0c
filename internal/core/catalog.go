package core

import (
	"regexp"
	"strings"
)

// WasteEntry is one row of the static B3 waste catalog.
type WasteEntry struct {
	Jenis         string `json:"jenis"`
	Satuan        string `json:"satuan"`
	Karakteristik string `json:"karakteristik"`
}

// wasteCatalog keeps the regulatory codes in declaration order so
// description lookups are deterministic.
var wasteCatalog = []struct {
	Code  string
	Entry WasteEntry
}{
	{"A102d", WasteEntry{"Aki/baterai bekas", "Kg", "Beracun / Korosif"}},
	{"A103d", WasteEntry{"Debu dan fiber asbes (crocidolite, amosite, janthrophyllite)", "Kg", "Beracun"}},
	{"A106d", WasteEntry{"Limbah dari laboratorium yang mengandung B3", "Kg", "Beracun"}},
	{"A107d", WasteEntry{"Pelarut bekas lainnya yang belum dikodifikasi", "Kg", "Beracun"}},
	{"A108d", WasteEntry{"Limbah terkontaminasi B3", "Kg", "Padatan Mudah Menyala"}},
	{"A111d", WasteEntry{"Refrigerant bekas dari peralatan elektronik", "Kg", "Beracun"}},
	{"A303-2", WasteEntry{"Residu proses produksi (Pestisida dan produk agrokimia)", "Kg", "Beracun"}},
	{"A303-3", WasteEntry{"Absorben dan filter bekas", "Kg", "Beracun"}},
	{"A303-6", WasteEntry{"Sludge IPAL", "Kg", "Beracun"}},
	{"A304-1", WasteEntry{"Resin adesif Fenolformaldehida (PF, UF, MF)", "Kg", "Beracun"}},
	{"A304-2", WasteEntry{"Lumpur encer mengandung adesif atau sealant", "Kg", "Beracun"}},
	{"A304-3", WasteEntry{"Limbah minyak resin (terpentin)", "Kg", "Beracun"}},
	{"A304-4", WasteEntry{"Residu dari proses penyaringan produk (strainer)", "Kg", "Beracun"}},
	{"A304-6", WasteEntry{"Residu proses produksi atau kegiatan", "Kg", "Beracun"}},
	{"A305-1", WasteEntry{"Monomer atau oligomer yang tidak bereaksi (Polimer)", "Kg", "Beracun"}},
	{"A305-2", WasteEntry{"Residu produksi atau reaksi pemurnian polimer", "Kg", "Beracun"}},
	{"A305-3", WasteEntry{"Residu dari proses destilasi", "Kg", "Beracun"}},
	{"A306-1", WasteEntry{"Sludge dari proses produksi minyak bumi/gas alam (Petrokimia)", "Kg", "Padatan Mudah Menyala"}},
	{"A307-1", WasteEntry{"Sludge dari kilang minyak dan gas bumi", "Kg", "Padatan Mudah Menyala"}},
	{"A307-2", WasteEntry{"Residu dasar tanki", "Kg", "Padatan Mudah Menyala"}},
	{"A307-3", WasteEntry{"Slop padatan emulsi minyak dari penyulingan minyak bumi", "Kg", "Padatan Mudah Menyala"}},
	{"A309-1", WasteEntry{"Fluxing agent bekas (Peleburan besi dan baja)", "Kg", "Beracun"}},
	{"A309-3", WasteEntry{"Spent pickle liquor", "Kg", "Beracun"}},
	{"A309-6", WasteEntry{"Residu dari proses produksi kokas (tar)", "Kg", "Beracun"}},
	{"A310-1", WasteEntry{"Larutan asam, alkali bekas (Operasi penyempurnaan baja)", "Kg", "Beracun"}},
	{"A310-5", WasteEntry{"Sludge dari proses pengolahan residu", "Kg", "Beracun"}},
	{"A311-1", WasteEntry{"Larutan asam bekas (Peleburan timah hitam Pb)", "Kg", "Korosif"}},
	{"A311-2", WasteEntry{"Slag dari proses peleburan primer/sekunder", "Kg", "Korosif"}},
	{"A311-4", WasteEntry{"Ash, dross, skimming dari peleburan primer/sekunder", "Kg", "Beracun"}},
	{"A312-4", WasteEntry{"Sludge dari oil treatment (Peleburan tembaga Cu)", "Kg", "Beracun"}},
	{"A313-4", WasteEntry{"Sludge dari oil treatment (Peleburan alumunium)", "Kg", "Padatan Mudah Menyala"}},
	{"A314-2", WasteEntry{"Sludge dari oil treatment (Peleburan seng Zn)", "Kg", "Beracun"}},
	{"A319-1", WasteEntry{"Sludge dari oil treatment (Peleburan timah putih Sn)", "Kg", "Beracun"}},
	{"A322-1", WasteEntry{"Pelarut bekas (cleaning) Tekstil", "Kg", "Beracun"}},
	{"A322-2", WasteEntry{"Senyawa brom organik (fire retardant)", "Kg", "Beracun"}},
	{"A322-3", WasteEntry{"Dyestuffs dan pigment mengandung logam berat", "Kg", "Beracun"}},
	{"A323-1", WasteEntry{"Pelarut bekas pencucian (Manufaktur kendaraan)", "Kg", "Beracun"}},
	{"A323-2", WasteEntry{"Sludge proses produksi manufacturing", "Kg", "Beracun"}},
	{"A323-3", WasteEntry{"Residu proses produksi manufacturing", "Kg", "Beracun"}},
	{"A324-2", WasteEntry{"Larutan bekas dari kegiatan pengolahan (Elektroplating)", "Kg", "Beracun"}},
	{"A324-3", WasteEntry{"Larutan asam (pickling)", "Kg", "Beracun"}},
	{"A324-8", WasteEntry{"Spent plating solutions (Cr, Pb, Ni, As, Cu, Zn, Cd, Fe, Sn)", "Kg", "Beracun"}},
	{"A325-1", WasteEntry{"Limbah cat dan varnish mengandung pelarut organik", "Kg", "Beracun"}},
	{"A325-2", WasteEntry{"Sludge dari cat dan varnish", "Kg", "Beracun"}},
	{"A325-3", WasteEntry{"Residu proses destilasi cat", "Kg", "Beracun"}},
	{"A325-4", WasteEntry{"Cat anti korosi berbahan Pb dan Cr", "Kg", "Beracun"}},
	{"A325-5", WasteEntry{"Debu/sludge dari unit pengendalian pencemaran udara", "Kg", "Beracun"}},
	{"A325-6", WasteEntry{"Sludge proses depainting", "Kg", "Beracun"}},
	{"A325-7", WasteEntry{"Sludge dari IPAL cat", "Kg", "Beracun"}},
	{"A330-1", WasteEntry{"Residu dasar tangki minyak bumi", "Kg", "Padatan Mudah Menyala"}},
	{"A331-2", WasteEntry{"Sludge dari oil treatment (Pertambangan)", "Kg", "Padatan Mudah Menyala"}},
	{"A332-1", WasteEntry{"Sludge dari oil treatment (Industri listrik)", "Kg", "Padatan Mudah Menyala"}},
	{"A336-1", WasteEntry{"Bahan/Produk farmasi tidak memenuhi spesifikasi", "Kg", "Beracun"}},
	{"A336-2", WasteEntry{"Residu proses produksi dan formulasi farmasi", "Kg", "Beracun"}},
	{"A336-3", WasteEntry{"Residu proses destilasi, evaporasi dan reaksi farmasi", "Kg", "Beracun"}},
	{"A336-4", WasteEntry{"Reactor bottom wastes farmasi", "Kg", "Beracun"}},
	{"A336-5", WasteEntry{"Sludge dari fasilitas produksi farmasi", "Kg", "Beracun"}},
	{"A337-1", WasteEntry{"Limbah klinis memiliki karakteristik infeksius", "Kg", "Infeksius"}},
	{"A337-2", WasteEntry{"Produk farmasi kedaluwarsa", "Kg", "Beracun"}},
	{"A337-3", WasteEntry{"Bahan kimia kedaluwarsa rumah sakit", "Kg", "Beracun"}},
	{"A337-4", WasteEntry{"Peralatan laboratorium terkontaminasi B3", "Kg", "Beracun"}},
	{"A338-1", WasteEntry{"Bahan kimia kedaluwarsa laboratorium", "Kg", "Beracun"}},
	{"A338-2", WasteEntry{"Peralatan laboratorium terkontaminasi B3", "Kg", "Beracun"}},
	{"A338-3", WasteEntry{"Residu sampel Limbah B3", "Kg", "Beracun"}},
	{"A338-4", WasteEntry{"Sludge IPAL laboratorium", "Kg", "Beracun"}},
	{"A339-1", WasteEntry{"Larutan developer, fixer, bleach bekas (Fotografi)", "Kg", "Beracun"}},
	{"A341-1", WasteEntry{"Residu proses produksi dan konsentrat (Sabun deterjen, kosmetik)", "Kg", "Beracun"}},
	{"A341-2", WasteEntry{"Konsentrat tidak memenuhi spesifikasi teknis", "Kg", "Beracun"}},
	{"A341-3", WasteEntry{"Heavy alkylated hydrocarbon", "Kg", "Beracun"}},
	{"A342-1", WasteEntry{"Residu filtrasi (Pengolahan minyak hewani/nabati)", "Kg", "Beracun"}},
	{"A342-2", WasteEntry{"Residu proses destilasi minyak", "Kg", "Beracun"}},
	{"A343-1", WasteEntry{"Glycerine pitch (Pengolahan oleokimia dasar)", "Kg", "Beracun"}},
	{"A343-2", WasteEntry{"Residu filtrasi oleokimia", "Kg", "Beracun"}},
	{"A345-1", WasteEntry{"Emulsi minyak dari proses cutting dan pendingin", "Kg", "Beracun"}},
	{"A345-2", WasteEntry{"Sludge logam (serbuk, gram) mengandung minyak", "Kg", "Beracun"}},
	{"A350-2", WasteEntry{"Adhesive coating (Seal, Gasket, Packing)", "Kg", "Beracun"}},
	{"A351-1", WasteEntry{"Adesif atau perekat sisa dan kedaluwarsa (Pulp dan kertas)", "Kg", "Beracun"}},
	{"A351-2", WasteEntry{"Residu pencetakan (tinta/pewarna)", "Kg", "Beracun"}},
	{"A355-1", WasteEntry{"Pelarut (cleaning, degreasing) Bengkel kendaraan", "Kg", "Beracun"}},
	{"B102d", WasteEntry{"Debu dan fiber asbes putih (chrysotile)", "Kg", "Beracun"}},
	{"B103d", WasteEntry{"Lead scrap", "Kg", "Korosif, Beracun"}},
	{"B104d", WasteEntry{"Kemasan bekas B3", "Kg", "Beracun"}},
	{"B105d", WasteEntry{"Minyak pelumas bekas (hidrolik, mesin, gear, lubrikasi)", "Kg", "Cairan Mudah Menyala"}},
	{"B106d", WasteEntry{"Limbah resin atau penukar ion", "Kg", "Beracun"}},
	{"B107d", WasteEntry{"Limbah elektronik (CRT, lampu TL, PCB, kawat logam)", "Kg", "Beracun"}},
	{"B108d", WasteEntry{"Sludge IPAL dari fasilitas IPAL terpadu kawasan industri", "Kg", "Beracun"}},
	{"B109", WasteEntry{"Filter bekas dari fasilitas pengendalian pencemaran udara", "Kg", "Beracun"}},
	{"B110d", WasteEntry{"Kain majun bekas (used rags) dan yang sejenis", "Kg", "Padatan Mudah Menyala"}},
}

var wasteByCode = func() map[string]WasteEntry {
	m := make(map[string]WasteEntry, len(wasteCatalog))
	for _, row := range wasteCatalog {
		m[row.Code] = row.Entry
	}
	return m
}()

var (
	dashWordRe      = regexp.MustCompile(`\b(strips|strip|minus|min|dash|garis|hyphen|penghubung)\b`)
	spokenDigitRe   = regexp.MustCompile(`\b(nol|kosong|satu|sebelas|sepuluh|sembilan|se|dua|tiga|empat|lima|enam|tujuh|delapan)\b`)
	dashSpacingRe   = regexp.MustCompile(`\s*-\s*`)
	codeCharRe      = regexp.MustCompile(`[^a-z0-9\- ]+`)
	codeNoDashRe    = regexp.MustCompile(`^([A-Z])(\d{3,})(\d)$`)
	multiDashRe     = regexp.MustCompile(`-+`)
	manualEscapeRe  = regexp.MustCompile(`[\s\-_]+`)
	spokenDigitWord = map[string]string{
		"nol": "0", "kosong": "0", "satu": "1", "se": "1", "dua": "2", "tiga": "3",
		"empat": "4", "lima": "5", "enam": "6", "tujuh": "7", "delapan": "8",
		"sembilan": "9", "sepuluh": "10", "sebelas": "11",
	}
)

// NormalizeWasteCode maps spoken/typed code variants onto the catalog form:
// "a336 strip satu" and "A336 1" both become "A336-1".
func NormalizeWasteCode(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return ""
	}
	s = dashWordRe.ReplaceAllString(s, "-")
	s = dashSpacingRe.ReplaceAllString(s, "-")
	s = spokenDigitRe.ReplaceAllStringFunc(s, func(w string) string { return spokenDigitWord[w] })
	s = codeCharRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = multiDashRe.ReplaceAllString(s, "-")
	joined := strings.ToUpper(s)

	// "A3361" without a dash: the catalog spells it "A336-1".
	if m := codeNoDashRe.FindStringSubmatch(joined); m != nil {
		joined = m[1] + m[2] + "-" + m[3]
	}
	return joined
}

// FindWasteByCode resolves a code token against the catalog, tolerating a
// missing or extra "d" suffix and missing dashes. The boolean is false
// when nothing matches.
func FindWasteByCode(query string) (string, WasteEntry, bool) {
	norm := NormalizeWasteCode(query)
	if norm == "" {
		return "", WasteEntry{}, false
	}

	for _, row := range wasteCatalog {
		if strings.EqualFold(row.Code, norm) {
			return row.Code, row.Entry, true
		}
	}

	if strings.HasSuffix(norm, "D") {
		stripped := norm[:len(norm)-1]
		for _, row := range wasteCatalog {
			if strings.EqualFold(row.Code, stripped) {
				return row.Code, row.Entry, true
			}
		}
	} else {
		withD := norm + "D"
		for _, row := range wasteCatalog {
			if strings.EqualFold(row.Code, withD) {
				return row.Code, row.Entry, true
			}
		}
	}

	noDash := strings.ReplaceAll(norm, "-", "")
	for _, row := range wasteCatalog {
		if strings.EqualFold(strings.ReplaceAll(row.Code, "-", ""), noDash) {
			return row.Code, row.Entry, true
		}
	}

	if m := codeNoDashRe.FindStringSubmatch(strings.ToUpper(noDash)); m != nil {
		candidate := m[1] + m[2] + "-" + m[3]
		if e, ok := wasteByCode[candidate]; ok {
			return candidate, e, true
		}
	}
	return "", WasteEntry{}, false
}

// FindWasteByDescription matches free text against catalog descriptions:
// exact first, then substring either way, then at least two overlapping
// keywords.
func FindWasteByDescription(query string) (string, WasteEntry, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", WasteEntry{}, false
	}

	for _, row := range wasteCatalog {
		if strings.ToLower(row.Entry.Jenis) == q {
			return row.Code, row.Entry, true
		}
	}
	for _, row := range wasteCatalog {
		j := strings.ToLower(row.Entry.Jenis)
		if strings.Contains(j, q) || strings.Contains(q, j) {
			return row.Code, row.Entry, true
		}
	}
	keywords := strings.Fields(q)
	for _, row := range wasteCatalog {
		j := strings.ToLower(row.Entry.Jenis)
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(j, kw) {
				matches++
			}
		}
		if matches >= 2 {
			return row.Code, row.Entry, true
		}
	}
	return "", WasteEntry{}, false
}

// LookupWaste tries code resolution first, then description matching.
func LookupWaste(query string) (string, WasteEntry, bool) {
	if code, entry, ok := FindWasteByCode(query); ok {
		return code, entry, ok
	}
	return FindWasteByDescription(query)
}

// IsManualCategoryMarker recognizes the "NON B3" escape that routes to
// manual item entry, insensitive to case, spaces and hyphens.
func IsManualCategoryMarker(text string) bool {
	norm := manualEscapeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "")
	return norm == "nonb3" || strings.HasPrefix(norm, "nonb3")
}
