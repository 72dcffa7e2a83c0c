package core_test

import (
	"context"
	"strings"
	"testing"

	"dokumen-agent/internal/core"
)

type stubResolver struct {
	addr string
}

func (r stubResolver) Resolve(context.Context, string) string { return r.addr }

type stubAssembler struct {
	lastBase      string
	lastInvoice   *core.InvoiceRecord
	lastMou       *core.MouRecord
	lastQuotation *core.QuotationRecord
	err           error
}

func (a *stubAssembler) UniqueBaseName(base string) string { return base }

func (a *stubAssembler) RenderInvoice(rec *core.InvoiceRecord, base string) ([]core.GeneratedFile, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.lastBase, a.lastInvoice = base, rec
	return []core.GeneratedFile{
		{Type: "xlsx", Filename: base + ".xlsx", URL: "/download/" + base + ".xlsx"},
		{Type: "pdf", Filename: base + ".pdf", URL: "/download/" + base + ".pdf"},
	}, nil
}

func (a *stubAssembler) RenderMou(rec *core.MouRecord, base string) ([]core.GeneratedFile, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.lastBase, a.lastMou = base, rec
	return []core.GeneratedFile{
		{Type: "docx", Filename: base + ".docx", URL: "/download/" + base + ".docx"},
	}, nil
}

func (a *stubAssembler) RenderQuotation(rec *core.QuotationRecord, base string) ([]core.GeneratedFile, error) {
	if a.err != nil {
		return nil, a.err
	}
	a.lastBase, a.lastQuotation = base, rec
	return []core.GeneratedFile{
		{Type: "docx", Filename: base + ".docx", URL: "/download/" + base + ".docx"},
		{Type: "pdf", Filename: base + ".pdf", URL: "/download/" + base + ".pdf"},
	}, nil
}

type stubSequencer struct{}

func (stubSequencer) NextInvoiceNumber() (string, error)   { return "2808001", nil }
func (stubSequencer) NextMouNumber() (string, error)       { return "003", nil }
func (stubSequencer) NextQuotationNumber() (string, error) { return "012", nil }

func runTurns(t *testing.T, flow core.Flow, s *core.Session, inputs []string) *core.TurnResult {
	t.Helper()
	var last *core.TurnResult
	for i, in := range inputs {
		res, err := flow.Handle(context.Background(), s, in)
		if err != nil {
			t.Fatalf("turn %d (%q): %v", i, in, err)
		}
		last = res
	}
	return last
}

func TestInvoiceFlowEndToEnd(t *testing.T) {
	assembler := &stubAssembler{}
	flow := core.NewInvoiceFlow(stubResolver{addr: "Jl. Industri No. 5, Bekasi"}, assembler, stubSequencer{})

	s := &core.Session{ID: "s1", Step: core.StepIdle}
	res := runTurns(t, flow, s, []string{
		"buat invoice",
		"PT Aneka Prima Industri",
		"ya",
		"021 555 1234",
		"strip",
		"strip",
		"100",
		"A102d",
		"50000",
		"tidak",
		"0",
		"0",
	})

	if !res.Done {
		t.Fatalf("flow not done after final turn: %+v", res)
	}
	if res.Title != "Invoice PT Aneka Prima Industri" {
		t.Errorf("Title = %q", res.Title)
	}
	if len(res.Files) != 2 {
		t.Fatalf("Files = %d, want 2", len(res.Files))
	}
	if s.Step != core.StepIdle || s.Invoice != nil {
		t.Errorf("session not reset: step=%q", s.Step)
	}

	rec := assembler.lastInvoice
	if rec.BillTo.Name != "PT Aneka Prima Industri" || rec.ShipTo.Name != rec.BillTo.Name {
		t.Errorf("parties = %+v / %+v", rec.BillTo, rec.ShipTo)
	}
	if rec.Phone != "021 555 1234" || rec.Fax != "" {
		t.Errorf("phone/fax = %q/%q", rec.Phone, rec.Fax)
	}
	if rec.Attn != "Accounting / Finance" {
		t.Errorf("attn = %q, want default kept on skip", rec.Attn)
	}
	if len(rec.Items) != 1 || rec.Items[0].Description != "Aki/baterai bekas" {
		t.Fatalf("items = %+v", rec.Items)
	}

	totals := rec.Totals()
	if totals.Subtotal != 5000000 || totals.Tax != 550000 || totals.Balance != 5550000 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestInvoiceFlowMalformedAmountDoesNotAdvance(t *testing.T) {
	flow := core.NewInvoiceFlow(stubResolver{}, &stubAssembler{}, stubSequencer{})
	s := &core.Session{ID: "s2", Step: core.StepIdle}

	runTurns(t, flow, s, []string{"invoice", "PT Uji", "ya", "-", "-", "-"})
	stepBefore := s.Step

	res, err := flow.Handle(context.Background(), s, "tidak tahu berapa")
	if err != nil {
		t.Fatal(err)
	}
	if s.Step != stepBefore {
		t.Errorf("step advanced on malformed qty: %q -> %q", stepBefore, s.Step)
	}
	if !strings.Contains(res.Text, "Qty") {
		t.Errorf("expected re-prompt, got %q", res.Text)
	}
}

func TestInvoiceFlowUnknownWasteReprompts(t *testing.T) {
	flow := core.NewInvoiceFlow(stubResolver{}, &stubAssembler{}, stubSequencer{})
	s := &core.Session{ID: "s3", Step: core.StepIdle}

	runTurns(t, flow, s, []string{"invoice", "PT Uji", "ya", "-", "-", "-", "10"})
	res, err := flow.Handle(context.Background(), s, "limbah antah berantah")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "tidak ditemukan") {
		t.Errorf("expected not-found message, got %q", res.Text)
	}

	// The manual escape still moves forward.
	res, err = flow.Handle(context.Background(), s, "NON B3")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Text, "manual") {
		t.Errorf("expected manual prompt, got %q", res.Text)
	}
}

func TestInvoiceFlowRenderFailureKeepsSession(t *testing.T) {
	assembler := &stubAssembler{err: context.DeadlineExceeded}
	flow := core.NewInvoiceFlow(stubResolver{}, assembler, stubSequencer{})
	s := &core.Session{ID: "s4", Step: core.StepIdle}

	runTurns(t, flow, s, []string{"invoice", "PT Uji", "ya", "-", "-", "-", "10", "A102d", "5000", "tidak", "0"})

	_, err := flow.Handle(context.Background(), s, "0")
	if err == nil {
		t.Fatal("expected render error")
	}
	if s.Step == core.StepIdle || s.Invoice == nil {
		t.Error("session was reset despite render failure")
	}
}

func TestInvoiceFlowUnresolvedAddressUsesPlaceholder(t *testing.T) {
	assembler := &stubAssembler{}
	flow := core.NewInvoiceFlow(stubResolver{addr: ""}, assembler, stubSequencer{})
	s := &core.Session{ID: "s5", Step: core.StepIdle}

	res := runTurns(t, flow, s, []string{"invoice", "PT Tanpa Alamat"})
	if !strings.Contains(res.Text, core.AddressPlaceholder) {
		t.Errorf("expected placeholder address in %q", res.Text)
	}
}

func TestMouFlowEndToEnd(t *testing.T) {
	assembler := &stubAssembler{}
	flow := core.NewMouFlow(stubResolver{addr: "Jl. Raya Serpong KM 8"}, assembler, stubSequencer{})
	s := &core.Session{ID: "m1", Step: core.StepIdle}

	res := runTurns(t, flow, s, []string{
		"buat mou",
		"PT Aneka Prima Industri",
		"1",
		"B105d",
		"ya",
		"NON B3",
		"oli campur",
		"tidak",
		"Budi Santoso",
		"Direktur",
		"Joko Widodo",
		"Manager Operasional",
	})

	if !res.Done || res.Title != "MoU PT Aneka Prima Industri" {
		t.Fatalf("done=%v title=%q", res.Done, res.Title)
	}
	rec := assembler.lastMou
	if rec.PihakKetigaKode != "HBSP" || !strings.Contains(rec.PihakKetiga, "Harapan Baru") {
		t.Errorf("pihak ketiga = %+v", rec)
	}
	if len(rec.Items) != 2 {
		t.Fatalf("items = %+v", rec.Items)
	}
	if rec.Items[0].KodeLimbah != "B105d" || rec.Items[1].KodeLimbah != "NON B3" {
		t.Errorf("item codes = %q, %q", rec.Items[0].KodeLimbah, rec.Items[1].KodeLimbah)
	}
	if !strings.Contains(rec.NomorSurat, "003/PKPLNB3/API-STBJ-HBSP/") {
		t.Errorf("nomor surat = %q", rec.NomorSurat)
	}
	if s.Step != core.StepIdle {
		t.Error("session not reset")
	}
}

func TestMouFlowInvalidThirdPartyReprompts(t *testing.T) {
	flow := core.NewMouFlow(stubResolver{}, &stubAssembler{}, stubSequencer{})
	s := &core.Session{ID: "m2", Step: core.StepIdle}

	runTurns(t, flow, s, []string{"mou", "PT Uji"})
	stepBefore := s.Step
	res, err := flow.Handle(context.Background(), s, "7")
	if err != nil {
		t.Fatal(err)
	}
	if s.Step != stepBefore || !strings.Contains(res.Text, "tidak valid") {
		t.Errorf("step=%q text=%q", s.Step, res.Text)
	}
}

func TestQuotationFlowEndToEnd(t *testing.T) {
	assembler := &stubAssembler{}
	flow := core.NewQuotationFlow(stubResolver{addr: "Kawasan Industri Jababeka"}, assembler, stubSequencer{})
	s := &core.Session{ID: "q1", Step: core.StepIdle}

	res := runTurns(t, flow, s, []string{
		"buat penawaran",
		"PT Aneka Prima Industri",
		"aki baterai bekas",
		"2500 per kilo",
		"tidak",
		"1,5 juta",
		"ya",
		"5jt",
		"30 hari",
	})

	if !res.Done || res.Title != "Penawaran PT Aneka Prima Industri" {
		t.Fatalf("done=%v title=%q", res.Done, res.Title)
	}
	rec := assembler.lastQuotation
	if len(rec.Items) != 1 || rec.Items[0].KodeLimbah != "A102d" || rec.Items[0].Harga != 2500 {
		t.Fatalf("items = %+v", rec.Items)
	}
	if rec.HargaTransportasi != 1500000 {
		t.Errorf("transport = %d", rec.HargaTransportasi)
	}
	if rec.HargaMou == nil || *rec.HargaMou != 5000000 {
		t.Errorf("harga mou = %v", rec.HargaMou)
	}
	if rec.TerminHari != 30 {
		t.Errorf("termin = %d", rec.TerminHari)
	}
	if !strings.Contains(res.Text, "tiga puluh") {
		t.Errorf("expected spelled-out termin in %q", res.Text)
	}
}

func TestQuotationFlowSkipMouAndDefaultTermin(t *testing.T) {
	assembler := &stubAssembler{}
	flow := core.NewQuotationFlow(stubResolver{}, assembler, stubSequencer{})
	s := &core.Session{ID: "q2", Step: core.StepIdle}

	res := runTurns(t, flow, s, []string{
		"penawaran",
		"PT Uji",
		"NON B3",
		"plastik bekas",
		"Kg",
		"1000",
		"tidak",
		"0",
		"tidak",
		"skip",
	})

	if !res.Done {
		t.Fatal("flow not done")
	}
	rec := assembler.lastQuotation
	if rec.HargaMou != nil {
		t.Errorf("harga mou = %v, want nil", *rec.HargaMou)
	}
	if rec.TerminHari != 14 {
		t.Errorf("termin = %d, want default 14", rec.TerminHari)
	}
	if rec.Items[0].KodeLimbah != "NON B3" || rec.Items[0].Satuan != "Kg" {
		t.Errorf("manual item = %+v", rec.Items[0])
	}
}

func TestQuotationMatches(t *testing.T) {
	flow := core.NewQuotationFlow(stubResolver{}, &stubAssembler{}, stubSequencer{})
	tests := []struct {
		in   string
		want bool
	}{
		{"buat penawaran dong", true},
		{"quotation baru", true},
		{"tolong buat dokumen", true},
		{"buat mou", false},
		{"halo", false},
	}
	for _, tc := range tests {
		if got := flow.Matches(tc.in); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClassifyAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want core.Answer
	}{
		{"ya", core.AnswerAffirmative},
		{"iya dong", core.AnswerAffirmative},
		{"tidak", core.AnswerNegative},
		{"nggak usah", core.AnswerNegative},
		{"saya", core.AnswerUnrecognized},
		{"tidaktahu", core.AnswerUnrecognized},
		{"skip", core.AnswerUnrecognized},
	}
	for _, tc := range tests {
		if got := core.ClassifyAnswer(tc.in); got != tc.want {
			t.Errorf("ClassifyAnswer(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if core.ClassifyAnswerAllowSkip("lewat saja") != core.AnswerNegative {
		t.Error("ClassifyAnswerAllowSkip(lewat saja) should be negative")
	}
}

func TestIsCancelCommand(t *testing.T) {
	for _, in := range []string{"batal", "CANCEL", "reset", "start over"} {
		if !core.IsCancelCommand(in) {
			t.Errorf("IsCancelCommand(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"batalkan pesanan", "halo"} {
		if core.IsCancelCommand(in) {
			t.Errorf("IsCancelCommand(%q) = true, want false", in)
		}
	}
}
