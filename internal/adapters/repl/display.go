package repl

import (
	"fmt"
	"strings"

	"dokumen-agent/internal/app"
	"dokumen-agent/internal/history"
)

func printTurn(res *app.ChatResult) {
	fmt.Printf("\n[Bot]: %s\n", res.Reply)
	for _, f := range res.Files {
		fmt.Printf("  • %s (%s)  %s\n", f.Filename, f.Type, f.URL)
	}
	if res.Done {
		fmt.Println("Dokumen selesai dibuat.")
	}
}

func printHistories(items []history.Summary) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  RIWAYAT PERCAKAPAN")
	fmt.Println(strings.Repeat("=", 72))
	if len(items) == 0 {
		fmt.Println("  Belum ada riwayat.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-6s %-12s %-20s %s\n", "ID", "JENIS", "TANGGAL", "JUDUL")
	fmt.Println(strings.Repeat("-", 72))
	for _, h := range items {
		fmt.Printf("  %-6d %-12s %-20s %s\n",
			h.ID, h.TaskType, h.CreatedAt.Format("2006-01-02 15:04"), h.Title)
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printHistoryDetail(d *history.Detail) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  #%d  %s  (%s)\n", d.ID, d.Title, d.TaskType)
	fmt.Printf("  Dibuat: %s\n", d.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println(strings.Repeat("=", 72))
	for _, m := range d.Messages {
		who := "Bot "
		if m.Sender == "user" {
			who = "User"
		}
		fmt.Printf("  [%s] %s\n", who, m.Text)
		for _, f := range m.Files {
			fmt.Printf("         • %s\n", f.Filename)
		}
	}
	if len(d.Files) > 0 {
		fmt.Println(strings.Repeat("-", 72))
		fmt.Println("  Dokumen:")
		for _, f := range d.Files {
			fmt.Printf("    • %s (%s)  %s\n", f.Filename, f.Type, f.URL)
		}
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printDocuments(docs []app.DocumentInfo) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  DOKUMEN")
	fmt.Println(strings.Repeat("=", 72))
	if len(docs) == 0 {
		fmt.Println("  Belum ada dokumen.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-45s %10s  %s\n", "NAMA FILE", "UKURAN", "DIBUAT")
	fmt.Println(strings.Repeat("-", 72))
	for _, d := range docs {
		fmt.Printf("  %-45s %9dB  %s\n", d.Filename, d.SizeBytes, d.ModifiedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printHelp() {
	fmt.Println(`
Perintah:
  /history [kata kunci]     daftar riwayat percakapan
  /show <id>                tampilkan satu riwayat lengkap
  /rename <id> <judul>      ganti judul riwayat
  /delete <id>              hapus riwayat
  /docs                     daftar dokumen yang sudah dibuat
  /new                      mulai sesi percakapan baru
  /exit                     keluar

Selain perintah di atas, semua input dikirim ke asisten:
  "buat invoice"     mulai pembuatan invoice
  "buat mou"         mulai pembuatan MoU
  "buat penawaran"   mulai pembuatan surat penawaran
  "batal"            batalkan proses yang sedang berjalan`)
}
