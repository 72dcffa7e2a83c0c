package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "dokumen-agent/internal/adapters/web"
	"dokumen-agent/internal/ai"
	"dokumen-agent/internal/app"
	"dokumen-agent/internal/core"
	"dokumen-agent/internal/db"
	"dokumen-agent/internal/history"
	"dokumen-agent/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	filesDir := os.Getenv("FILES_DIR")
	if filesDir == "" {
		filesDir = "static/files"
	}

	assembler, err := render.NewDocumentAssembler(filesDir)
	if err != nil {
		log.Fatalf("files dir: %v", err)
	}
	sequences := render.NewFileSequencer(filesDir)

	search := ai.NewSerperClient(os.Getenv("SERPER_API_KEY"))
	if search == nil {
		log.Println("Warning: SERPER_API_KEY is not set; address search disabled")
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	client := ai.NewClient(os.Getenv("OPENROUTER_API_KEY"), baseURL, model)
	if client == nil {
		log.Println("Warning: OPENROUTER_API_KEY is not set; AI replies disabled")
	}
	resolver := ai.NewAddressResolver(search, client)

	flows := []core.Flow{
		core.NewInvoiceFlow(resolver, assembler, sequences),
		core.NewMouFlow(resolver, assembler, sequences),
		core.NewQuotationFlow(resolver, assembler, sequences),
	}

	var histories app.HistoryRecorder
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		pool, err := db.NewPool(ctx, connStr)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		histories = history.NewStore(pool)
	} else {
		log.Println("Warning: DATABASE_URL is not set; history persistence disabled")
	}

	var chat app.SmallTalker
	if client != nil {
		chat = client
	}

	sessions := core.NewSessionStore(0)
	sessions.StartPurge(ctx)

	svc := app.NewService(sessions, flows, histories, chat, assembler.FilesDir())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	handler := webAdapter.NewHandler(svc, assembler.FilesDir(), os.Getenv("ALLOWED_ORIGINS"))

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
