package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"dokumen-agent/internal/adapters/repl"
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
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	client := ai.NewClient(os.Getenv("OPENROUTER_API_KEY"), baseURL, model)
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
	}

	var chat app.SmallTalker
	if client != nil {
		chat = client
	}

	sessions := core.NewSessionStore(0)

	svc := app.NewService(sessions, flows, histories, chat, assembler.FilesDir())
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
