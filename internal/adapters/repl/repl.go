package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"dokumen-agent/internal/app"

	"github.com/google/uuid"
)

// Run starts the interactive REPL loop. It reads lines from reader,
// dispatches slash commands deterministically, and routes everything else
// into the conversational document flows.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	sessionID := uuid.NewString()

	fmt.Println("Asisten Dokumen")
	fmt.Println("Ketik 'buat invoice', 'buat mou', atau 'buat penawaran' untuk memulai.")
	fmt.Println("Ketik 'batal' untuk membatalkan proses, /help untuk perintah lain.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "history", "histories", "riwayat":
			q := ""
			if len(args) > 0 {
				q = strings.Join(args, " ")
			}
			items, err := svc.ListHistories(ctx, 50, q)
			if err != nil {
				return err
			}
			printHistories(items)

		case "show":
			if len(args) < 1 {
				fmt.Println("Usage: /show <history-id>")
				return nil
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid history id: %s\n", args[0])
				return nil
			}
			detail, err := svc.GetHistory(ctx, id)
			if err != nil {
				return err
			}
			printHistoryDetail(detail)

		case "rename":
			if len(args) < 2 {
				fmt.Println("Usage: /rename <history-id> <title...>")
				return nil
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid history id: %s\n", args[0])
				return nil
			}
			if err := svc.RenameHistory(ctx, id, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Println("Renamed.")

		case "delete":
			if len(args) < 1 {
				fmt.Println("Usage: /delete <history-id>")
				return nil
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				fmt.Printf("Invalid history id: %s\n", args[0])
				return nil
			}
			if err := svc.DeleteHistory(ctx, id); err != nil {
				return err
			}
			fmt.Println("Deleted.")

		case "docs", "documents":
			docs, err := svc.ListDocuments(ctx)
			if err != nil {
				return err
			}
			printDocuments(docs)

		case "new", "reset-session":
			sessionID = uuid.NewString()
			fmt.Println("Sesi baru dimulai.")

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			fmt.Println()
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		// Slash prefix → deterministic command dispatcher, no flow invoked.
		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Sampai jumpa!")
					break
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		res, err := svc.SubmitMessage(ctx, sessionID, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printTurn(res)
	}
}
