package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/tablewise/erp_analyzer/config"
)

// reports keeps rendered HTML reports addressable by upload id until the
// cleanup loop drops them.
var (
	reportsMu sync.Mutex
	reports   = map[string][]byte{}
)

// handleUpload accepts the browser upload form: saves the file, runs the
// pipeline, stores the HTML report, and pings the linked Telegram chat if
// the upload id came from the bot.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error uploading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploadID := r.FormValue("uuid")
	if uploadID == "" {
		http.Error(w, "Error getting uuid", http.StatusBadRequest)
		return
	}

	cfg := config.GetConfig()
	dir := filepath.Join(cfg.UploadDir, uploadID)
	os.MkdirAll(dir, 0755)
	filePath := filepath.Join(dir, header.Filename)
	dst, err := os.Create(filePath)
	if err != nil {
		http.Error(w, "Error saving file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer dst.Close()
	if _, err = io.Copy(dst, file); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	if chatID, ok := chatForUpload(uploadID); ok && bot != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "Your file uploaded, analyzing..."))
	}

	go func(uploadID, filePath string) {
		outcome, err := analyzeFile(context.Background(), filePath)
		if err != nil {
			log.Printf("analyze %s: %v", filePath, err)
			if chatID, ok := chatForUpload(uploadID); ok && bot != nil {
				bot.Send(tgbotapi.NewMessage(chatID, "Could not analyze the file: "+err.Error()))
			}
			return
		}

		var report bytes.Buffer
		if err := BuildHTMLReport(&report, outcome.Result.FileName, outcome.Series); err == nil {
			reportsMu.Lock()
			reports[uploadID] = report.Bytes()
			reportsMu.Unlock()
		}

		if chatID, ok := chatForUpload(uploadID); ok && bot != nil {
			sendOutcome(chatID, outcome, bot)
		}
	}(uploadID, filePath)

	fmt.Fprintf(w, "File uploaded successfully, report will appear at /report?id=%s", uploadID)
}

// handleReport serves the rendered HTML report for an upload id.
func handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	reportsMu.Lock()
	report, ok := reports[id]
	reportsMu.Unlock()
	if !ok {
		http.Error(w, "report not ready", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report)
}
