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
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	uuid "github.com/satori/go.uuid"

	"github.com/tablewise/erp_analyzer/config"
)

// Web upload links handed out in chat. The cleanup loop and the update
// goroutines touch these concurrently, so every access goes through linksMu.
var (
	linksMu  sync.Mutex
	users    = map[string]int64{}
	toDelete = map[string]time.Time{}
)

func registerUploadLink(uid string, chatID int64) {
	linksMu.Lock()
	users[uid] = chatID
	toDelete[uid] = time.Now()
	linksMu.Unlock()
}

// chatForUpload resolves an upload id back to the chat that requested it.
func chatForUpload(uid string) (int64, bool) {
	linksMu.Lock()
	chatID, ok := users[uid]
	linksMu.Unlock()
	return chatID, ok
}

// expireUploadLinks drops links older than maxAge and returns their ids so
// the caller can release whatever else is keyed by them.
func expireUploadLinks(maxAge time.Duration) []string {
	linksMu.Lock()
	defer linksMu.Unlock()

	var expired []string
	for uid, date := range toDelete {
		if time.Now().After(date.Add(maxAge)) {
			delete(users, uid)
			delete(toDelete, uid)
			expired = append(expired, uid)
		}
	}
	return expired
}

func uploadLink(baseURL, uid string) string {
	return baseURL + "/?id=" + uid
}

const welcomeText = `Hi! 👋

I analyze ERP spreadsheet exports and build charts and insights.

What I can do:
- Parse .xlsx, .csv and .tsv exports (also zip/gzip/lz4 wrapped)
- Repair common ERP date defects (dropped year digits, impossible delivery dates)
- Summarize every numeric column
- Propose and draw the most useful charts
- Explain the findings in plain language

Send a spreadsheet right into the chat, or send any message to get a
web upload link for large files.`

func handleText(bot *tgbotapi.BotAPI, update tgbotapi.Update) {
	message := update.Message

	uid := uuid.NewV4().String()
	registerUploadLink(uid, message.Chat.ID)
	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Upload your spreadsheet here: "+uploadLink(config.GetConfig().PublicURL, uid))
	bot.Send(msg)
}

func handleDocument(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	fileURL, err := bot.GetFileDirectURL(message.Document.FileID)
	if err != nil {
		log.Printf("Error getting file URL: %v", err)
		uid := uuid.NewV4().String()
		registerUploadLink(uid, message.Chat.ID)
		msg := tgbotapi.NewMessage(message.Chat.ID,
			"Could not fetch the file (too big?), use the web upload instead: "+
				uploadLink(config.GetConfig().PublicURL, uid))
		bot.Send(msg)
		return
	}

	filePath := filepath.Join(config.GetConfig().UploadDir, strconv.Itoa(message.From.ID), message.Document.FileName)
	if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		log.Printf("Error creating directory: %v", err)
		return
	}
	resp, err := http.Get(fileURL)
	if err != nil {
		log.Printf("Error downloading file: %v", err)
		return
	}
	defer resp.Body.Close()
	file, err := os.Create(filePath)
	if err != nil {
		log.Printf("Error creating file: %v", err)
		return
	}
	defer file.Close()
	if _, err = io.Copy(file, resp.Body); err != nil {
		log.Printf("Error writing file: %v", err)
		return
	}

	bot.Send(tgbotapi.NewMessage(message.Chat.ID, "Got it, analyzing..."))
	go func() {
		outcome, err := analyzeFile(context.Background(), filePath)
		if err != nil {
			log.Printf("analyze %s: %v", filePath, err)
			bot.Send(tgbotapi.NewMessage(message.Chat.ID, "Could not analyze the file: "+err.Error()))
			return
		}
		sendOutcome(message.Chat.ID, outcome, bot)
	}()
}

// sendOutcome delivers the full analysis to a chat: summary text, the
// statistics table, one PNG per chart, the HTML report as a document, and
// the drill-down commands when the dataset landed in the warehouse.
func sendOutcome(chatID int64, outcome *AnalysisOutcome, bot *tgbotapi.BotAPI) {
	if outcome.Insight.Summary != "" {
		bot.Send(tgbotapi.NewMessage(chatID, outcome.Insight.Summary))
	}

	statsTable := GenerateStatisticsTable(outcome.Stats)
	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+statsTable+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	bot.Send(msg)

	for _, s := range outcome.Series {
		png, err := renderSeriesPNG(s)
		if err != nil {
			log.Printf("render %q: %v", s.Spec.Title, err)
			continue
		}
		sendGraphVisualization(png, s.Spec.Type, s.Spec.CategoryColumn, s.Spec.Title, chatID, bot)
	}

	var report bytes.Buffer
	if err := BuildHTMLReport(&report, outcome.Result.FileName, outcome.Series); err != nil {
		log.Printf("build report: %v", err)
		return
	}
	data := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("report_%s.html", time.Now().Format("20060102-150405")),
		Bytes: report.Bytes(),
	}
	doc := tgbotapi.NewDocumentUpload(chatID, data)
	doc.Caption = "Interactive report, open in a browser"
	bot.Send(doc)

	if outcome.Warehouse != "" {
		registerWarehouseTable(chatID, outcome.Warehouse, outcome.WarehouseColumns)
		if hint := drillDownHint(outcome.WarehouseColumns); hint != "" {
			bot.Send(tgbotapi.NewMessage(chatID, hint))
		}
	}
}
