package main

import (
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/tablewise/erp_analyzer/config"
)

var bot *tgbotapi.BotAPI

func main() {
	fmt.Println("started")
	cfg := config.GetConfig()

	if cfg.DatabaseDSN != "" {
		if _, err := OpenWarehouse(cfg.DatabaseDSN); err != nil {
			log.Fatalln("cannot connect to clickhouse", err)
		}
		fmt.Println("connected clickhouse")
	}

	var err error
	bot, err = tgbotapi.NewBotAPI(cfg.TgToken)
	if err != nil {
		log.Fatal("tg error ", err)
	}
	fmt.Println("bot init")
	log.Printf("Authorized on account %s", bot.Self.UserName)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		tmpl := template.Must(template.ParseFiles("upload.html"))
		if err := tmpl.Execute(w, id); err != nil {
			http.Error(w, "Error rendering upload form", http.StatusInternalServerError)
		}
	})
	http.HandleFunc("/upload", handleUpload)
	http.HandleFunc("/report", handleReport)

	go func() {
		fmt.Println("listen on: http://localhost" + cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, nil); err != nil {
			fmt.Println("Error starting server:", err)
			os.Exit(1)
		}
	}()

	go func() {
		for {
			time.Sleep(time.Minute)
			for _, uid := range expireUploadLinks(time.Hour) {
				reportsMu.Lock()
				delete(reports, uid)
				reportsMu.Unlock()
			}
			removeOldFiles(cfg.UploadDir, time.Now().Add(-2*time.Hour))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := bot.GetUpdatesChan(u)
	if err != nil {
		log.Fatal("tg updates ", err)
	}
	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Document != nil {
			go handleDocument(bot, update.Message)
		} else if update.Message.IsCommand() {
			go handleCommand(bot, update)
		} else if update.Message.Text != "" {
			go handleText(bot, update)
		}
	}
}

// removeOldFiles prunes uploads older than maxAge, recursing into the
// per-upload directories.
func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			if err := removeOldFiles(filePath, maxAge); err != nil {
				return err
			}
			continue
		}
		fileStat, err := os.Stat(filePath)
		if err != nil {
			return err
		}
		if fileStat.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil {
				return err
			}
			log.Printf("Removed file: %s", filePath)
		}
	}
	return nil
}
