package main

import (
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/tablewise/erp_analyzer/analysis"
	"github.com/tablewise/erp_analyzer/config"
	"github.com/tablewise/erp_analyzer/domain/models"
)

// Per-chat warehouse context: the table the last upload landed in and its
// columns, so drill-down commands know what to query.
var (
	tablesMu       sync.Mutex
	currentTable   = map[int64]models.ClickhouseTableName{}
	currentColumns = map[int64][]models.ColumnInfo{}
)

func registerWarehouseTable(chatID int64, table models.ClickhouseTableName, columns []models.ColumnInfo) {
	tablesMu.Lock()
	currentTable[chatID] = table
	currentColumns[chatID] = columns
	tablesMu.Unlock()
}

func warehouseTableFor(chatID int64) (models.ClickhouseTableName, []models.ColumnInfo, bool) {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	table, ok := currentTable[chatID]
	return table, currentColumns[chatID], ok
}

func handleCommand(api *tgbotapi.BotAPI, update tgbotapi.Update) {
	fullCommand := update.Message.Command()
	topPrefix := "top_"

	switch {
	case strings.HasPrefix(fullCommand, topPrefix):
		columnName := strings.TrimPrefix(fullCommand, topPrefix)
		if columnName == "" {
			api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Name a column after top_"))
			return
		}
		handleTopValues(api, update, columnName)
	case fullCommand == "start" || fullCommand == "help":
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, welcomeText))
	default:
		api.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
			"Unknown command. Use /top_<column> after uploading a spreadsheet."))
	}
}

// handleTopValues answers /top_<column>: the most frequent values of one
// column of the chat's last imported table, straight from the warehouse.
func handleTopValues(api *tgbotapi.BotAPI, update tgbotapi.Update, columnName string) {
	chatID := update.Message.Chat.ID

	table, columns, ok := warehouseTableFor(chatID)
	if !ok {
		api.Send(tgbotapi.NewMessage(chatID, "Upload a spreadsheet first."))
		return
	}
	column, found := findWarehouseColumn(columns, columnName)
	if !found {
		reply := "No such column."
		if hint := drillDownHint(columns); hint != "" {
			reply = "No such column. " + hint
		}
		api.Send(tgbotapi.NewMessage(chatID, reply))
		return
	}

	wh, err := OpenWarehouse(config.GetConfig().DatabaseDSN)
	if err != nil {
		log.Printf("drill down connect: %v", err)
		api.Send(tgbotapi.NewMessage(chatID, "The warehouse is unavailable right now."))
		return
	}
	counts, err := wh.DrillDown(table, column, analysis.MaxAggregatedPoints)
	if err != nil {
		log.Printf("drill down %s.%s: %v", table, column.Name, err)
		api.Send(tgbotapi.NewMessage(chatID, "Could not query the column."))
		return
	}
	if len(counts) == 0 {
		api.Send(tgbotapi.NewMessage(chatID, "The column is empty."))
		return
	}

	msg := tgbotapi.NewMessage(chatID, "<pre>\n"+GenerateCategoryCountTable(column.Header, counts)+"\n</pre>")
	msg.ParseMode = tgbotapi.ModeHTML
	api.Send(msg)
}

func findWarehouseColumn(columns []models.ColumnInfo, name string) (models.ColumnInfo, bool) {
	for _, col := range columns {
		if col.Name == name {
			return col, true
		}
	}
	return models.ColumnInfo{}, false
}

// drillDownHint lists the /top_ commands available for a table. Numeric
// columns are left out: value frequencies only read well for categories.
func drillDownHint(columns []models.ColumnInfo) string {
	var commands []string
	for _, col := range columns {
		if IsNumericWarehouseType(col.Type) {
			continue
		}
		commands = append(commands, "/top_"+col.Name)
	}
	if len(commands) == 0 {
		return ""
	}
	return "Drill down into a column: " + strings.Join(commands, " ")
}
