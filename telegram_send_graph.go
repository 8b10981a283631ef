package main

import (
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/tablewise/erp_analyzer/analysis"
	"github.com/tablewise/erp_analyzer/plot"
)

// renderSeriesPNG picks the renderer for one aggregated series. Line specs
// whose categories all parse as dates become time-series charts; everything
// else, including line specs over textual categories, falls back to bars.
func renderSeriesPNG(s RenderedSeries) ([]byte, error) {
	if s.Spec.Type == "line" && len(s.Points) >= 2 {
		xValues := make([]float64, 0, len(s.Points))
		yValues := make([]float64, 0, len(s.Points))
		datesOK := true
		for _, p := range s.Points {
			ms := analysis.ParseDate(p.Category)
			if ms == 0 {
				datesOK = false
				break
			}
			xValues = append(xValues, float64(ms/1000))
			yValues = append(yValues, p.Value)
		}
		if datesOK {
			return plot.DrawTimeSeries(xValues, yValues)
		}
	}
	return plot.DrawAggregatedBars(s.Points, s.Spec.Title)
}

// maxInlinePhotoSize is the threshold above which charts go out as
// documents instead of inline photos; Telegram recompresses large photos
// until axis labels become unreadable.
const maxInlinePhotoSize = 150000

// sendGraphVisualization delivers one rendered chart to a chat, as a photo
// when small enough and as a document otherwise.
func sendGraphVisualization(graph []byte, chartType, columnName, title string, chatID int64, api *tgbotapi.BotAPI) {
	fileName := fmt.Sprintf("%s_%s_%s.png",
		chartType,
		columnName,
		time.Now().Format("20060102-150405"))

	pngFile := tgbotapi.FileBytes{
		Name:  fileName,
		Bytes: graph,
	}
	caption := chartCaption(chartType, columnName, title)

	var err error
	if len(graph) < maxInlinePhotoSize {
		msg := tgbotapi.NewPhotoUpload(chatID, pngFile)
		msg.Caption = caption
		_, err = api.Send(msg)
	} else {
		msg := tgbotapi.NewDocumentUpload(chatID, pngFile)
		msg.Caption = caption
		_, err = api.Send(msg)
	}
	if err != nil {
		log.Printf("send chart %s for column %s: %v", chartType, columnName, err)
		api.Send(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Could not send the %s chart: %v", chartType, err)))
	}
}

func chartCaption(chartType, columnName, title string) string {
	switch chartType {
	case "line":
		return fmt.Sprintf("%s\nTrend over %s, most recent periods.", title, columnName)
	case "pie":
		return fmt.Sprintf("%s\nShare per %s.", title, columnName)
	default:
		return fmt.Sprintf("%s\nTop categories of %s.", title, columnName)
	}
}
