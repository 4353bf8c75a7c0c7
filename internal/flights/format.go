package flights

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Elijahuni/chatbot-1/internal/models"
)

// TimeLayout is used for departure and arrival columns
const TimeLayout = "2006-01-02 15:04"

// Headers are the seven listing columns in display order
var Headers = []string{"항공사", "출발지", "도착지", "출발 시간", "도착 시간", "소요 시간", "가격"}

var printer = message.NewPrinter(language.Korean)

// FormatPrice formats a KRW amount with thousands separators, e.g. "1,500,000원"
func FormatPrice(price int) string {
	return printer.Sprintf("%d원", price)
}

// FormatDuration formats a whole-hour duration, e.g. "3시간". Leftover minutes are shown when present.
func FormatDuration(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if m == 0 {
		return fmt.Sprintf("%d시간", h)
	}
	return fmt.Sprintf("%d시간 %d분", h, m)
}

// Row returns the display cells of a flight
func Row(f models.Flight) []string {
	return []string{
		f.Airline,
		f.Origin,
		f.Destination,
		f.Departure.Format(TimeLayout),
		f.Arrival.Format(TimeLayout),
		FormatDuration(f.Duration),
		FormatPrice(f.Price),
	}
}

// Rows returns the display cells of every flight
func Rows(flights []models.Flight) [][]string {
	rows := make([][]string, len(flights))
	for i, f := range flights {
		rows[i] = Row(f)
	}
	return rows
}
