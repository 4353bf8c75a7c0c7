package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Elijahuni/chatbot-1/internal/flights"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

const priceColumn = 6

// FlightTable draws a bordered seven-column listing. width <= 0 lets the
// table size itself to its content.
func FlightTable(list []models.Flight, palette Palette, width int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(palette.Accent).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(palette.Text).Padding(0, 1)
	price := cell.Foreground(palette.Secondary).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(palette.Border)).
		Headers(flights.Headers...).
		Rows(flights.Rows(list)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == priceColumn:
				return price
			default:
				return cell
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.String()
}

// FlightMarkdown renders a listing as a GitHub-flavored markdown table, used
// for exports and plain output
func FlightMarkdown(list []models.Flight) string {
	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString(" |\n")
	}

	writeRow(flights.Headers)
	sep := make([]string, len(flights.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	sep[priceColumn] = "---:"
	writeRow(sep)

	for _, row := range flights.Rows(list) {
		writeRow(row)
	}
	return sb.String()
}
