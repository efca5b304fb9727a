package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 1)

	jobStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	hoverStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Bold(true)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	statusStyles = map[string]lipgloss.Style{
		"1": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"2": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"3": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// EmptyMessage is rendered when there are no job rows.
const EmptyMessage = "No schedules to show."

// Render draws g as a bordered table: a job column followed by one column per
// date. Headers must fit on one line; the header row is drawn one line tall.
func Render(g Grid) string {
	if len(g.Rows) == 0 {
		return EmptyMessage
	}

	headers := make([]string, 0, len(g.Dates)+1)
	headers = append(headers, "")
	for _, d := range g.Dates {
		headers = append(headers, d.Format("Mon")+" "+d.Format(constants.HeaderDateFormat))
	}

	rows := make([][]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		cols := make([]string, 0, len(row.Cells)+1)
		cols = append(cols, row.Job.Title)
		for _, cell := range row.Cells {
			cols = append(cols, renderCell(cell))
		}
		rows = append(rows, cols)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return jobStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func renderCell(cell Cell) string {
	parts := make([]string, 0, len(cell.Cards))
	for _, card := range cell.Cards {
		parts = append(parts, renderCard(card))
	}
	return strings.Join(parts, "\n\n")
}

func renderCard(card Card) string {
	status := card.Status
	if style, ok := statusStyles[card.Code]; ok {
		status = style.Render(status)
	}
	lines := []string{status, card.User}
	if card.Hovered {
		lines[0] = hoverStyle.Render("> " + card.Status)
	}
	if len(card.Actions) > 0 {
		labels := make([]string, len(card.Actions))
		for i, a := range card.Actions {
			labels[i] = a.Label
		}
		lines = append(lines, actionStyle.Render("Confirm? "+strings.Join(labels, " / ")))
	}
	return strings.Join(lines, "\n")
}
