// Package grid lays schedule items out as jobs by dates and renders the result.
package grid

import (
	"strings"
	"time"

	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/models"
)

// Action is a status change offered on a hovered card.
type Action struct {
	Label  string
	Status int
}

var (
	Accept = Action{Label: "Accept", Status: constants.StatusApproved}
	Reject = Action{Label: "Reject", Status: constants.StatusRejected}
)

// Card is one schedule item inside a cell.
type Card struct {
	ID      string
	Status  string
	User    string
	Code    string
	Hovered bool
	Actions []Action
}

// Cell holds every item for one job on one date.
type Cell struct {
	Date  string
	Cards []Card
}

// Row is one job across the window.
type Row struct {
	Job   models.Job
	Cells []Cell
}

// Grid is the built layout.
type Grid struct {
	Dates []time.Time
	Rows  []Row
}

// Build matches items to cells by job id and calendar date. Hovered cards
// get Accept and Reject actions when role is admin, ignoring case.
func Build(dates []time.Time, jobs []models.Job, data *models.ScheduleResponse, role, hovered string) Grid {
	isAdmin := strings.EqualFold(strings.TrimSpace(role), constants.RoleAdmin)

	type cellKey struct{ job, date string }
	byCell := make(map[cellKey][]models.ScheduleItem)
	if data != nil {
		for _, item := range data.Items {
			k := cellKey{job: item.JobID, date: item.CalendarDate()}
			byCell[k] = append(byCell[k], item)
		}
	}

	g := Grid{Dates: dates, Rows: make([]Row, 0, len(jobs))}
	for _, job := range jobs {
		row := Row{Job: job, Cells: make([]Cell, len(dates))}
		for i, d := range dates {
			key := d.Format(constants.DateFormat)
			cell := Cell{Date: key}
			for _, item := range byCell[cellKey{job: job.ID, date: key}] {
				card := Card{
					ID:      item.ID,
					Status:  item.StatusLabel(),
					User:    item.DisplayName(),
					Code:    item.Status.String(),
					Hovered: hovered != "" && item.ID == hovered,
				}
				if card.Hovered && isAdmin {
					card.Actions = []Action{Accept, Reject}
				}
				cell.Cards = append(cell.Cards, card)
			}
			row.Cells[i] = cell
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// ItemIDs lists card ids row by row, then date by date. The TUI moves its
// cursor along this order.
func (g Grid) ItemIDs() []string {
	var ids []string
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			for _, card := range cell.Cards {
				ids = append(ids, card.ID)
			}
		}
	}
	return ids
}

// Card finds a card by id.
func (g Grid) Card(id string) (Card, bool) {
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			for _, card := range cell.Cards {
				if card.ID == id {
					return card, true
				}
			}
		}
	}
	return Card{}, false
}
