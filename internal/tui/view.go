package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/grid"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateSignup:
		content = m.viewForm("Auth · POST /api/Auth/signup", "Create your account", "Press esc to log in instead.")
	case constants.StateLogin:
		content = m.viewForm("Auth · POST /api/Auth/login", "Log in", "Press esc to create an account.")
	case constants.StateNewAppointment:
		content = m.viewForm("Schedules · POST /api/Schedules", "New appointment", "Job ID must match your job. Press esc to go back to schedules.")
	case constants.StateSchedules:
		content = m.viewSchedules()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.help.View(m),
	))
}

func (m Model) viewForm(eyebrow, title, hint string) string {
	parts := []string{
		eyebrowStyle.Render(eyebrow),
		titleStyle.Render(title),
		eyebrowStyle.Render(hint),
		"",
	}
	if m.form != nil && !m.redirecting {
		parts = append(parts, m.form.View())
	}
	if m.jobError != "" {
		parts = append(parts, errorBanner(m.jobError))
	}
	if m.formError != "" {
		parts = append(parts, errorBanner(m.formError))
	} else if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	if m.submitting {
		parts = append(parts, eyebrowStyle.Render("Submitting..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewSchedules() string {
	vm := m.schedules

	header := titleStyle.Render("Schedules")
	if r := vm.HeaderRange(); r != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", r)
	}

	parts := []string{
		eyebrowStyle.Render("Schedules · GET /api/Schedules"),
		header,
		m.viewPager(),
	}
	if msg := vm.Error(); msg != "" {
		parts = append(parts, errorBanner(msg))
	}
	parts = append(parts, "", grid.Render(m.buildGrid()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewPager() string {
	vm := m.schedules
	style := activePagerStyle
	if vm.Loading() {
		style = inactivePagerStyle
	}

	label := fmt.Sprintf("Page %d", vm.PageNumber())
	if last, ok := vm.LastPage(); ok {
		label = fmt.Sprintf("Page %d of %d", vm.PageNumber(), last)
	}

	pager := lipgloss.JoinHorizontal(lipgloss.Top,
		style.Render("<<"),
		" "+label+" ",
		style.Render(">>"),
	)
	if vm.Loading() {
		pager = lipgloss.JoinHorizontal(lipgloss.Top, pager, "  ", m.spin.View(), " Loading...")
	}
	return pager
}
