// Package tui is the interactive front end: signup, login, the schedules
// grid and the new appointment form, switched by path like a small router.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/grid"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/routes"
	"github.com/julianstephens/shiftdesk/internal/schedule"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

// Options configures the program. Zero values select the defaults.
type Options struct {
	// Start is the first path shown, e.g. "/login".
	Start         string
	PageSize      int
	RedirectDelay time.Duration
	Now           func() time.Time
}

type Model struct {
	client    *api.Client
	validator *validation.Validator
	opts      Options

	state constants.SessionState
	route routes.Route
	keys  KeyMap
	help  help.Model
	spin  spinner.Model

	form            *huh.Form
	signupForm      *SignupFormModel
	loginForm       *LoginFormModel
	appointmentForm *AppointmentFormModel

	schedules *schedule.Model
	cursor    int

	status      string // success message for the current screen
	formError   string
	jobError    string
	submitting  bool
	redirecting bool
	quitting    bool
	width       int
	height      int
}

func NewModel(client *api.Client, opts Options) Model {
	if opts.Start == "" {
		opts.Start = routes.PathSignup
	}
	if opts.PageSize <= 0 {
		opts.PageSize = constants.DefaultPageSize
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = constants.DefaultRedirectDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := Model{
		client:    client,
		validator: validation.NewWithClock(opts.Now),
		opts:      opts,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spin:      spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.enter(routes.Parse(opts.Start))
	return m
}

func (m Model) ShortHelp() []key.Binding {
	if m.state != constants.StateSchedules {
		return []key.Binding{m.keys.Back}
	}
	keys := []key.Binding{m.keys.PrevPage, m.keys.NextPage, m.keys.Up, m.keys.Down}
	if m.schedules.IsAdmin() {
		keys = append(keys, m.keys.Accept, m.keys.Reject)
	}
	return append(keys, m.keys.New, m.keys.Logout, m.keys.Quit, m.keys.Help)
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != constants.StateSchedules {
		return [][]key.Binding{m.ShortHelp()}
	}
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return m.screenCmd()
}

// Screen reports the screen currently shown.
func (m Model) Screen() constants.SessionState { return m.state }

// Route reports the path the current screen was entered through.
func (m Model) Route() routes.Route { return m.route }

// enter switches to r and resets the per-screen state. It does not start any
// I/O; screenCmd does that.
func (m *Model) enter(r routes.Route) {
	logger.Debug("navigating", "path", r.Path)
	m.route = r
	m.state = r.Screen
	m.status = ""
	m.formError = ""
	m.jobError = ""
	m.submitting = false
	m.redirecting = false
	m.form = nil

	switch r.Screen {
	case constants.StateSignup:
		m.signupForm = &SignupFormModel{}
		m.form = NewSignupForm(m.signupForm)
	case constants.StateLogin:
		m.loginForm = &LoginFormModel{}
		m.form = NewLoginForm(m.loginForm)
	case constants.StateSchedules:
		m.schedules = schedule.New(m.client, schedule.Options{
			Period:     r.Period,
			PageNumber: r.PageNumber,
			PageSize:   m.opts.PageSize,
			Now:        m.opts.Now,
		})
		m.cursor = 0
		m.syncRoute()
	case constants.StateNewAppointment:
		m.appointmentForm = &AppointmentFormModel{}
		m.form = NewAppointmentForm(m.appointmentForm, m.validator)
		if !m.client.Credentials().HasToken() {
			m.jobError = api.Message(api.ErrUnauthenticated)
		}
	}
}

// screenCmd starts whatever the current screen loads on entry. It only
// touches state reachable through pointers, so Init may call it on a copy.
func (m *Model) screenCmd() tea.Cmd {
	switch m.state {
	case constants.StateSchedules:
		return tea.Batch(fetchCmd(m.schedules), ownJobCmd(m.schedules), m.spin.Tick)
	case constants.StateNewAppointment:
		if !m.client.Credentials().HasToken() {
			return m.form.Init()
		}
		return tea.Batch(m.form.Init(), jobCmd(m.client))
	default:
		if m.form != nil {
			return m.form.Init()
		}
		return nil
	}
}

func (m *Model) navigate(path string) tea.Cmd {
	m.enter(routes.Parse(path))
	return m.screenCmd()
}

// syncRoute points the route at the page the schedules view is showing.
func (m *Model) syncRoute() {
	m.route.Period = m.schedules.Period()
	m.route.PageNumber = m.schedules.PageNumber()
	m.route.PageSize = m.schedules.PageSize()
}

// buildGrid lays out the current page with the hovered card marked.
func (m Model) buildGrid() grid.Grid {
	vm := m.schedules
	return grid.Build(vm.Dates(), vm.Jobs(), vm.Data(), vm.Role(), vm.Hovered())
}

// syncCursor keeps the cursor on a card that still exists after the data
// changed, hovering the first card when the old one is gone.
func (m *Model) syncCursor() {
	ids := m.buildGrid().ItemIDs()
	if len(ids) == 0 {
		m.cursor = 0
		m.schedules.Hover("")
		return
	}
	for i, id := range ids {
		if id == m.schedules.Hovered() {
			m.cursor = i
			return
		}
	}
	if m.cursor >= len(ids) {
		m.cursor = len(ids) - 1
	}
	m.schedules.Hover(ids[m.cursor])
}

func (m *Model) moveCursor(delta int) {
	ids := m.buildGrid().ItemIDs()
	if len(ids) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(ids) {
		m.cursor = len(ids) - 1
	}
	m.schedules.Hover(ids[m.cursor])
}

// hoveredJob returns the job id of the row holding the hovered card.
func (m Model) hoveredJob() string {
	hovered := m.schedules.Hovered()
	if hovered == "" {
		return ""
	}
	for _, row := range m.buildGrid().Rows {
		for _, cell := range row.Cells {
			for _, card := range cell.Cards {
				if card.ID == hovered {
					return row.Job.ID
				}
			}
		}
	}
	return ""
}
