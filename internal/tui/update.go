package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/grid"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/routes"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

const (
	msgAccountCreated     = "Account created (201). Redirecting to login..."
	msgLoggedIn           = "Logged in (200)."
	msgAppointmentCreated = "Appointment created."
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case navigateMsg:
		cmd := m.navigate(msg.path)
		return m, cmd

	case signupMsg:
		return m.handleSignup(msg)
	case loginMsg:
		return m.handleLogin(msg)
	case createMsg:
		return m.handleCreate(msg)
	case jobMsg:
		return m.handleJob(msg)

	case fetchMsg:
		if msg.vm != m.schedules {
			return m, nil
		}
		if msg.vm.ApplyFetch(msg.res) {
			m.syncCursor()
		}
		return m, nil

	case ownJobMsg:
		if msg.vm != m.schedules {
			return m, nil
		}
		if msg.vm.ApplyOwnJob(msg.res) > 0 {
			m.syncCursor()
		}
		return m, nil

	case updateMsg:
		if msg.vm != m.schedules {
			return m, nil
		}
		next, ok := msg.vm.ApplyUpdate(msg.res)
		if !ok {
			return m, nil
		}
		return m, loadCmd(msg.vm, next)

	case spinner.TickMsg:
		if m.state != constants.StateSchedules {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.state == constants.StateSchedules {
		return m.updateSchedules(msg)
	}
	return m.updateForm(msg)
}

func (m Model) updateSchedules(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	vm := m.schedules

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(keyMsg, m.keys.PrevPage):
		if vm.Loading() || vm.PageNumber() <= 1 {
			return m, nil
		}
		vm.PrevPage()
		m.syncRoute()
		return m, fetchCmd(vm)
	case key.Matches(keyMsg, m.keys.NextPage):
		if vm.Loading() {
			return m, nil
		}
		vm.NextPage()
		m.syncRoute()
		return m, fetchCmd(vm)
	case key.Matches(keyMsg, m.keys.Refresh):
		if vm.Loading() {
			return m, nil
		}
		return m, fetchCmd(vm)
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(keyMsg, m.keys.Accept):
		cmd := m.changeStatus(grid.Accept)
		return m, cmd
	case key.Matches(keyMsg, m.keys.Reject):
		cmd := m.changeStatus(grid.Reject)
		return m, cmd
	case key.Matches(keyMsg, m.keys.New):
		cmd := m.navigate(routes.NewAppointment(m.hoveredJob()))
		return m, cmd
	case key.Matches(keyMsg, m.keys.Logout):
		if err := m.client.Credentials().Clear(); err != nil {
			logger.Warn("failed to clear credentials", "error", err)
		}
		cmd := m.navigate(routes.PathLogin)
		return m, cmd
	}
	return m, nil
}

// changeStatus applies action to the hovered card when it offers one.
func (m *Model) changeStatus(action grid.Action) tea.Cmd {
	card, ok := m.buildGrid().Card(m.schedules.Hovered())
	if !ok {
		return nil
	}
	for _, a := range card.Actions {
		if a == action {
			return updateCmd(m.schedules, card.ID, a.Status)
		}
	}
	return nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		switch m.state {
		case constants.StateSignup:
			cmd := m.navigate(routes.PathLogin)
			return m, cmd
		case constants.StateLogin:
			cmd := m.navigate(routes.PathSignup)
			return m, cmd
		case constants.StateNewAppointment:
			cmd := m.navigate(routes.PathSchedules)
			return m, cmd
		}
	}
	if m.form == nil || m.submitting || m.redirecting {
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		cmds = append(cmds, m.submit())
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, tea.Batch(cmds...)
}

// submit validates the completed form and sends it. A rejected form is
// rebuilt with its values kept so the user can correct it.
func (m *Model) submit() tea.Cmd {
	m.formError = ""
	m.status = ""

	switch m.state {
	case constants.StateSignup:
		req := m.signupForm.Request()
		if res := m.validator.Signup(req); res.HasProblems() {
			return m.reject(res.Err().Error())
		}
		m.submitting = true
		return signupCmd(m.client, req)
	case constants.StateLogin:
		req := m.loginForm.Request()
		if res := m.validator.Login(req); res.HasProblems() {
			return m.reject(res.Err().Error())
		}
		m.submitting = true
		return loginCmd(m.client, req)
	case constants.StateNewAppointment:
		req := m.appointmentForm.Request()
		if res := m.validator.CreateSchedule(req); res.HasProblems() {
			return m.reject(res.Err().Error())
		}
		m.submitting = true
		return createCmd(m.client, req)
	}
	return nil
}

// reject shows msg and puts a fresh form back on screen.
func (m *Model) reject(msg string) tea.Cmd {
	m.formError = msg
	m.submitting = false
	switch m.state {
	case constants.StateSignup:
		m.form = NewSignupForm(m.signupForm)
	case constants.StateLogin:
		m.form = NewLoginForm(m.loginForm)
	case constants.StateNewAppointment:
		m.form = NewAppointmentForm(m.appointmentForm, m.validator)
	default:
		return nil
	}
	return m.form.Init()
}

func (m Model) handleSignup(msg signupMsg) (tea.Model, tea.Cmd) {
	if m.state != constants.StateSignup || !m.submitting {
		return m, nil
	}
	if msg.err != nil {
		cmd := m.reject(api.Message(msg.err))
		return m, cmd
	}
	m.submitting = false
	m.redirecting = true
	m.status = msgAccountCreated
	return m, redirectAfter(m.opts.RedirectDelay, routes.PathLogin)
}

func (m Model) handleLogin(msg loginMsg) (tea.Model, tea.Cmd) {
	if m.state != constants.StateLogin || !m.submitting {
		return m, nil
	}
	if msg.err != nil {
		cmd := m.reject(api.Message(msg.err))
		return m, cmd
	}
	logger.Info("logged in", "role", msg.cred.Role)
	m.submitting = false
	m.redirecting = true
	m.status = msgLoggedIn
	return m, redirectAfter(m.opts.RedirectDelay, routes.SchedulesAfterLogin)
}

func (m Model) handleCreate(msg createMsg) (tea.Model, tea.Cmd) {
	if m.state != constants.StateNewAppointment || !m.submitting {
		return m, nil
	}
	if msg.err != nil {
		cmd := m.reject(api.Message(msg.err))
		return m, cmd
	}
	m.submitting = false
	m.redirecting = true
	m.status = msgAppointmentCreated
	return m, redirectAfter(m.opts.RedirectDelay, routes.PathSchedules)
}

func (m Model) handleJob(msg jobMsg) (tea.Model, tea.Cmd) {
	if m.state != constants.StateNewAppointment {
		return m, nil
	}
	if msg.err != nil {
		m.jobError = api.Message(msg.err)
		return m, nil
	}
	for _, job := range msg.jobs {
		if job.JobID == "" {
			continue
		}
		m.jobError = ""
		m.appointmentForm.JobID = job.JobID
		m.appointmentForm.JobName = job.Title()
		if m.submitting || m.redirecting {
			return m, nil
		}
		m.form = NewAppointmentForm(m.appointmentForm, m.validator)
		return m, m.form.Init()
	}
	m.jobError = validation.MsgJobNotLoaded
	return m, nil
}
