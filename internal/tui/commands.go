package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/models"
	"github.com/julianstephens/shiftdesk/internal/schedule"
)

// navigateMsg moves the program to another path.
type navigateMsg struct {
	path string
}

type signupMsg struct {
	err error
}

type loginMsg struct {
	cred models.Credential
	err  error
}

type createMsg struct {
	err error
}

// jobMsg carries the own-job lookup for the appointment screen.
type jobMsg struct {
	jobs []models.JobInfo
	err  error
}

// The schedule messages carry the view model that started them so results
// arriving after the user left the screen are dropped.
type fetchMsg struct {
	vm  *schedule.Model
	res schedule.FetchResult
}

type ownJobMsg struct {
	vm  *schedule.Model
	res schedule.OwnJobResult
}

type updateMsg struct {
	vm  *schedule.Model
	res schedule.UpdateResult
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), constants.DefaultTimeout)
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

func redirectAfter(delay time.Duration, path string) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return navigateMsg{path: path}
	})
}

func signupCmd(client *api.Client, req models.SignupRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return signupMsg{err: client.Signup(ctx, req)}
	}
}

func loginCmd(client *api.Client, req models.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		cred, err := client.Login(ctx, req)
		return loginMsg{cred: cred, err: err}
	}
}

func createCmd(client *api.Client, req models.CreateScheduleRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return createMsg{err: client.CreateSchedule(ctx, req)}
	}
}

func jobCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		jobs, err := client.OwnJob(ctx)
		return jobMsg{jobs: jobs, err: err}
	}
}

func loadCmd(vm *schedule.Model, req schedule.FetchRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return fetchMsg{vm: vm, res: vm.LoadSchedules(ctx, req)}
	}
}

// fetchCmd begins a fetch on vm. It returns nil when no request goes out.
func fetchCmd(vm *schedule.Model) tea.Cmd {
	req, ok := vm.BeginFetch()
	if !ok {
		return nil
	}
	return loadCmd(vm, req)
}

func ownJobCmd(vm *schedule.Model) tea.Cmd {
	if !vm.BeginOwnJob() {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return ownJobMsg{vm: vm, res: vm.LoadOwnJob(ctx)}
	}
}

func updateCmd(vm *schedule.Model, id string, status int) tea.Cmd {
	req, ok := vm.BeginUpdate(id, status)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		return updateMsg{vm: vm, res: vm.PerformUpdate(ctx, req)}
	}
}
