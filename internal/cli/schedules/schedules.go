package schedules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/grid"
	"github.com/julianstephens/shiftdesk/internal/models"
	"github.com/julianstephens/shiftdesk/internal/schedule"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

// ErrNotAdmin is returned when a non-admin tries to change a status.
var ErrNotAdmin = errors.New("only admins can change a schedule's status")

type ScheduleCmd struct {
	List    ListCmd    `cmd:"" help:"Show the schedule grid for a page." default:"1"`
	New     NewCmd     `cmd:"" help:"Book a new appointment for your job."`
	Approve ApproveCmd `cmd:"" help:"Approve a schedule (admins only)."`
	Reject  RejectCmd  `cmd:"" help:"Reject a schedule (admins only)."`
}

type ListCmd struct {
	Page     int    `help:"Page number, 1 is the current week." default:"1"`
	Period   string `help:"Base period for the first page." enum:"week,month,year" default:"week"`
	PageSize int    `help:"Items per page (defaults to the configured page size)." name:"page-size"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	vm, err := ctx.ScheduleModel(schedule.Options{Period: c.Period, PageNumber: c.Page, PageSize: c.PageSize})
	if err != nil {
		return err
	}
	if err := Load(context.Background(), vm); err != nil {
		return cli.APIError(err)
	}
	Print(ctx, vm)
	return nil
}

// Load fetches the page and the caller's job at the same time. A failed page
// load cancels the job lookup. The own-job result is applied after the page so
// titles from the page win.
func Load(ctx context.Context, vm *schedule.Model) error {
	req, ok := vm.BeginFetch()
	if !ok {
		return api.ErrUnauthenticated
	}
	wantJob := vm.BeginOwnJob()

	var fetched schedule.FetchResult
	var own schedule.OwnJobResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched = vm.LoadSchedules(gctx, req)
		return fetched.Err
	})
	if wantJob {
		g.Go(func() error {
			own = vm.LoadOwnJob(gctx)
			return nil
		})
	}
	err := g.Wait()

	vm.ApplyFetch(fetched)
	if wantJob {
		vm.ApplyOwnJob(own)
	}
	return err
}

// Print writes the header range, paging line and grid.
func Print(ctx *cli.Context, vm *schedule.Model) {
	ctx.Println(vm.HeaderRange())
	page := fmt.Sprintf("Page %d", vm.PageNumber())
	if last, ok := vm.LastPage(); ok {
		page += fmt.Sprintf(" of %d", last)
	}
	ctx.Printf("%s (%s)\n", page, vm.Period())
	if msg := vm.Error(); msg != "" {
		ctx.Printf("Error: %s\n", msg)
	}

	g := grid.Build(vm.Dates(), vm.Jobs(), vm.Data(), vm.Role(), vm.Hovered())
	ctx.Println(grid.Render(g))
	if vm.IsAdmin() {
		if ids := g.ItemIDs(); len(ids) > 0 {
			ctx.Printf("Schedule IDs: %s\n", strings.Join(ids, ", "))
		}
	}
}

type NewCmd struct {
	Date string `help:"Appointment date (YYYY-MM-DD)." required:""`
}

func (c *NewCmd) Run(ctx *cli.Context) error {
	client, err := ctx.API()
	if err != nil {
		return err
	}
	if !ctx.Creds.HasToken() {
		return cli.APIError(api.ErrUnauthenticated)
	}

	bg := context.Background()
	var jobID string
	jobs, err := client.OwnJob(bg)
	if err == nil && len(jobs) > 0 {
		jobID = jobs[0].JobID
	}

	req := models.CreateScheduleRequest{JobID: jobID, Date: c.Date}
	if res := validation.New().CreateSchedule(req); res.HasProblems() {
		return res.Err()
	}
	if err := client.CreateSchedule(bg, req); err != nil {
		return cli.APIError(err)
	}
	ctx.Println("Appointment created.")
	return nil
}

type ApproveCmd struct {
	ID string `arg:"" help:"Schedule ID."`
}

func (c *ApproveCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, constants.StatusApproved, "approved")
}

type RejectCmd struct {
	ID string `arg:"" help:"Schedule ID."`
}

func (c *RejectCmd) Run(ctx *cli.Context) error {
	return setStatus(ctx, c.ID, constants.StatusRejected, "rejected")
}

func setStatus(ctx *cli.Context, id string, status int, verb string) error {
	vm, err := ctx.ScheduleModel(schedule.Options{})
	if err != nil {
		return err
	}
	if !ctx.Creds.HasToken() {
		return cli.APIError(api.ErrUnauthenticated)
	}
	if !vm.IsAdmin() {
		return ErrNotAdmin
	}
	if err := vm.UpdateStatus(context.Background(), id, status); err != nil {
		return cli.APIError(err)
	}
	ctx.Printf("Schedule %s %s.\n", id, verb)
	return nil
}
