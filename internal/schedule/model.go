// Package schedule holds the state behind the schedules view: the current
// page of items, the job cache, paging and the pending error.
//
// Network operations come in three phases so an event loop can keep I/O off
// its own goroutine. Begin mutates state and returns a request, Load or
// Perform only talks to the backend, Apply folds the result back in. The
// Begin and Apply phases must run on the goroutine that owns the Model.
package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/daterange"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/models"
)

// Options configures a Model. Zero values select the defaults.
type Options struct {
	Period     string
	PageNumber int
	PageSize   int
	Now        func() time.Time
}

// Model is the schedules view state.
type Model struct {
	client     *api.Client
	basePeriod string
	pageSize   int
	now        func() time.Time

	data       *models.ScheduleResponse
	jobCache   *JobCache
	loading    bool
	err        string
	hovered    string
	pageNumber int

	// seq identifies the latest fetch; results carrying any other value are dropped.
	seq uint64
}

// New returns a Model reading credentials through client.
func New(client *api.Client, opts Options) *Model {
	if opts.Period == "" {
		opts.Period = constants.PeriodWeek
	}
	if opts.PageNumber < 1 {
		opts.PageNumber = 1
	}
	if opts.PageSize <= 0 {
		opts.PageSize = constants.DefaultPageSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Model{
		client:     client,
		basePeriod: opts.Period,
		pageSize:   opts.PageSize,
		now:        opts.Now,
		jobCache:   NewJobCache(),
		pageNumber: opts.PageNumber,
	}
}

// FetchRequest is a schedules fetch started by BeginFetch.
type FetchRequest struct {
	Seq   uint64
	Query models.ScheduleQuery
}

// FetchResult is the outcome of LoadSchedules.
type FetchResult struct {
	Seq  uint64
	Data *models.ScheduleResponse
	Err  error
}

// BeginFetch starts a fetch for the current page. Without a token it sets the
// error, clears loading and reports false; no request should be sent.
// Starting a fetch supersedes every earlier one.
func (m *Model) BeginFetch() (FetchRequest, bool) {
	m.seq++
	if !m.client.Credentials().HasToken() {
		m.err = api.Message(api.ErrUnauthenticated)
		m.loading = false
		return FetchRequest{}, false
	}
	m.loading = true
	m.err = ""
	return FetchRequest{Seq: m.seq, Query: m.Query()}, true
}

// LoadSchedules performs the request. It does not touch the Model's state.
func (m *Model) LoadSchedules(ctx context.Context, req FetchRequest) FetchResult {
	data, err := m.client.ListSchedules(ctx, req.Query)
	return FetchResult{Seq: req.Seq, Data: data, Err: err}
}

// ApplyFetch folds res into the state. A result from a superseded fetch is
// discarded and ApplyFetch reports false. On failure the previous data stays.
func (m *Model) ApplyFetch(res FetchResult) bool {
	if res.Seq != m.seq {
		logger.Debug("discarding stale schedules response", "seq", res.Seq, "latest", m.seq)
		return false
	}
	m.loading = false
	if res.Err != nil {
		m.err = api.Message(res.Err)
		return true
	}
	if res.Data != nil {
		for _, item := range res.Data.Items {
			m.jobCache.Set(item.JobID, item.JobLabel())
		}
	}
	m.data = res.Data
	return true
}

// FetchSchedules runs a whole fetch synchronously and returns its error.
func (m *Model) FetchSchedules(ctx context.Context) error {
	req, ok := m.BeginFetch()
	if !ok {
		return api.ErrUnauthenticated
	}
	res := m.LoadSchedules(ctx, req)
	m.ApplyFetch(res)
	return res.Err
}

// OwnJobResult is the outcome of LoadOwnJob.
type OwnJobResult struct {
	Jobs []models.JobInfo
	Err  error
}

// BeginOwnJob reports whether the own-job lookup should run.
func (m *Model) BeginOwnJob() bool {
	return m.client.Credentials().HasToken()
}

// LoadOwnJob looks up the caller's job without touching state.
func (m *Model) LoadOwnJob(ctx context.Context) OwnJobResult {
	jobs, err := m.client.OwnJob(ctx)
	return OwnJobResult{Jobs: jobs, Err: err}
}

// ApplyOwnJob adds unknown job ids to the cache. Known ids keep their title
// and failures are ignored. It returns the number of entries added.
func (m *Model) ApplyOwnJob(res OwnJobResult) int {
	if res.Err != nil {
		logger.Debug("own job lookup failed", "error", res.Err)
		return 0
	}
	added := 0
	for _, job := range res.Jobs {
		if job.JobID == "" {
			continue
		}
		if m.jobCache.SetIfAbsent(job.JobID, job.Title()) {
			added++
		}
	}
	return added
}

// FetchOwnJob runs the own-job lookup synchronously.
func (m *Model) FetchOwnJob(ctx context.Context) {
	if !m.BeginOwnJob() {
		return
	}
	m.ApplyOwnJob(m.LoadOwnJob(ctx))
}

// UpdateRequest is a status change started by BeginUpdate.
type UpdateRequest struct {
	ScheduleID string
	Status     int
}

// UpdateResult is the outcome of PerformUpdate.
type UpdateResult struct {
	Request UpdateRequest
	Err     error
}

// BeginUpdate checks the precondition for a status change. Without a token
// it sets the error and reports false.
func (m *Model) BeginUpdate(scheduleID string, status int) (UpdateRequest, bool) {
	if !m.client.Credentials().HasToken() {
		m.err = api.Message(api.ErrUnauthenticated)
		return UpdateRequest{}, false
	}
	return UpdateRequest{ScheduleID: scheduleID, Status: status}, true
}

// PerformUpdate sends the status change without touching state.
func (m *Model) PerformUpdate(ctx context.Context, req UpdateRequest) UpdateResult {
	return UpdateResult{Request: req, Err: m.client.UpdateStatus(ctx, req.ScheduleID, req.Status)}
}

// ApplyUpdate records a failure, or starts the refetch that follows a
// successful change. The data is never modified locally.
func (m *Model) ApplyUpdate(res UpdateResult) (FetchRequest, bool) {
	if res.Err != nil {
		m.err = api.Message(res.Err)
		return FetchRequest{}, false
	}
	logger.Info("schedule status updated", "id", res.Request.ScheduleID, "status", res.Request.Status)
	return m.BeginFetch()
}

// UpdateStatus changes one schedule's status and refetches on success.
func (m *Model) UpdateStatus(ctx context.Context, scheduleID string, status int) error {
	req, ok := m.BeginUpdate(scheduleID, status)
	if !ok {
		return api.ErrUnauthenticated
	}
	res := m.PerformUpdate(ctx, req)
	next, ok := m.ApplyUpdate(res)
	if !ok {
		return res.Err
	}
	fetched := m.LoadSchedules(ctx, next)
	m.ApplyFetch(fetched)
	return fetched.Err
}

// Jobs lists the grid rows: ids from the current data first, titled from the
// data, followed by cached ids the data does not mention.
func (m *Model) Jobs() []models.Job {
	var jobs []models.Job
	index := make(map[string]int)
	if m.data != nil {
		for _, item := range m.data.Items {
			title := item.JobLabel()
			if i, ok := index[item.JobID]; ok {
				jobs[i].Title = title
				continue
			}
			index[item.JobID] = len(jobs)
			jobs = append(jobs, models.Job{ID: item.JobID, Title: title})
		}
	}
	for _, job := range m.jobCache.Jobs() {
		if _, ok := index[job.ID]; ok {
			continue
		}
		index[job.ID] = len(jobs)
		jobs = append(jobs, job)
	}
	return jobs
}

// Dates is the seven-day window for the current page.
func (m *Model) Dates() []time.Time {
	return daterange.Dates(m.pageNumber, m.now())
}

// HeaderRange is the human readable span of Dates.
func (m *Model) HeaderRange() string {
	return daterange.HeaderRange(m.Dates())
}

// Period is the period sent for the current page.
func (m *Model) Period() string {
	return daterange.ComputePeriod(m.pageNumber, m.basePeriod)
}

// Query is the list query for the current page.
func (m *Model) Query() models.ScheduleQuery {
	return models.ScheduleQuery{
		Period:     m.Period(),
		PageNumber: m.pageNumber,
		PageSize:   m.pageSize,
	}
}

// PrevPage moves back one page, stopping at 1, and returns the new page.
func (m *Model) PrevPage() int {
	if m.pageNumber > 1 {
		m.pageNumber--
	}
	return m.pageNumber
}

// NextPage moves forward one page. It does not consult LastPage.
func (m *Model) NextPage() int {
	m.pageNumber++
	return m.pageNumber
}

// SetPage jumps to page, clamped to 1.
func (m *Model) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	m.pageNumber = page
}

// LastPage derives the final page from the last response. It is advisory;
// ok is false when no response with a usable size has arrived.
func (m *Model) LastPage() (last int, ok bool) {
	if m.data == nil {
		return 0, false
	}
	size := m.data.PageSize
	if size <= 0 {
		size = m.pageSize
	}
	if m.data.TotalCount <= 0 {
		return 1, true
	}
	return (m.data.TotalCount + size - 1) / size, true
}

// Role is the stored role, trimmed.
func (m *Model) Role() string {
	return m.client.Credentials().Role()
}

// IsAdmin reports whether the stored role is admin, ignoring case.
func (m *Model) IsAdmin() bool {
	return strings.EqualFold(m.Role(), constants.RoleAdmin)
}

// Hover marks the item under the cursor. An empty id clears it.
func (m *Model) Hover(id string) {
	m.hovered = id
}

func (m *Model) Hovered() string                { return m.hovered }
func (m *Model) Data() *models.ScheduleResponse { return m.data }
func (m *Model) JobCache() *JobCache            { return m.jobCache }
func (m *Model) Loading() bool                  { return m.loading }
func (m *Model) Error() string                  { return m.err }
func (m *Model) PageNumber() int                { return m.pageNumber }
func (m *Model) PageSize() int                  { return m.pageSize }
