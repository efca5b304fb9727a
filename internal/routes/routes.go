// Package routes maps navigation paths onto TUI screens.
package routes

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// SchedulesAfterLogin is where a successful login navigates to.
const SchedulesAfterLogin = "/schedules?Period=week&PageNumber=1&PageSize=5"

const (
	PathSignup         = "/"
	PathLogin          = "/login"
	PathSchedules      = "/schedules"
	PathNewAppointment = "/schedules/new"
)

// Route is a resolved path.
type Route struct {
	Screen constants.SessionState
	Path   string

	Period     string
	PageNumber int
	PageSize   int
	JobID      string
}

// Parse resolves path. Unknown paths resolve to the signup screen.
func Parse(path string) Route {
	u, err := url.Parse(path)
	if err != nil {
		return Route{Screen: constants.StateSignup, Path: PathSignup}
	}
	p := strings.TrimSuffix(u.Path, "/")
	if p == "" {
		p = PathSignup
	}
	q := u.Query()

	switch p {
	case PathSignup:
		return Route{Screen: constants.StateSignup, Path: p}
	case PathLogin:
		return Route{Screen: constants.StateLogin, Path: p}
	case PathSchedules:
		return Route{
			Screen:     constants.StateSchedules,
			Path:       p,
			Period:     q.Get("Period"),
			PageNumber: positive(q.Get("PageNumber")),
			PageSize:   positive(q.Get("PageSize")),
		}
	case PathNewAppointment:
		return Route{Screen: constants.StateNewAppointment, Path: p, JobID: q.Get("jobId")}
	default:
		return Route{Screen: constants.StateSignup, Path: PathSignup}
	}
}

// NewAppointment builds the appointment path, carrying jobID when set.
func NewAppointment(jobID string) string {
	if jobID == "" {
		return PathNewAppointment
	}
	return PathNewAppointment + "?" + url.Values{"jobId": {jobID}}.Encode()
}

// positive parses s, mapping anything that is not a positive integer to 0.
func positive(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}
