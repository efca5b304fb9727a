package routes

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

func TestParse(t *testing.T) {
	tests := []struct {
		path string
		want Route
	}{
		{path: "/", want: Route{Screen: constants.StateSignup, Path: "/"}},
		{path: "", want: Route{Screen: constants.StateSignup, Path: "/"}},
		{path: "/login", want: Route{Screen: constants.StateLogin, Path: "/login"}},
		{path: "/login/", want: Route{Screen: constants.StateLogin, Path: "/login"}},
		{
			path: SchedulesAfterLogin,
			want: Route{Screen: constants.StateSchedules, Path: "/schedules", Period: "week", PageNumber: 1, PageSize: 5},
		},
		{
			path: "/schedules?PageNumber=abc&PageSize=-1",
			want: Route{Screen: constants.StateSchedules, Path: "/schedules"},
		},
		{path: "/schedules/new?jobId=j1", want: Route{Screen: constants.StateNewAppointment, Path: "/schedules/new", JobID: "j1"}},
		{path: "/nowhere", want: Route{Screen: constants.StateSignup, Path: "/"}},
		{path: "%zz", want: Route{Screen: constants.StateSignup, Path: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Parse(tt.path)); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestNewAppointment(t *testing.T) {
	if got := NewAppointment(""); got != "/schedules/new" {
		t.Errorf("NewAppointment(\"\") = %q", got)
	}
	if got := NewAppointment("j 1"); got != "/schedules/new?jobId=j+1" {
		t.Errorf("NewAppointment(\"j 1\") = %q", got)
	}
	if r := Parse(NewAppointment("j 1")); r.JobID != "j 1" {
		t.Errorf("round trip JobID = %q", r.JobID)
	}
}
