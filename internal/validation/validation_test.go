package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/shiftdesk/internal/models"
)

func validSignup() models.SignupRequest {
	return models.SignupRequest{
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		JobTitle:        "Sales",
	}
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.SignupRequest)
		wantField Field
		wantMsg   string
	}{
		{name: "valid", mutate: func(*models.SignupRequest) {}},
		{name: "mismatch", mutate: func(r *models.SignupRequest) { r.ConfirmPassword = "secret2" }, wantField: FieldConfirmPassword, wantMsg: MsgPasswordMismatch},
		{name: "short password", mutate: func(r *models.SignupRequest) { r.Password, r.ConfirmPassword = "abc", "abc" }, wantField: FieldPassword, wantMsg: "Password must be at least 6 characters."},
		{name: "bad email", mutate: func(r *models.SignupRequest) { r.Email = "ada" }, wantField: FieldEmail, wantMsg: "Enter a valid email address."},
		{name: "display name email", mutate: func(r *models.SignupRequest) { r.Email = "Ada <ada@example.com>" }, wantField: FieldEmail, wantMsg: "Enter a valid email address."},
		{name: "missing job title", mutate: func(r *models.SignupRequest) { r.JobTitle = "  " }, wantField: FieldJobTitle, wantMsg: "Job title is required."},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			res := v.Signup(req)
			if tt.wantMsg == "" {
				if res.HasProblems() {
					t.Fatalf("unexpected problems: %s", res.FormatReport())
				}
				return
			}
			if len(res.Problems) != 1 {
				t.Fatalf("problems = %+v, want exactly one", res.Problems)
			}
			if res.Problems[0].Field != tt.wantField || res.Problems[0].Message != tt.wantMsg {
				t.Errorf("problem = %+v, want %s %q", res.Problems[0], tt.wantField, tt.wantMsg)
			}
			if res.Err() == nil || res.Err().Error() != tt.wantMsg {
				t.Errorf("Err() = %v", res.Err())
			}
		})
	}
}

func TestSignupMismatchNeedsBothPasswords(t *testing.T) {
	req := validSignup()
	req.ConfirmPassword = ""
	res := New().Signup(req)
	for _, p := range res.Problems {
		if p.Message == MsgPasswordMismatch {
			t.Error("mismatch reported with an empty confirmation")
		}
	}
}

func TestLogin(t *testing.T) {
	v := New()
	if res := v.Login(models.LoginRequest{Email: "a@b.c", Password: "x"}); res.HasProblems() {
		t.Errorf("unexpected problems: %s", res.FormatReport())
	}
	res := v.Login(models.LoginRequest{})
	if len(res.Problems) != 2 {
		t.Fatalf("problems = %+v, want 2", res.Problems)
	}
	if !strings.Contains(res.FormatReport(), "- Email is required.\n") {
		t.Errorf("FormatReport() = %q", res.FormatReport())
	}
}

func TestCreateSchedule(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.June, 10, 18, 30, 0, 0, time.Local) }
	v := NewWithClock(now)

	tests := []struct {
		name    string
		req     models.CreateScheduleRequest
		wantMsg string
	}{
		{name: "today", req: models.CreateScheduleRequest{JobID: "j1", Date: "2024-06-10"}},
		{name: "future", req: models.CreateScheduleRequest{JobID: "j1", Date: "2025-01-01"}},
		{name: "past", req: models.CreateScheduleRequest{JobID: "j1", Date: "2024-06-09"}, wantMsg: "Date cannot be in the past."},
		{name: "bad format", req: models.CreateScheduleRequest{JobID: "j1", Date: "06/10/2024"}, wantMsg: "Date must use the YYYY-MM-DD format."},
		{name: "no date", req: models.CreateScheduleRequest{JobID: "j1"}, wantMsg: "Date is required."},
		{name: "job not loaded", req: models.CreateScheduleRequest{Date: "2024-06-10"}, wantMsg: MsgJobNotLoaded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.CreateSchedule(tt.req)
			if tt.wantMsg == "" {
				if res.HasProblems() {
					t.Fatalf("unexpected problems: %s", res.FormatReport())
				}
				return
			}
			if err := res.Err(); err == nil || err.Error() != tt.wantMsg {
				t.Errorf("Err() = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}
