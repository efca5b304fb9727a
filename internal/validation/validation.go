// Package validation checks form input locally before anything is sent.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/daterange"
	"github.com/julianstephens/shiftdesk/internal/models"
)

// Field names the input a problem belongs to.
type Field string

const (
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldFirstName       Field = "firstName"
	FieldLastName        Field = "lastName"
	FieldJobTitle        Field = "jobTitle"
	FieldJob             Field = "jobId"
	FieldDate            Field = "date"
)

// Messages shown for form-level problems.
const (
	MsgPasswordMismatch = "Passwords do not match."
	MsgJobNotLoaded     = "Job info not loaded. Please try again."
)

// Problem is one rejected field.
type Problem struct {
	Field   Field
	Message string
}

// Result collects the problems found in one form.
type Result struct {
	Problems []Problem
}

// HasProblems returns true if any field was rejected
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// Err returns the first problem as an error, or nil.
func (r *Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	return errors.New(r.Problems[0].Message)
}

// FormatReport lists every problem on its own line.
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Message)
	}
	return b.String()
}

func (r *Result) add(field Field, err error) {
	if err != nil {
		r.Problems = append(r.Problems, Problem{Field: field, Message: err.Error()})
	}
}

// Validator validates the signup, login and appointment forms.
type Validator struct {
	now func() time.Time
}

// New creates a Validator using the wall clock.
func New() *Validator {
	return &Validator{now: time.Now}
}

// NewWithClock creates a Validator whose notion of today comes from now.
func NewWithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

// Signup checks the signup form. A password mismatch is reported only when
// both passwords were entered.
func (v *Validator) Signup(req models.SignupRequest) Result {
	var r Result
	r.add(FieldEmail, Email(req.Email))
	r.add(FieldPassword, Password(req.Password))
	r.add(FieldConfirmPassword, Required("Confirm password")(req.ConfirmPassword))
	r.add(FieldFirstName, Required("First name")(req.FirstName))
	r.add(FieldLastName, Required("Last name")(req.LastName))
	r.add(FieldJobTitle, Required("Job title")(req.JobTitle))
	if req.Password != "" && req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		r.add(FieldConfirmPassword, errors.New(MsgPasswordMismatch))
	}
	return r
}

// Login checks that both credentials were entered.
func (v *Validator) Login(req models.LoginRequest) Result {
	var r Result
	r.add(FieldEmail, Required("Email")(req.Email))
	r.add(FieldPassword, Required("Password")(req.Password))
	return r
}

// CreateSchedule checks the appointment form. JobID is the caller's job as
// loaded from the backend and stays empty until that lookup succeeds.
func (v *Validator) CreateSchedule(req models.CreateScheduleRequest) Result {
	var r Result
	if strings.TrimSpace(req.JobID) == "" {
		r.add(FieldJob, errors.New(MsgJobNotLoaded))
	}
	r.add(FieldDate, v.Date(req.Date))
	return r
}

// Required returns a validator rejecting blank input for the named field.
func Required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required.", name)
		}
		return nil
	}
}

// Email accepts a bare address such as a@b.c.
func Email(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Email is required.")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		return errors.New("Enter a valid email address.")
	}
	return nil
}

// Password enforces the minimum length.
func Password(s string) error {
	if s == "" {
		return errors.New("Password is required.")
	}
	if len([]rune(s)) < constants.MinPasswordLength {
		return fmt.Errorf("Password must be at least %d characters.", constants.MinPasswordLength)
	}
	return nil
}

// Date accepts YYYY-MM-DD no earlier than today.
func (v *Validator) Date(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("Date is required.")
	}
	now := v.now()
	d, err := time.ParseInLocation(constants.DateFormat, s, now.Location())
	if err != nil {
		return errors.New("Date must use the YYYY-MM-DD format.")
	}
	if d.Before(daterange.StartOfDay(now)) {
		return errors.New("Date cannot be in the past.")
	}
	return nil
}
