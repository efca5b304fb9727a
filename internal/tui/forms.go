package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftdesk/internal/models"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

// SignupFormModel backs the signup form fields.
type SignupFormModel struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	JobTitle        string
}

func (f *SignupFormModel) Request() models.SignupRequest {
	return models.SignupRequest{
		Email:           strings.TrimSpace(f.Email),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		JobTitle:        strings.TrimSpace(f.JobTitle),
	}
}

// LoginFormModel backs the login form fields.
type LoginFormModel struct {
	Email    string
	Password string
}

func (f *LoginFormModel) Request() models.LoginRequest {
	return models.LoginRequest{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

// AppointmentFormModel backs the new appointment form. JobID and JobName are
// filled by the own-job lookup, never typed.
type AppointmentFormModel struct {
	JobID   string
	JobName string
	Date    string
}

func (f *AppointmentFormModel) Request() models.CreateScheduleRequest {
	return models.CreateScheduleRequest{JobID: f.JobID, Date: strings.TrimSpace(f.Date)}
}

// NewSignupForm creates the account registration form
func NewSignupForm(fm *SignupFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&fm.Email).
				Validate(validation.Email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(validation.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.ConfirmPassword).
				Validate(func(s string) error {
					if err := validation.Required("Confirm password")(s); err != nil {
						return err
					}
					if fm.Password != "" && s != fm.Password {
						return errors.New(validation.MsgPasswordMismatch)
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&fm.FirstName).
				Validate(validation.Required("First name")),
			huh.NewInput().
				Title("Last name").
				Value(&fm.LastName).
				Validate(validation.Required("Last name")),
			huh.NewInput().
				Title("Job title").
				Description("An existing job with this title is reused").
				Value(&fm.JobTitle).
				Validate(validation.Required("Job title")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewLoginForm creates the login form
func NewLoginForm(fm *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(validation.Required("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(validation.Required("Password")),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewAppointmentForm creates the booking form. v decides which dates are allowed.
func NewAppointmentForm(fm *AppointmentFormModel, v *validation.Validator) *huh.Form {
	job := fm.JobName
	if job == "" {
		job = "Loading your job..."
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Job").
				Description(job),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&fm.Date).
				Validate(v.Date),
		),
	).WithTheme(huh.ThemeDracula())
}
