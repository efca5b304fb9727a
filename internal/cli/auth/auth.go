package auth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/models"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

// promptPassword is swapped out in tests.
var promptPassword = func(title string, value *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(value),
		),
	).Run()
}

type SignupCmd struct {
	Email     string `help:"Account email." required:""`
	Password  string `help:"Password (prompted when omitted)." env:"SHIFTDESK_PASSWORD"`
	Confirm   string `help:"Password confirmation (prompted when omitted)."`
	FirstName string `help:"First name." required:"" name:"first-name"`
	LastName  string `help:"Last name." required:"" name:"last-name"`
	JobTitle  string `help:"Job title." required:"" name:"job-title"`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	if c.Password == "" {
		if err := promptPassword("Password", &c.Password); err != nil {
			return err
		}
	}
	if c.Confirm == "" {
		if err := promptPassword("Confirm password", &c.Confirm); err != nil {
			return err
		}
	}

	req := models.SignupRequest{
		Email:           c.Email,
		Password:        c.Password,
		ConfirmPassword: c.Confirm,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		JobTitle:        c.JobTitle,
	}
	if res := validation.New().Signup(req); res.HasProblems() {
		return res.Err()
	}

	client, err := ctx.API()
	if err != nil {
		return err
	}
	if err := client.Signup(context.Background(), req); err != nil {
		return cli.APIError(err)
	}
	ctx.Println("Account created (201). Log in with 'shiftdesk login'.")
	return nil
}

type LoginCmd struct {
	Email    string `help:"Account email." required:""`
	Password string `help:"Password (prompted when omitted)." env:"SHIFTDESK_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Password == "" {
		if err := promptPassword("Password", &c.Password); err != nil {
			return err
		}
	}
	req := models.LoginRequest{Email: c.Email, Password: c.Password}
	if res := validation.New().Login(req); res.HasProblems() {
		return res.Err()
	}

	client, err := ctx.API()
	if err != nil {
		return err
	}
	cred, err := client.Login(context.Background(), req)
	if err != nil {
		return cli.APIError(err)
	}

	ctx.Println("Logged in (200).")
	if cred.Role != "" {
		ctx.Printf("Role: %s\n", cred.Role)
	}
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Creds.Clear(); err != nil {
		return err
	}
	logger.Info("logged out")
	ctx.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	base, err := ctx.ResolveBase()
	if err != nil {
		base = fmt.Sprintf("%s (%v)", ctx.Config.APIBase, err)
	}
	if base == "" {
		base = api.DefaultOrigin
	}

	ctx.Printf("API base:    %s\n", base)
	ctx.Printf("Credentials: %s\n", ctx.Config.Credentials)
	if !ctx.Creds.HasToken() {
		ctx.Println("Not logged in.")
		return nil
	}
	role := ctx.Creds.Role()
	if role == "" {
		role = "(none)"
	}
	ctx.Printf("Logged in, role: %s\n", role)
	return nil
}
