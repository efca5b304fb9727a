package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/cli/auth"
	"github.com/julianstephens/shiftdesk/internal/cli/schedules"
	"github.com/julianstephens/shiftdesk/internal/cli/system"
	"github.com/julianstephens/shiftdesk/internal/config"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/errors"
	"github.com/julianstephens/shiftdesk/internal/logger"
)

var CLI struct {
	Version     kong.VersionFlag
	Config      string `help:"Config file path." type:"string" default:"~/.config/shiftdesk/config.yaml"`
	APIBase     string `help:"Backend base address, or 'local' to use a running stub backend." name:"api-base" env:"SHIFTDESK_API_BASE"`
	Credentials string `help:"Credential store: keyring, sqlite or memory."`
	Debug       bool   `help:"Log debug output to stderr."`

	Signup    auth.SignupCmd        `cmd:"" help:"Create an account."`
	Login     auth.LoginCmd         `cmd:"" help:"Log in and store the session token."`
	Logout    auth.LogoutCmd        `cmd:"" help:"Forget the stored session."`
	Whoami    auth.WhoamiCmd        `cmd:"" help:"Show the stored session."`
	Schedules schedules.ScheduleCmd `cmd:"" help:"List, book and review schedules."`
	Tui       system.TuiCmd         `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Stub      system.StubCmd        `cmd:"" help:"Run the local stub backend."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal client for the shift scheduling service"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.APIBase != "" {
		cfg.APIBase = CLI.APIBase
	}
	if CLI.Credentials != "" {
		cfg.Credentials = CLI.Credentials
	}
	if err := cfg.Normalize(); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cfg.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	creds, closer, err := credentials.Open(cfg)
	if err != nil {
		errors.Fatal(err)
	}

	appCtx := &cli.Context{
		Config: cfg,
		Creds:  creds,
	}

	err = ctx.Run(appCtx)
	if cerr := closer.Close(); cerr != nil {
		logger.Warn("failed to close credential store", "error", cerr)
	}
	errors.Fatal(err)
}
