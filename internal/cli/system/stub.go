package system

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/stubserver"
)

type StubCmd struct {
	Serve StubServeCmd `cmd:"" help:"Run a local stub of the scheduling API." default:"1"`
}

type StubServeCmd struct {
	Addr     string        `help:"Listen address." default:"127.0.0.1:0"`
	DB       string        `help:"SQLite path or postgres:// URL (defaults to stub.db in the config directory)." name:"db"`
	Secret   string        `help:"JWT signing secret." env:"SHIFTDESK_STUB_SECRET" default:"shiftdesk-dev-secret"`
	TokenTTL time.Duration `help:"Token lifetime." name:"token-ttl" default:"12h"`
}

func (c *StubServeCmd) Run(ctx *cli.Context) error {
	dsn := c.DB
	if dsn == "" {
		dsn = filepath.Join(ctx.Config.Dir, "stub.db")
	}
	store, err := stubserver.OpenStore(dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stubserver.New(store, stubserver.NewTokenManager(c.Secret, c.TokenTTL))
	return srv.ListenAndServe(sigCtx, c.Addr, ctx.Config.Dir)
}
