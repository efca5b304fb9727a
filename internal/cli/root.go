package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/api"
	"github.com/julianstephens/shiftdesk/internal/config"
	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/schedule"
	"github.com/julianstephens/shiftdesk/internal/stubserver"
)

// Context is handed to every command's Run method.
type Context struct {
	Config config.Config
	Creds  *credentials.Store

	// HTTPClient overrides the client built from Config.Timeout.
	HTTPClient *http.Client
	// Out receives command output. Nil means stdout.
	Out io.Writer

	client *api.Client
}

// API returns the backend client, resolving a "local" base through the
// stub backend's lockfile on first use.
func (c *Context) API() (*api.Client, error) {
	if c.client != nil {
		return c.client, nil
	}
	base, err := c.ResolveBase()
	if err != nil {
		return nil, err
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: c.Config.Timeout}
	}
	c.client = api.New(base, c.Creds, httpClient)
	return c.client, nil
}

// ResolveBase returns the configured base address.
func (c *Context) ResolveBase() (string, error) {
	if !strings.EqualFold(c.Config.APIBase, config.LocalAPIBase) {
		return c.Config.APIBase, nil
	}
	base, err := stubserver.Discover(c.Config.Dir)
	if err != nil {
		return "", fmt.Errorf("api_base is %q but no stub backend was found (start one with 'shiftdesk stub serve'): %w", config.LocalAPIBase, err)
	}
	return base, nil
}

// ScheduleModel builds a view model over the backend client.
func (c *Context) ScheduleModel(opts schedule.Options) (*schedule.Model, error) {
	client, err := c.API()
	if err != nil {
		return nil, err
	}
	if opts.PageSize == 0 {
		opts.PageSize = c.Config.PageSize
	}
	return schedule.New(client, opts), nil
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

type commandError struct {
	msg string
	err error
}

func (e *commandError) Error() string { return e.msg }
func (e *commandError) Unwrap() error { return e.err }

// APIError turns a client error into the one line a command reports. The
// original error stays reachable through errors.Is and errors.As.
func APIError(err error) error {
	if err == nil {
		return nil
	}
	return &commandError{msg: strings.TrimSpace(api.Message(err)), err: err}
}
