package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/shiftdesk/internal/cli"
	"github.com/julianstephens/shiftdesk/internal/config"
	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/stubserver"
	"github.com/julianstephens/shiftdesk/internal/validation"
)

func newStub(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := stubserver.OpenSQLite(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(stubserver.New(store, stubserver.NewTokenManager("cli-secret", time.Hour)))
	t.Cleanup(srv.Close)
	return srv
}

func newContext(srv *httptest.Server, out *bytes.Buffer) *cli.Context {
	return &cli.Context{
		Config:     config.Config{APIBase: srv.URL, Credentials: config.CredentialsMemory},
		Creds:      credentials.New(credentials.NewMemoryBackend()),
		HTTPClient: srv.Client(),
		Out:        out,
	}
}

func signupCmd(email string) *SignupCmd {
	return &SignupCmd{
		Email:     email,
		Password:  "secret1",
		Confirm:   "secret1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		JobTitle:  "Sales",
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newStub(t)
	var out bytes.Buffer
	ctx := newContext(srv, &out)

	require.NoError(t, signupCmd("ada@example.com").Run(ctx))
	require.Equal(t, "Account created (201). Log in with 'shiftdesk login'.\n", out.String())

	out.Reset()
	require.NoError(t, (&LoginCmd{Email: "ada@example.com", Password: "secret1"}).Run(ctx))
	require.Equal(t, "Logged in (200).\nRole: admin\n", out.String())
	require.True(t, ctx.Creds.HasToken())

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(ctx))
	require.Contains(t, out.String(), "API base:    "+srv.URL)
	require.Contains(t, out.String(), "Logged in, role: admin")

	out.Reset()
	require.NoError(t, (&LogoutCmd{}).Run(ctx))
	require.Equal(t, "Logged out.\n", out.String())
	require.False(t, ctx.Creds.HasToken())

	out.Reset()
	require.NoError(t, (&WhoamiCmd{}).Run(ctx))
	require.Contains(t, out.String(), "Not logged in.")
}

func TestSignupPromptsForMissingPasswords(t *testing.T) {
	srv := newStub(t)
	var out bytes.Buffer
	ctx := newContext(srv, &out)

	var prompts []string
	orig := promptPassword
	promptPassword = func(title string, value *string) error {
		prompts = append(prompts, title)
		*value = "secret1"
		return nil
	}
	t.Cleanup(func() { promptPassword = orig })

	cmd := signupCmd("ada@example.com")
	cmd.Password = ""
	cmd.Confirm = ""
	require.NoError(t, cmd.Run(ctx))
	require.Equal(t, []string{"Password", "Confirm password"}, prompts)
}

func TestSignupRejectedLocally(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()
	var out bytes.Buffer
	ctx := newContext(srv, &out)

	cmd := signupCmd("ada@example.com")
	cmd.Confirm = "secret2"
	err := cmd.Run(ctx)
	require.EqualError(t, err, validation.MsgPasswordMismatch)

	cmd = signupCmd("not-an-email")
	require.Error(t, cmd.Run(ctx))
	require.Equal(t, int32(0), atomic.LoadInt32(&calls))
	require.Empty(t, out.String())
}

func TestSignupDuplicateShowsServerMessage(t *testing.T) {
	srv := newStub(t)
	var out bytes.Buffer
	ctx := newContext(srv, &out)

	require.NoError(t, signupCmd("ada@example.com").Run(ctx))
	err := signupCmd("ada@example.com").Run(ctx)
	require.EqualError(t, err, "Email is already registered.")
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newStub(t)
	var out bytes.Buffer
	ctx := newContext(srv, &out)

	require.NoError(t, signupCmd("ada@example.com").Run(ctx))
	err := (&LoginCmd{Email: "ada@example.com", Password: "wrong-password"}).Run(ctx)
	require.EqualError(t, err, "Invalid email or password.")
	require.False(t, ctx.Creds.HasToken())
}
