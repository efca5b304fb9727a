package stubserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	job, err := store.EnsureJob(ctx, "Sales")
	require.NoError(t, err)
	again, err := store.EnsureJob(ctx, "Sales")
	require.NoError(t, err)
	require.Equal(t, job, again)

	user := User{ID: uuid.New().String(), Email: "ada@example.com", PasswordHash: "x", FirstName: "Ada", LastName: "Lovelace", JobID: job.ID, Role: "admin"}
	require.NoError(t, store.CreateUser(ctx, user))
	require.ErrorIs(t, store.CreateUser(ctx, user), ErrDuplicate)

	got, err := store.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, user, got)
	_, err = store.GetUser(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	for i, date := range []string{"2024-01-03", "2024-01-01", "2024-01-02"} {
		require.NoError(t, store.CreateSchedule(ctx, Schedule{
			ID: uuid.New().String(), JobID: job.ID, UserID: user.ID, Date: date, Status: 1 + i%3,
		}))
	}

	page, total, err := store.ListSchedules(ctx, 0, 2)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 2)
	require.Equal(t, "2024-01-01", page[0].Date)
	require.Equal(t, "Sales", page[0].JobTitle)
	require.Equal(t, "Ada", page[0].FirstName)

	rest, _, err := store.ListSchedules(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "2024-01-03", rest[0].Date)

	require.NoError(t, store.UpdateScheduleStatus(ctx, rest[0].ID, 3))
	updated, err := store.GetSchedule(ctx, rest[0].ID)
	require.NoError(t, err)
	require.Equal(t, 3, updated.Status)
	require.True(t, errors.Is(store.UpdateScheduleStatus(ctx, "missing", 2), ErrNotFound))
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStoreInMemory(t *testing.T) {
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	exerciseStore(t, store)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stub.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = store.EnsureJob(context.Background(), "Ops")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()
	job, err := store.EnsureJob(context.Background(), "Ops")
	require.NoError(t, err)
	require.Equal(t, "Ops", job.Title)
}

func TestPostgresStore(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	store, err := OpenPostgres(connStr)
	require.NoError(t, err)
	defer store.Close()

	pg := store.(*sqlStore)
	for _, table := range []string{"schedules", "users", "jobs"} {
		_, err := pg.db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	exerciseStore(t, store)
}

func TestBindNumbersPlaceholders(t *testing.T) {
	s := &sqlStore{numbered: true}
	require.Equal(t, "UPDATE t SET a = $1 WHERE b = $2", s.bind("UPDATE t SET a = ? WHERE b = ?"))
	s.numbered = false
	require.Equal(t, "SELECT ?", s.bind("SELECT ?"))
}
