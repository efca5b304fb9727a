package stubserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/migration"
	"github.com/julianstephens/shiftdesk/migrations"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

const timestampFormat = "2006-01-02T15:04:05.000000000Z"

// User is an account row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	JobID        string
	Role         string
}

// Job is a job row.
type Job struct {
	ID    string
	Title string
}

// Schedule is a schedule row joined with its job and user.
type Schedule struct {
	ID        string
	JobID     string
	UserID    string
	Date      string
	Status    int
	JobTitle  string
	FirstName string
	LastName  string
}

// Store persists the stub backend's accounts, jobs and schedules.
type Store interface {
	CountUsers(ctx context.Context) (int, error)
	EnsureJob(ctx context.Context, title string) (Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	CreateUser(ctx context.Context, u User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	CreateSchedule(ctx context.Context, s Schedule) error
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	ListSchedules(ctx context.Context, offset, limit int) ([]Schedule, int, error)
	UpdateScheduleStatus(ctx context.Context, id string, status int) error
	Close() error
}

// sqlStore implements Store over database/sql. Queries are written with ?
// placeholders and rebound for drivers that number them.
type sqlStore struct {
	db       *sql.DB
	numbered bool
}

func newSQLStore(db *sql.DB, numbered bool, migrationDir string) (*sqlStore, error) {
	subFS, err := fs.Sub(migrations.FS, migrationDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access migrations: %w", err)
	}
	runner := migration.NewRunner(db, subFS)
	if _, err := runner.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &sqlStore{db: db, numbered: numbered}, nil
}

// bind rewrites ? placeholders to $1, $2, ... when the driver needs it.
func (s *sqlStore) bind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func (s *sqlStore) EnsureJob(ctx context.Context, title string) (Job, error) {
	var job Job
	err := s.db.QueryRowContext(ctx, s.bind("SELECT id, title FROM jobs WHERE title = ?"), title).Scan(&job.ID, &job.Title)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Job{}, err
	}

	job = Job{ID: uuid.New().String(), Title: title}
	if _, err := s.db.ExecContext(ctx, s.bind("INSERT INTO jobs (id, title) VALUES (?, ?)"), job.ID, job.Title); err != nil {
		return Job{}, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (s *sqlStore) GetJob(ctx context.Context, id string) (Job, error) {
	var job Job
	err := s.db.QueryRowContext(ctx, s.bind("SELECT id, title FROM jobs WHERE id = ?"), id).Scan(&job.ID, &job.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (s *sqlStore) CreateUser(ctx context.Context, u User) error {
	if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, job_id, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.JobID, u.Role, now())
	return err
}

const userColumns = "id, email, password_hash, first_name, last_name, job_id, role"

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.JobID, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *sqlStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.bind("SELECT "+userColumns+" FROM users WHERE email = ?"), email))
}

func (s *sqlStore) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, s.bind("SELECT "+userColumns+" FROM users WHERE id = ?"), id))
}

func (s *sqlStore) CreateSchedule(ctx context.Context, sc Schedule) error {
	_, err := s.db.ExecContext(ctx, s.bind(`
		INSERT INTO schedules (id, job_id, user_id, date, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		sc.ID, sc.JobID, sc.UserID, sc.Date, sc.Status, now())
	return err
}

const scheduleSelect = `
	SELECT s.id, s.job_id, s.user_id, s.date, s.status, j.title, u.first_name, u.last_name
	FROM schedules s
	JOIN jobs j ON j.id = s.job_id
	JOIN users u ON u.id = s.user_id`

func scanSchedule(scan func(dest ...any) error) (Schedule, error) {
	var sc Schedule
	err := scan(&sc.ID, &sc.JobID, &sc.UserID, &sc.Date, &sc.Status, &sc.JobTitle, &sc.FirstName, &sc.LastName)
	return sc, err
}

func (s *sqlStore) GetSchedule(ctx context.Context, id string) (Schedule, error) {
	sc, err := scanSchedule(s.db.QueryRowContext(ctx, s.bind(scheduleSelect+" WHERE s.id = ?"), id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Schedule{}, ErrNotFound
	}
	return sc, err
}

func (s *sqlStore) ListSchedules(ctx context.Context, offset, limit int) ([]Schedule, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schedules").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, s.bind(scheduleSelect+" ORDER BY s.date, s.created_at, s.id LIMIT ? OFFSET ?"), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, sc)
	}
	return out, total, rows.Err()
}

func (s *sqlStore) UpdateScheduleStatus(ctx context.Context, id string, status int) error {
	res, err := s.db.ExecContext(ctx, s.bind("UPDATE schedules SET status = ? WHERE id = ?"), status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(timestampFormat)
}
