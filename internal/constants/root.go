package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

const (
	AppName            = "shiftdesk"
	DefaultKeyringUser = "session"
	DefaultConfigDir   = "~/.config/shiftdesk"
	DefaultConfigFile  = "config.yaml"
	DefaultCredentials = "credentials.db"
	Version            = "v0.1.0"

	// DateFormat is the wire and display format for calendar dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HeaderDateFormat renders dates in the schedule header, e.g. "3 Mar 2025"
	HeaderDateFormat = "2 Jan 2006"

	// Credential store keys
	KeyAuthToken = "authToken"
	KeyAuthRole  = "authRole"

	// API paths, relative to the configured base address
	PathSignup    = "/api/Auth/signup"
	PathLogin     = "/api/Auth/login"
	PathSchedules = "/api/Schedules"
	PathUserJob   = "/api/Users/job"

	// Periods
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"

	// Schedule status codes
	StatusPending  = 1
	StatusApproved = 2
	StatusRejected = 3

	RoleAdmin = "admin"
	RoleUser  = "user"

	// Defaults
	DefaultPageSize       = 10
	DefaultTimeout        = 15 * time.Second
	DefaultRedirectDelay  = 600 * time.Millisecond
	WindowDays            = 7
	MinPasswordLength     = 6
	DefaultCredentialKind = "sqlite"

	// Stub backend
	StubLockfileName = "shiftdesk-stub.lock"
	StubExecutable   = "shiftdesk"

	// Session States
	StateSignup SessionState = iota
	StateLogin
	StateSchedules
	StateNewAppointment
)
