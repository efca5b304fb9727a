package models

// SignupRequest is the body of POST /api/Auth/signup.
type SignupRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	JobTitle        string `json:"jobTitle"`
}

// LoginRequest is the body of POST /api/Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateScheduleRequest is the body of POST /api/Schedules.
type CreateScheduleRequest struct {
	JobID string `json:"jobId"`
	Date  string `json:"date"`
}

// StatusUpdateRequest is the body of PATCH /api/Schedules/{id}/status.
type StatusUpdateRequest struct {
	Status int `json:"status"`
}

// ScheduleQuery holds the list query parameters.
type ScheduleQuery struct {
	Period     string
	PageNumber int
	PageSize   int
}

// Credential is what a successful login yields.
type Credential struct {
	Token string
	Role  string
}
