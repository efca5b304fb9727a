package stubserver

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/models"
)

const maxPageSize = 100

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", "error", err)
	}
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decode(r, &req) {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if res := s.validator.Signup(req); res.HasProblems() {
		http.Error(w, res.Problems[0].Message, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		s.internalError(w, "count users", err)
		return
	}
	role := constants.RoleUser
	if count == 0 {
		role = constants.RoleAdmin
	}

	job, err := s.store.EnsureJob(ctx, req.JobTitle)
	if err != nil {
		s.internalError(w, "ensure job", err)
		return
	}
	hash, err := HashPassword(req.Password)
	if err != nil {
		s.internalError(w, "hash password", err)
		return
	}

	user := User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		JobID:        job.ID,
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicate) {
			http.Error(w, "Email is already registered.", http.StatusConflict)
			return
		}
		s.internalError(w, "create user", err)
		return
	}

	logger.Info("stub account created", "id", user.ID, "role", role)
	writeJSON(w, http.StatusCreated, map[string]string{"id": user.ID, "email": user.Email, "role": role})
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(r, &req) {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.internalError(w, "get user", err)
		return
	}
	if err != nil || !CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "Invalid email or password.", http.StatusUnauthorized)
		return
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.internalError(w, "generate token", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, Role: user.Role})
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch q.Get("Period") {
	case "", constants.PeriodWeek, constants.PeriodMonth, constants.PeriodYear:
	default:
		http.Error(w, "Period must be week, month or year.", http.StatusBadRequest)
		return
	}
	page := queryInt(q.Get("PageNumber"), 1)
	size := queryInt(q.Get("PageSize"), constants.DefaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}

	rows, total, err := s.store.ListSchedules(r.Context(), (page-1)*size, size)
	if err != nil {
		s.internalError(w, "list schedules", err)
		return
	}

	items := make([]models.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toItem(row))
	}
	writeJSON(w, http.StatusOK, models.ScheduleResponse{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   size,
	})
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if !decode(r, &req) {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(constants.DateFormat, req.Date); err != nil {
		http.Error(w, "Date must use the YYYY-MM-DD format.", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := s.store.GetUser(ctx, claimsFrom(ctx).UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if req.JobID != user.JobID {
		http.Error(w, "Job ID must match your job.", http.StatusBadRequest)
		return
	}

	sc := Schedule{
		ID:     uuid.New().String(),
		JobID:  req.JobID,
		UserID: user.ID,
		Date:   req.Date,
		Status: constants.StatusPending,
	}
	if err := s.store.CreateSchedule(ctx, sc); err != nil {
		s.internalError(w, "create schedule", err)
		return
	}
	created, err := s.store.GetSchedule(ctx, sc.ID)
	if err != nil {
		s.internalError(w, "get schedule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItem(created))
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdateRequest
	if !decode(r, &req) {
		http.Error(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	if req.Status < constants.StatusPending || req.Status > constants.StatusRejected {
		http.Error(w, "Unknown status.", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.store.UpdateScheduleStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Schedule not found.", http.StatusNotFound)
			return
		}
		s.internalError(w, "update status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOwnJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := s.store.GetUser(ctx, claimsFrom(ctx).UserID)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	job, err := s.store.GetJob(ctx, user.JobID)
	if err != nil {
		s.internalError(w, "get job", err)
		return
	}
	writeJSON(w, http.StatusOK, models.JobInfo{JobID: job.ID, JobName: job.Title})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	logger.Error("stub request failed", "op", op, "error", err)
	http.Error(w, "Internal server error.", http.StatusInternalServerError)
}

func toItem(sc Schedule) models.ScheduleItem {
	return models.ScheduleItem{
		ID:        sc.ID,
		JobID:     sc.JobID,
		UserID:    sc.UserID,
		Date:      sc.Date,
		Status:    models.StatusCode(sc.Status),
		JobName:   sc.JobTitle,
		FirstName: sc.FirstName,
		LastName:  sc.LastName,
	}
}

func queryInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
