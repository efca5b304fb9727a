// Package api talks to the shift-scheduling backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/shiftdesk/internal/config"
	"github.com/julianstephens/shiftdesk/internal/constants"
	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/logger"
	"github.com/julianstephens/shiftdesk/internal/models"
)

// DefaultOrigin stands in for the browser's own origin when no base is configured.
const DefaultOrigin = "http://localhost"

// Client issues requests against a single base address. Authenticated calls
// read the token from the credential store on every request.
type Client struct {
	base  string
	http  *http.Client
	creds *credentials.Store
}

// New returns a client for base. A nil httpClient gets a default one with
// the standard timeout.
func New(base string, creds *credentials.Store, httpClient *http.Client) *Client {
	base = config.NormalizeBase(base)
	if base == "" {
		base = DefaultOrigin
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultTimeout}
	}
	return &Client{base: base, http: httpClient, creds: creds}
}

// Base returns the resolved base address.
func (c *Client) Base() string {
	return c.base
}

// Credentials returns the store the client authenticates with.
func (c *Client) Credentials() *credentials.Store {
	return c.creds
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do sends one request. When auth is set and no token is stored it fails
// with ErrUnauthenticated before touching the network.
func (c *Client) do(ctx context.Context, method, path string, payload any, auth bool) (response, error) {
	var token string
	if auth {
		token = c.creds.Token()
		if token == "" {
			return response{}, ErrUnauthenticated
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return response{}, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if method == http.MethodPost && path == constants.PathLogin {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed", "method", method, "path", path, "error", err)
		return response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("failed to read response: %w", err)
	}
	logger.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	return response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        raw,
	}, nil
}

func requestFailed(resp response) error {
	return newRequestError(resp.status, resp.body, fmt.Sprintf("Request failed with status %d", resp.status))
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	resp, err := c.do(ctx, http.MethodPost, constants.PathSignup, req, false)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return requestFailed(resp)
	}
	return nil
}

// Login exchanges email and password for a credential and stores it.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.Credential, error) {
	resp, err := c.do(ctx, http.MethodPost, constants.PathLogin, req, false)
	if err != nil {
		return models.Credential{}, err
	}
	if !resp.ok() {
		return models.Credential{}, requestFailed(resp)
	}

	body, err := DecodeLoginBody(resp.contentType, resp.body)
	if err != nil {
		return models.Credential{}, err
	}
	cred, err := body.Credential()
	if err != nil {
		return models.Credential{}, err
	}
	if err := c.creds.SetCredential(cred.Token, cred.Role); err != nil {
		return models.Credential{}, err
	}
	logger.Info("logged in", "role", cred.Role)
	return cred, nil
}

// SchedulesPath builds the list path for q.
func SchedulesPath(q models.ScheduleQuery) string {
	params := url.Values{}
	params.Set("Period", q.Period)
	params.Set("PageNumber", strconv.Itoa(q.PageNumber))
	params.Set("PageSize", strconv.Itoa(q.PageSize))
	return constants.PathSchedules + "?" + params.Encode()
}

// ListSchedules fetches one page of schedule items.
func (c *Client) ListSchedules(ctx context.Context, q models.ScheduleQuery) (*models.ScheduleResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, SchedulesPath(q), nil, true)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, requestFailed(resp)
	}

	var out models.ScheduleResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, &ResponseError{Resource: "schedules", Err: err}
	}
	return &out, nil
}

// UpdateStatus sets the approval status of one schedule.
func (c *Client) UpdateStatus(ctx context.Context, scheduleID string, status int) error {
	path := constants.PathSchedules + "/" + url.PathEscape(scheduleID) + "/status"
	resp, err := c.do(ctx, http.MethodPatch, path, models.StatusUpdateRequest{Status: status}, true)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return newRequestError(resp.status, resp.body, fmt.Sprintf("Failed to update status (%d)", resp.status))
	}
	return nil
}

// OwnJob looks up the caller's job. The backend answers with a single
// object or an array of them.
func (c *Client) OwnJob(ctx context.Context) ([]models.JobInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, constants.PathUserJob, nil, true)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, newRequestError(resp.status, resp.body, fmt.Sprintf("Failed to load your job (status %d)", resp.status))
	}

	trimmed := bytes.TrimSpace(resp.body)
	if strings.HasPrefix(string(trimmed), "[") {
		var list []models.JobInfo
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, &ResponseError{Resource: "job", Err: err}
		}
		return list, nil
	}
	var one models.JobInfo
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, &ResponseError{Resource: "job", Err: err}
	}
	return []models.JobInfo{one}, nil
}

// CreateSchedule books a new appointment for the caller.
func (c *Client) CreateSchedule(ctx context.Context, req models.CreateScheduleRequest) error {
	resp, err := c.do(ctx, http.MethodPost, constants.PathSchedules, req, true)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return requestFailed(resp)
	}
	return nil
}
