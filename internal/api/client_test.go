package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *credentials.Store, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store := credentials.New(credentials.NewMemoryBackend())
	return New(srv.URL+"/", store, srv.Client()), store, &calls
}

func TestNewDefaultsToOrigin(t *testing.T) {
	c := New("  ", credentials.New(credentials.NewMemoryBackend()), nil)
	if c.Base() != DefaultOrigin {
		t.Errorf("Base() = %q, want %q", c.Base(), DefaultOrigin)
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantToken   string
		wantRole    string
		wantErr     error
	}{
		{name: "json object", contentType: "application/json; charset=utf-8", body: `{"accessToken":"abc","role":"admin"}`, wantToken: "abc", wantRole: "admin"},
		{name: "token fallback", contentType: "application/json", body: `{"token":" t1 "}`, wantToken: "t1"},
		{name: "null access token falls through", contentType: "application/json", body: `{"accessToken":null,"token":"t2"}`, wantToken: "t2"},
		{name: "object sent as text", contentType: "text/plain", body: ` {"accessToken":"abc","role":"user"} `, wantToken: "abc", wantRole: "user"},
		{name: "quoted text", contentType: "text/plain", body: `"abc123"`, wantToken: "abc123"},
		{name: "json string", contentType: "application/json", body: `"abc123"`, wantToken: "abc123"},
		{name: "bare text", contentType: "", body: "abc123\n", wantToken: "abc123"},
		{name: "broken object as text", contentType: "text/plain", body: `{"accessToken":`, wantToken: `{"accessToken":`},
		{name: "no token", contentType: "application/json", body: `{"role":"admin"}`, wantErr: ErrMissingToken},
		{name: "empty body", contentType: "text/plain", body: "", wantErr: ErrMissingToken},
		{name: "json number", contentType: "application/json", body: `42`, wantErr: ErrMissingToken},
		{name: "invalid json", contentType: "application/json", body: `{nope`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/Auth/login" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var req models.LoginRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email != "a@b.c" {
					t.Errorf("unexpected login body %+v (%v)", req, err)
				}
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				io.WriteString(w, tt.body)
			})

			cred, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "secret"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				if store.HasToken() {
					t.Error("token stored despite error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if cred.Token != tt.wantToken || store.Token() != tt.wantToken {
				t.Errorf("token = %q (stored %q), want %q", cred.Token, store.Token(), tt.wantToken)
			}
			if store.Role() != tt.wantRole {
				t.Errorf("stored role = %q, want %q", store.Role(), tt.wantRole)
			}
		})
	}
}

func TestLoginFailure(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("Login() error = %v, want *RequestError", err)
	}
	if reqErr.Status != http.StatusUnauthorized || Message(err) != "Invalid credentials\n" {
		t.Errorf("got status %d message %q", reqErr.Status, Message(err))
	}
	if !errors.Is(err, ErrRequestFailed) {
		t.Error("RequestError does not unwrap to ErrRequestFailed")
	}
}

func TestAuthenticatedCallsRequireToken(t *testing.T) {
	client, _, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected network call %s %s", r.Method, r.URL)
	})
	ctx := context.Background()

	_, err := client.ListSchedules(ctx, models.ScheduleQuery{Period: "week", PageNumber: 1, PageSize: 10})
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("ListSchedules() error = %v, want ErrUnauthenticated", err)
	}
	if err := client.UpdateStatus(ctx, "s1", 2); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("UpdateStatus() error = %v, want ErrUnauthenticated", err)
	}
	if _, err := client.OwnJob(ctx); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("OwnJob() error = %v, want ErrUnauthenticated", err)
	}
	if err := client.CreateSchedule(ctx, models.CreateScheduleRequest{JobID: "j1", Date: "2024-01-01"}); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("CreateSchedule() error = %v, want ErrUnauthenticated", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("made %d network calls, want 0", n)
	}
	if Message(err) != "Not authenticated. Please log in first." {
		t.Errorf("Message() = %q", Message(ErrUnauthenticated))
	}
}

func TestListSchedules(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("Period") != "month" || q.Get("PageNumber") != "3" || q.Get("PageSize") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		io.WriteString(w, `{"items":[{"id":"s1","jobId":"j1","userId":"u1","date":"2024-01-01","status":1,"jobName":"Sales"},
			{"id":"s2","jobId":"j2","userId":"u2","date":"2024-01-02","status":"Cancelled"}],"totalCount":2,"pageNumber":3,"pageSize":10}`)
	})
	_ = store.SetCredential(`"tok"`, "")

	resp, err := client.ListSchedules(context.Background(), models.ScheduleQuery{Period: "month", PageNumber: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("ListSchedules() error = %v", err)
	}
	if len(resp.Items) != 2 || resp.TotalCount != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Items[0].StatusLabel() != "Pending" || resp.Items[1].StatusLabel() != "Cancelled" {
		t.Errorf("status labels = %q, %q", resp.Items[0].StatusLabel(), resp.Items[1].StatusLabel())
	}
}

func TestListSchedulesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "server text", status: http.StatusInternalServerError, body: "database down", wantErr: ErrRequestFailed, wantMsg: "database down"},
		{name: "synthesized", status: http.StatusBadGateway, body: "", wantErr: ErrRequestFailed, wantMsg: "Request failed with status 502"},
		{name: "malformed", status: http.StatusOK, body: "<html>", wantErr: ErrMalformedResponse, wantMsg: "Failed to parse schedules response."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_ = store.SetCredential("tok", "")

			_, err := client.ListSchedules(context.Background(), models.ScheduleQuery{Period: "week", PageNumber: 1, PageSize: 5})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got := Message(err); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	var gotBody models.StatusUpdateRequest
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/Schedules/s 1/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	_ = store.SetCredential("tok", "admin")

	if err := client.UpdateStatus(context.Background(), "s 1", 3); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if gotBody.Status != 3 {
		t.Errorf("status body = %d, want 3", gotBody.Status)
	}
}

func TestUpdateStatusFailureMessage(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	_ = store.SetCredential("tok", "")

	err := client.UpdateStatus(context.Background(), "s1", 2)
	if got := Message(err); got != "Failed to update status (403)" {
		t.Errorf("Message() = %q", got)
	}
}

func TestOwnJob(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []models.JobInfo
	}{
		{name: "object", body: `{"jobId":"j1","jobName":"Sales"}`, want: []models.JobInfo{{JobID: "j1", JobName: "Sales"}}},
		{name: "array", body: ` [{"jobId":"j1"},{"jobId":"j2","jobName":"Ops"}]`, want: []models.JobInfo{{JobID: "j1"}, {JobID: "j2", JobName: "Ops"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/Users/job" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				io.WriteString(w, tt.body)
			})
			_ = store.SetCredential("tok", "")

			got, err := client.OwnJob(context.Background())
			if err != nil {
				t.Fatalf("OwnJob() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("OwnJob() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("OwnJob()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSignupAndCreateSchedule(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/Auth/signup":
			if r.Header.Get("Authorization") != "" {
				t.Error("signup must not send credentials")
			}
			w.WriteHeader(http.StatusCreated)
		case "/api/Schedules":
			var req models.CreateScheduleRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.JobID != "j1" || req.Date != "2024-01-01" {
				t.Errorf("unexpected create body %+v", req)
			}
			http.Error(w, "Date already booked", http.StatusConflict)
		}
	})

	if err := client.Signup(context.Background(), models.SignupRequest{Email: "a@b.c"}); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_ = store.SetCredential("tok", "")
	err := client.CreateSchedule(context.Background(), models.CreateScheduleRequest{JobID: "j1", Date: "2024-01-01"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("CreateSchedule() error = %v, want ErrRequestFailed", err)
	}
}
