package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// StatusValue holds a schedule status as the backend sent it. The backend
// uses numeric codes but older deployments send the status name instead.
type StatusValue struct {
	Code    int
	Name    string
	numeric bool
}

// StatusCode returns a numeric status value.
func StatusCode(code int) StatusValue {
	return StatusValue{Code: code, numeric: true}
}

// StatusName returns a string status value.
func StatusName(name string) StatusValue {
	return StatusValue{Name: name}
}

// IsNumeric reports whether the status was sent as a number.
func (s StatusValue) IsNumeric() bool {
	return s.numeric
}

// Label maps the known codes to their names. Anything else is returned verbatim.
func (s StatusValue) Label() string {
	if !s.numeric {
		return s.Name
	}
	switch s.Code {
	case constants.StatusPending:
		return "Pending"
	case constants.StatusApproved:
		return "Approved"
	case constants.StatusRejected:
		return "Rejected"
	default:
		return strconv.Itoa(s.Code)
	}
}

func (s StatusValue) String() string {
	if s.numeric {
		return strconv.Itoa(s.Code)
	}
	return s.Name
}

func (s StatusValue) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(strconv.Itoa(s.Code)), nil
	}
	return json.Marshal(s.Name)
}

func (s *StatusValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = StatusValue{}
		return nil
	}
	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*s = StatusName(name)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("status must be a number or a string: %w", err)
	}
	code, err := strconv.Atoi(n.String())
	if err != nil {
		// fractional codes are not known statuses, keep the raw text
		*s = StatusName(n.String())
		return nil
	}
	*s = StatusCode(code)
	return nil
}

// ScheduleItem is one shift: a user assigned to a job on a date.
type ScheduleItem struct {
	ID            string      `json:"id"`
	JobID         string      `json:"jobId"`
	UserID        string      `json:"userId"`
	Date          string      `json:"date"`
	Status        StatusValue `json:"status"`
	JobTitle      string      `json:"jobTitle,omitempty"`
	JobName       string      `json:"jobName,omitempty"`
	FirstName     string      `json:"firstName,omitempty"`
	LastName      string      `json:"lastName,omitempty"`
	UserFirstName string      `json:"userFirstName,omitempty"`
	UserLastName  string      `json:"userLastName,omitempty"`
	StatusName    string      `json:"statusName,omitempty"`
}

// StatusLabel prefers the server supplied status name.
func (i ScheduleItem) StatusLabel() string {
	if i.StatusName != "" {
		return i.StatusName
	}
	return i.Status.Label()
}

// DisplayName joins first and last name, falling back to "Unknown user".
func (i ScheduleItem) DisplayName() string {
	first := firstNonEmpty(i.FirstName, i.UserFirstName)
	last := firstNonEmpty(i.LastName, i.UserLastName)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return "Unknown user"
	}
	return name
}

// JobLabel resolves the title shown for the item's job row.
func (i ScheduleItem) JobLabel() string {
	return firstNonEmpty(i.JobName, i.JobTitle, i.JobID, "Job")
}

// CalendarDate returns the date part of Date. Some backends send a full
// timestamp, the grid only ever matches on the calendar day.
func (i ScheduleItem) CalendarDate() string {
	if len(i.Date) > len(constants.DateFormat) && i.Date[len(constants.DateFormat)] == 'T' {
		return i.Date[:len(constants.DateFormat)]
	}
	return i.Date
}

// ScheduleResponse is one page of schedule items.
type ScheduleResponse struct {
	Items      []ScheduleItem `json:"items"`
	TotalCount int            `json:"totalCount"`
	PageNumber int            `json:"pageNumber"`
	PageSize   int            `json:"pageSize"`
}

// Job is a grid row.
type Job struct {
	ID    string
	Title string
}

// JobInfo is an entry returned by the own-job lookup.
type JobInfo struct {
	JobID   string `json:"jobId"`
	JobName string `json:"jobName,omitempty"`
}

// Title returns the job name, or the id when the name is missing.
func (j JobInfo) Title() string {
	return firstNonEmpty(j.JobName, j.JobID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
