package crmapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Wire shapes of the backend. Optional values are pointers or flex types so
// that missing fields can be told apart from zero and defaulted in mapper.go.

type leadDTO struct {
	ID         *flexInt       `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Source     string         `json:"source"`
	Status     string         `json:"status"`
	PipelineID *flexInt       `json:"pipeline_id"`
	Stage      string         `json:"stage"`
	Notes      string         `json:"notes"`
	Metadata   map[string]any `json:"metadata"`
	CreatedAt  flexTime       `json:"created_at"`
	UpdatedAt  flexTime       `json:"updated_at"`
}

type opportunityDTO struct {
	ID                *flexInt            `json:"id"`
	LeadID            *flexInt            `json:"lead_id"`
	Name              string              `json:"name"`
	Title             string              `json:"title"`
	Amount            decimal.NullDecimal `json:"amount"`
	Stage             string              `json:"stage"`
	Probability       *flexInt            `json:"probability"`
	ExpectedCloseDate flexTime            `json:"expected_close_date"`
	Notes             string              `json:"notes"`
	CreatedAt         flexTime            `json:"created_at"`
	UpdatedAt         flexTime            `json:"updated_at"`
}

// taskDTO is the backend's generic task; follow-ups are a projection of it.
type taskDTO struct {
	ID            *flexInt `json:"id"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Subject       string   `json:"subject"`
	Description   string   `json:"description"`
	DueDate       flexTime `json:"due_date"`
	ScheduledDate flexTime `json:"scheduled_date"`
	Status        string   `json:"status"`
	Completed     *bool    `json:"completed"`
	CompletedAt   flexTime `json:"completed_at"`
	SubjectType   string   `json:"subject_type"`
	SubjectID     *flexInt `json:"subject_id"`
	CreatedAt     flexTime `json:"created_at"`
	UpdatedAt     flexTime `json:"updated_at"`
}

// taskRequest is what we send when creating or updating a task.
type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	SubjectType string `json:"subject_type"`
	SubjectID   int64  `json:"subject_id"`
}

type patientDTO struct {
	ID          *flexInt `json:"id"`
	Name        string   `json:"name"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	DateOfBirth string   `json:"date_of_birth"`
	Gender      string   `json:"gender"`
}

type conversionOptionsDTO struct {
	LeadID                  *flexInt `json:"lead_id"`
	CurrentStatus           string   `json:"current_status"`
	CanConvertToContact     bool     `json:"can_convert_to_contact"`
	CanConvertToOpportunity bool     `json:"can_convert_to_opportunity"`
	CanConvertToPatient     bool     `json:"can_convert_to_patient"`
}

type conversionDTO struct {
	Message     string          `json:"message"`
	Lead        *leadDTO        `json:"lead"`
	Opportunity *opportunityDTO `json:"opportunity"`
	Patient     *patientDTO     `json:"patient"`
}

type statisticsDTO struct {
	TotalLeads                flexInt             `json:"total_leads"`
	TotalContacts             flexInt             `json:"total_contacts"`
	TotalOpportunities        flexInt             `json:"total_opportunities"`
	TotalValue                decimal.NullDecimal `json:"total_value"`
	ConversionRate            flexFloat           `json:"conversion_rate"`
	NewLeadsThisMonth         flexInt             `json:"new_leads_this_month"`
	NewContactsThisMonth      flexInt             `json:"new_contacts_this_month"`
	NewOpportunitiesThisMonth flexInt             `json:"new_opportunities_this_month"`
}

type listEnvelope[T any] struct {
	Data  []T      `json:"data"`
	Total *flexInt `json:"total"`
	Meta  *struct {
		Total *flexInt `json:"total"`
	} `json:"meta"`
}

// decodeList accepts {data, total}, {data, meta: {total}} or a bare array.
func decodeList[T any](raw json.RawMessage) ([]T, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, 0, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, err
		}
		return items, len(items), nil
	}

	var env listEnvelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, 0, err
	}
	total := len(env.Data)
	switch {
	case env.Total != nil:
		total = int(*env.Total)
	case env.Meta != nil && env.Meta.Total != nil:
		total = int(*env.Meta.Total)
	}
	return env.Data, total, nil
}

// unwrapData returns the value of the first top-level wrapper key (default
// "data") holding an object, or raw unchanged.
func unwrapData(raw json.RawMessage, keys ...string) json.RawMessage {
	if len(keys) == 0 {
		keys = []string{"data"}
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return raw
	}
	for _, k := range keys {
		if inner, ok := probe[k]; ok {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '{' {
				return inner
			}
		}
	}
	return raw
}

// flexInt accepts 12, 12.0, "12" and null.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", string(b))
	}
	*f = flexInt(int64(fl))
	return nil
}

// flexFloat accepts 12.5, "12.5" and null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", string(b))
	}
	*f = flexFloat(fl)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// flexTime accepts the timestamp layouts the backend is known to emit.
// null and "" decode to the zero time.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		f.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (f flexTime) ptr() *time.Time {
	if f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}
