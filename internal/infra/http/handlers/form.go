package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// maxFormBytes bounds url-encoded form bodies.
const maxFormBytes = 64 << 10

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	return r.ParseForm()
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// intField parses an optional integer. Text that is not a number is
// recorded in malformed and reads as zero.
func intField(r *http.Request, name string, malformed *usecase.ValidationErrors) int64 {
	s := field(r, name)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		*malformed = append(*malformed, usecase.ValidationError{Field: name, Message: "must be a whole number"})
		return 0
	}
	return n
}

func urlID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

func listFilter(r *http.Request) entity.ListFilter {
	q := r.URL.Query()
	return entity.ListFilter{
		Search:  strings.TrimSpace(q.Get("search")),
		Status:  q.Get("status"),
		Source:  q.Get("source"),
		Stage:   q.Get("stage"),
		Type:    q.Get("type"),
		Page:    queryInt(r, "page"),
		PerPage: queryInt(r, "per_page"),
	}
}

func leadForm(r *http.Request) usecase.LeadForm {
	return usecase.LeadForm{
		Name:   field(r, "name"),
		Email:  field(r, "email"),
		Phone:  field(r, "phone"),
		Source: field(r, "source"),
		Status: field(r, "status"),
		Stage:  field(r, "stage"),
		Notes:  field(r, "notes"),
	}
}

func opportunityForm(r *http.Request) usecase.OpportunityForm {
	var f usecase.OpportunityForm
	f.LeadID = intField(r, "lead_id", &f.Malformed)
	f.Name = field(r, "name")
	f.Amount = field(r, "amount")
	f.Stage = field(r, "stage")
	f.Probability = int(intField(r, "probability", &f.Malformed))
	f.ExpectedCloseDate = field(r, "expected_close_date")
	f.Notes = field(r, "notes")
	return f
}

func followUpForm(r *http.Request) usecase.FollowUpForm {
	f := usecase.FollowUpForm{
		Type:          field(r, "type"),
		Subject:       field(r, "subject"),
		Description:   field(r, "description"),
		ScheduledDate: field(r, "scheduled_date"),
		RelatedType:   field(r, "related_type"),
		Completed:     field(r, "completed") == "on" || field(r, "completed") == "true",
	}
	f.RelatedID = intField(r, "related_id", &f.Malformed)
	return f
}

func patientInput(r *http.Request) entity.PatientInput {
	return entity.PatientInput{
		FirstName:   field(r, "first_name"),
		LastName:    field(r, "last_name"),
		Email:       field(r, "email"),
		Phone:       field(r, "phone"),
		DateOfBirth: field(r, "date_of_birth"),
		Gender:      field(r, "gender"),
		Notes:       field(r, "notes"),
	}
}
