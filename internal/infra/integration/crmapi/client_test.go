package crmapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeBackend answers from a route table keyed by "METHOD /path" and
// records every request it sees.
type fakeBackend struct {
	mu       sync.Mutex
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
	requests []recorded
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		h, ok := fb.routes[r.Method+" "+r.URL.Path]
		fb.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) on(route string, status int, body string) {
	fb.routes[route] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func (fb *fakeBackend) calls(method, path string) []recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	var out []recorded
	for _, r := range fb.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func newClient(srv *httptest.Server, token crmapi.TokenSource) *crmapi.Client {
	return crmapi.NewClient(srv.URL, 5*time.Second, token, logger.Nop())
}

// ============ SESSION ============

func TestClientSendsBearerTokenWhenSessionExists(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads", http.StatusOK, `{"data":[],"total":0}`)

	_, err := newClient(srv, crmapi.StaticToken("tok-123")).ListLeads(context.Background(), entity.ListFilter{})
	require.NoError(t, err)

	calls := fb.calls("GET", "/crm/leads")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer tok-123", calls[0].Auth)
}

func TestClientOmitsAuthorizationWithoutSession(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads", http.StatusOK, `[]`)

	_, err := newClient(srv, crmapi.StaticToken("")).ListLeads(context.Background(), entity.ListFilter{})
	require.NoError(t, err)

	calls := fb.calls("GET", "/crm/leads")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
}

func TestClientTokenErrorStillSendsRequest(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads", http.StatusOK, `[]`)

	broken := crmapi.TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("session file unreadable")
	})
	_, err := newClient(srv, broken).ListLeads(context.Background(), entity.ListFilter{})
	require.NoError(t, err)

	calls := fb.calls("GET", "/crm/leads")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
}

// ============ LEADS ============

func TestListLeadsAcceptsEnvelopeVariants(t *testing.T) {
	cases := map[string]string{
		"data and total": `{"data":[{"id":1,"name":"Ana Souza"}],"total":7}`,
		"meta total":     `{"data":[{"id":1,"name":"Ana Souza"}],"meta":{"total":7}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			fb, srv := newFakeBackend(t)
			fb.on("GET /crm/leads", http.StatusOK, body)

			page, err := newClient(srv, nil).ListLeads(context.Background(), entity.ListFilter{})
			require.NoError(t, err)
			assert.Equal(t, 7, page.Total)
			require.Len(t, page.Data, 1)
			assert.Equal(t, "Ana Souza", page.Data[0].Name)
		})
	}

	t.Run("bare array", func(t *testing.T) {
		fb, srv := newFakeBackend(t)
		fb.on("GET /crm/leads", http.StatusOK, `[{"id":1},{"id":"2"}]`)

		page, err := newClient(srv, nil).ListLeads(context.Background(), entity.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, int64(2), page.Data[1].ID)
	})
}

func TestListLeadsSendsFilterAsQuery(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads", http.StatusOK, `[]`)

	_, err := newClient(srv, nil).ListLeads(context.Background(), entity.ListFilter{Status: "new", Page: 2, PerPage: 20})
	require.NoError(t, err)

	calls := fb.calls("GET", "/crm/leads")
	require.Len(t, calls, 1)
	assert.Equal(t, "page=2&per_page=20&status=new", calls[0].Query)
}

func TestListLeadsSkipsRecordWithoutID(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads", http.StatusOK, `{"data":[{"id":1,"name":"Ana Souza"},{"name":"ghost"}],"total":2}`)

	page, err := newClient(srv, nil).ListLeads(context.Background(), entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(1), page.Data[0].ID)
	assert.Equal(t, 2, page.Total)
}

func TestListFollowUpsSkipsRecordWithoutID(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/tasks", http.StatusOK, `[{"title":"orphan"},{"id":3,"title":"Call back","type":"call"}]`)

	page, err := newClient(srv, nil).ListFollowUps(context.Background(), entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Call back", page.Data[0].Subject)
}

func TestCreateLeadUnwrapsLeadKey(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("POST /crm/leads", http.StatusCreated, `{"message":"ok","lead":{"id":42,"name":"Bruno Lima","status":"new","metadata":{"campaign":"fb","score":9}}}`)

	lead, err := newClient(srv, nil).CreateLead(context.Background(), entity.LeadInput{Name: "Bruno Lima"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), lead.ID)
	assert.Equal(t, "new", lead.Status)
	assert.Equal(t, "9", lead.Metadata["score"])

	calls := fb.calls("POST", "/crm/leads")
	require.Len(t, calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
	assert.Equal(t, "Bruno Lima", sent["name"])
}

func TestDeleteLeadAcceptsNoContent(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("DELETE /crm/leads/5", http.StatusNoContent, "")

	err := newClient(srv, nil).DeleteLead(context.Background(), 5)
	assert.NoError(t, err)
}

func TestNonSuccessStatusBecomesHTTPError(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads/9", http.StatusUnprocessableEntity, `{"error":"invalid"}`)

	_, err := newClient(srv, nil).GetLead(context.Background(), 9)
	require.Error(t, err)

	var he *crmapi.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnprocessableEntity, he.StatusCode)
	assert.Contains(t, he.Body, "invalid")
	assert.Equal(t, http.StatusUnprocessableEntity, crmapi.StatusCode(err))
}

// ============ CONTACTS ============

func TestListContactsProjectsLeads(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/contacts", http.StatusOK, `{"data":[{"id":3,"name":"Carla Maria Dias","status":"contact"}],"total":1}`)

	page, err := newClient(srv, nil).ListContacts(context.Background(), entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Data[0].ID)
	assert.Equal(t, "Carla", page.Data[0].FirstName)
	assert.Equal(t, "Maria Dias", page.Data[0].LastName)
}

// ============ OPPORTUNITIES ============

func TestOpportunityDefaults(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/opportunities/8", http.StatusOK, `{"data":{"id":8,"title":"Plano família","probability":140}}`)

	opp, err := newClient(srv, nil).GetOpportunity(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "Plano família", opp.Name)
	assert.True(t, opp.Amount.Equal(decimal.Zero))
	assert.Equal(t, entity.StageProspecting, opp.Stage)
	assert.Equal(t, 100, opp.Probability)
	assert.Nil(t, opp.ExpectedCloseDate)
}

func TestOpportunityAmountAsString(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/opportunities/8", http.StatusOK, `{"id":8,"name":"Check-up","amount":"1500.50","stage":"proposal","expected_close_date":"2026-12-01"}`)

	opp, err := newClient(srv, nil).GetOpportunity(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "1500.5", opp.Amount.String())
	require.NotNil(t, opp.ExpectedCloseDate)
	assert.Equal(t, "2026-12-01", opp.ExpectedCloseDate.Format(entity.DateLayout))
}

// ============ FOLLOW-UPS ============

func TestFollowUpMapsTaskFields(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/tasks", http.StatusOK, `{"data":[
		{"id":1,"title":"Ligar","type":"call","due_date":"2026-11-01T10:00:00Z","status":"completed","subject_type":"CrmOpportunity","subject_id":4},
		{"id":2,"subject":"Email","scheduled_date":"2026-11-02","subject_type":"CrmLead","subject_id":5}
	],"total":2}`)

	page, err := newClient(srv, nil).ListFollowUps(context.Background(), entity.ListFilter{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	first := page.Data[0]
	assert.Equal(t, "Ligar", first.Subject)
	assert.True(t, first.Completed)
	assert.Equal(t, entity.RelatedOpportunity, first.RelatedType)
	assert.Equal(t, int64(4), first.RelatedID)

	second := page.Data[1]
	assert.Equal(t, "Email", second.Subject)
	assert.False(t, second.Completed)
	assert.Equal(t, entity.FollowUpNote, second.Type)
	assert.Equal(t, entity.RelatedLead, second.RelatedType)
	assert.Equal(t, 2, second.ScheduledDate.Day())
}

func TestCreateFollowUpForContactUsesLeadSubject(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("POST /crm/tasks", http.StatusCreated, `{"data":{"id":10,"title":"Retorno","subject_type":"CrmLead","subject_id":3}}`)

	due := time.Date(2026, 11, 5, 14, 0, 0, 0, time.UTC)
	_, err := newClient(srv, nil).CreateFollowUp(context.Background(), entity.FollowUpInput{
		Type:          entity.FollowUpCall,
		Subject:       "Retorno",
		ScheduledDate: due,
		RelatedType:   entity.RelatedContact,
		RelatedID:     3,
	})
	require.NoError(t, err)

	calls := fb.calls("POST", "/crm/tasks")
	require.Len(t, calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
	assert.Equal(t, "CrmLead", sent["subject_type"])
	assert.Equal(t, "pending", sent["status"])
	assert.Equal(t, "Retorno", sent["title"])
	assert.Equal(t, "2026-11-05T14:00:00Z", sent["due_date"])
}

func TestCompleteFollowUpWithoutBody(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("PATCH /crm/tasks/6/complete", http.StatusNoContent, "")

	f, err := newClient(srv, nil).CompleteFollowUp(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), f.ID)
	assert.True(t, f.Completed)
}

// ============ CONVERSION ============

func TestConversionOptions(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/leads/11/conversion-options", http.StatusOK, `{"current_status":"qualified","can_convert_to_contact":true,"can_convert_to_opportunity":false,"can_convert_to_patient":true}`)

	opts, err := newClient(srv, nil).ConversionOptions(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, int64(11), opts.LeadID)
	assert.Equal(t, "qualified", opts.CurrentStatus)
	assert.True(t, opts.CanConvertToContact)
	assert.False(t, opts.CanConvertToOpportunity)
}

func TestCreatePatientFromLeadIssuesSinglePost(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("POST /crm/leads/12/create-patient", http.StatusCreated, `{"message":"Patient created","patient":{"id":900,"name":"Diego Alves"}}`)

	res, err := newClient(srv, nil).CreatePatientFromLead(context.Background(), 12, entity.PatientInput{FirstName: "Diego", LastName: "Alves"})
	require.NoError(t, err)

	assert.Equal(t, entity.TargetPatientDirect, res.Target)
	assert.Equal(t, 1, res.Calls)
	require.NotNil(t, res.Patient)
	assert.Equal(t, int64(900), res.Patient.ID)
	assert.Equal(t, "Diego", res.Patient.FirstName)

	assert.Len(t, fb.calls("POST", "/crm/leads/12/create-patient"), 1)
	assert.Empty(t, fb.calls("POST", "/crm/leads/12/convert-to-contact"))
}

func TestConvertToOpportunitySendsLeadID(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("POST /crm/leads/13/convert-to-opportunity", http.StatusOK, `{"message":"ok","opportunity":{"id":70,"name":"Consulta","lead_id":13,"amount":250}}`)

	res, err := newClient(srv, nil).ConvertToOpportunity(context.Background(), 13, entity.OpportunityInput{Name: "Consulta", Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	require.NotNil(t, res.Opportunity)
	require.NotNil(t, res.Opportunity.LeadID)
	assert.Equal(t, int64(13), *res.Opportunity.LeadID)

	calls := fb.calls("POST", "/crm/leads/13/convert-to-opportunity")
	require.Len(t, calls, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &sent))
	assert.EqualValues(t, 13, sent["lead_id"])
}

func TestConvertContactToPatientCountsOneCall(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("POST /crm/contacts/14/convert-to-patient", http.StatusOK, `{"message":"ok","patient":{"id":901,"first_name":"Rui","last_name":"Costa"}}`)

	res, err := newClient(srv, nil).ConvertContactToPatient(context.Background(), 14, entity.PatientInput{FirstName: "Rui", LastName: "Costa"})
	require.NoError(t, err)

	assert.Equal(t, entity.TargetPatient, res.Target)
	assert.Equal(t, 1, res.Calls)
	require.NotNil(t, res.Patient)
	assert.Equal(t, int64(901), res.Patient.ID)
	assert.Len(t, fb.calls("POST", "/crm/contacts/14/convert-to-patient"), 1)
}

// ============ STATISTICS ============

func TestStatisticsPrimaryEndpoint(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/statistics", http.StatusOK, `{"data":{"total_leads":20,"total_contacts":5,"total_opportunities":4,"total_value":"9000.00","conversion_rate":"25.0"}}`)

	stats, err := newClient(srv, nil).Statistics(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Degraded)
	assert.Equal(t, 20, stats.TotalLeads)
	assert.Equal(t, 5, stats.TotalContacts)
	assert.Equal(t, 25.0, stats.ConversionRate)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(9000)))

	assert.Empty(t, fb.calls("GET", "/crm/leads"))
}

func TestStatisticsFallsBackToListTotals(t *testing.T) {
	fb, srv := newFakeBackend(t)
	fb.on("GET /crm/statistics", http.StatusInternalServerError, `boom`)
	fb.on("GET /crm/leads", http.StatusOK, `{"data":[{"id":1}],"total":31}`)
	fb.on("GET /crm/opportunities", http.StatusOK, `{"data":[{"id":1}],"meta":{"total":6}}`)

	stats, err := newClient(srv, nil).Statistics(context.Background())
	require.NoError(t, err)

	assert.True(t, stats.Degraded)
	assert.Equal(t, 31, stats.TotalLeads)
	assert.Equal(t, stats.TotalLeads, stats.TotalContacts)
	assert.Equal(t, 6, stats.TotalOpportunities)
	assert.True(t, stats.TotalValue.IsZero())
	assert.Zero(t, stats.ConversionRate)

	assert.Len(t, fb.calls("GET", "/crm/statistics"), 1)
	assert.Len(t, fb.calls("GET", "/crm/leads"), 1)
	assert.Len(t, fb.calls("GET", "/crm/opportunities"), 1)
}

func TestStatisticsFallbackSurvivesFailingLists(t *testing.T) {
	_, srv := newFakeBackend(t)

	stats, err := newClient(srv, nil).Statistics(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Degraded)
	assert.Zero(t, stats.TotalLeads)
	assert.Zero(t, stats.TotalOpportunities)
}
