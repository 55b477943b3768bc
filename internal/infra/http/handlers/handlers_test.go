package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/crmapi"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/usecase"
	"github.com/xavierca1/ligue-crm/internal/view"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

type backendCall struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
}

// crmBackend fakes the /crm API with canned answers keyed by "METHOD /path".
type crmBackend struct {
	mu     sync.Mutex
	routes map[string]string
	calls  []backendCall
}

func (b *crmBackend) count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

type stubReport struct{ stats entity.CRMStatistics }

func (s *stubReport) Generate(_ context.Context, stats entity.CRMStatistics, _ string) ([]byte, error) {
	s.stats = stats
	return []byte("%PDF-1.3 stub"), nil
}

type testServer struct {
	router     http.Handler
	backend    *crmBackend
	workspaces *handlers.Workspaces
	report     *stubReport
}

func newTestServer(t *testing.T, routes map[string]string, loginLimit int) *testServer {
	t.Helper()
	b := &crmBackend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, backendCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Auth: r.Header.Get("Authorization")})
		body, ok := b.routes[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	log := logger.Nop()
	client := crmapi.NewClient(srv.URL, 5*time.Second, session.ContextTokenSource{}, log)
	workspaces := handlers.NewWorkspaces(client, nil, usecase.NewValidator(nil), log)
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	repo := session.NewMemoryStore()
	limiter := middleware.NewRateLimiter(loginLimit, time.Minute)
	t.Cleanup(limiter.Stop)
	report := &stubReport{}

	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:           handlers.NewAuthHandler(repo, workspaces, renderer, time.Hour, false, log),
		CRM:            handlers.NewCRMHandler(workspaces, renderer, report, log),
		Health:         handlers.NewHealthHandler(nil, nil, srv.URL, workspaces),
		Sessions:       middleware.NewSessions(repo, log),
		LoginLimiter:   limiter,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{router: router, backend: b, workspaces: workspaces, report: report}
}

func (ts *testServer) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	req.RemoteAddr = "192.0.2.10:4000"
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	rec := ts.do(http.MethodPost, "/login", url.Values{"token": {"operator-token"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

const leadSeven = `{"id":7,"name":"Ana Souza","email":"ana@example.com","phone":"11 99999-0000","status":"new","source":"website"}`

// ============ SESSIONS ============

func TestPagesRequireSignIn(t *testing.T) {
	ts := newTestServer(t, nil, 10)

	rec := ts.do(http.MethodGet, "/leads", nil, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, ts.backend.count(http.MethodGet, "/crm/leads"))
}

func TestLoginForwardsTokenToBackend(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads": `{"data":[` + leadSeven + `],"total":1}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodGet, "/leads", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana Souza")
	assert.Equal(t, "Bearer operator-token", ts.backend.calls[0].Auth)
}

func TestLoginWithoutToken(t *testing.T) {
	ts := newTestServer(t, nil, 10)

	rec := ts.do(http.MethodPost, "/login", url.Values{"token": {""}}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access token is required")
}

func TestLoginIsRateLimited(t *testing.T) {
	ts := newTestServer(t, nil, 1)

	first := ts.do(http.MethodPost, "/login", url.Values{"token": {"a"}}, nil)
	second := ts.do(http.MethodPost, "/login", url.Values{"token": {"b"}}, nil)

	assert.Equal(t, http.StatusSeeOther, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestLogoutDropsWorkspace(t *testing.T) {
	ts := newTestServer(t, map[string]string{"GET /crm/leads": `{"data":[],"total":0}`}, 10)
	cookie := ts.signIn(t)
	ts.do(http.MethodGet, "/leads", nil, cookie)
	require.Equal(t, 1, ts.workspaces.Len())

	rec := ts.do(http.MethodGet, "/logout", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, ts.workspaces.Len())
	assert.Equal(t, http.StatusSeeOther, ts.do(http.MethodGet, "/leads", nil, cookie).Code)
}

// ============ LISTS ============

func TestListSearchReachesBackend(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads": `{"data":[` + leadSeven + `],"total":1}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodGet, "/leads?search=ana&status=new&page=2", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, ts.backend.count(http.MethodGet, "/crm/leads"))
	q := ts.backend.calls[0].Query
	assert.Equal(t, "ana", q.Get("search"))
	assert.Equal(t, "new", q.Get("status"))
	assert.Equal(t, "2", q.Get("page"))
}

// ============ FORMS ============

func TestCreateLeadValidationErrorSendsNothing(t *testing.T) {
	ts := newTestServer(t, nil, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/leads", url.Values{"name": {""}, "email": {"not-an-email"}}, cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "is required")
	assert.Contains(t, rec.Body.String(), "<dialog open>")
	assert.Zero(t, ts.backend.count(http.MethodPost, "/crm/leads"))
}

func TestCreateOpportunityRejectsUnparsedProbability(t *testing.T) {
	ts := newTestServer(t, nil, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/opportunities", url.Values{"name": {"Plano anual"}, "amount": {"100"}, "probability": {"abc"}}, cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be a whole number")
	assert.Zero(t, ts.backend.count(http.MethodPost, "/crm/opportunities"))
}

func TestCreateLeadRedirectsToList(t *testing.T) {
	ts := newTestServer(t, map[string]string{"POST /crm/leads": leadSeven}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/leads", url.Values{"name": {"Ana Souza"}, "email": {"ana@example.com"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/leads", rec.Header().Get("Location"))
	assert.Equal(t, 1, ts.backend.count(http.MethodPost, "/crm/leads"))
}

func TestDeleteFailureShowsError(t *testing.T) {
	ts := newTestServer(t, nil, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/opportunities/3/delete", url.Values{}, cookie)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "status 404")
}

// ============ CONVERSION ============

func TestConvertPageMirrorsOptions(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads/7":                    leadSeven,
		"GET /crm/leads/7/conversion-options": `{"lead_id":7,"current_status":"new","can_convert_to_contact":true,"can_convert_to_opportunity":false,"can_convert_to_patient":false}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodGet, "/leads/7/convert", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Convert Ana Souza")
	assert.Contains(t, body, `<button type="submit" >Convert to contact</button>`)
	assert.Contains(t, body, `<button type="submit" disabled>Create opportunity</button>`)
}

func TestConvertRefusedTargetIssuesNoPost(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads/7":                    leadSeven,
		"GET /crm/leads/7/conversion-options": `{"lead_id":7,"can_convert_to_contact":false}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/leads/7/convert", url.Values{"target": {"contact"}}, cookie)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Zero(t, ts.backend.count(http.MethodPost, "/crm/leads/7/convert-to-contact"))
}

func TestDirectPatientConversion(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads/7":                 leadSeven,
		"POST /crm/leads/7/create-patient": `{"message":"Patient created","patient":{"id":99,"first_name":"Ana","last_name":"Souza"}}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodPost, "/leads/7/convert", url.Values{"target": {"patient_direct"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))
	assert.Equal(t, 1, ts.backend.count(http.MethodPost, "/crm/leads/7/create-patient"))
	assert.Zero(t, ts.backend.count(http.MethodGet, "/crm/leads/7/conversion-options"))
}

// ============ STATISTICS ============

func TestStatisticsAPIRequiresSession(t *testing.T) {
	ts := newTestServer(t, nil, 10)

	rec := ts.do(http.MethodGet, "/api/statistics", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatisticsAPIFallsBack(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/leads":         `{"data":[` + leadSeven + `],"total":12}`,
		"GET /crm/opportunities": `{"data":[],"total":4}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodGet, "/api/statistics", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var stats entity.CRMStatistics
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.True(t, stats.Degraded)
	assert.Equal(t, 12, stats.TotalLeads)
	assert.Equal(t, 4, stats.TotalOpportunities)
}

func TestStatisticsPDF(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /crm/statistics": `{"total_leads":30,"total_contacts":9,"total_opportunities":5,"total_value":"1000.00","conversion_rate":30}`,
	}, 10)
	cookie := ts.signIn(t)

	rec := ts.do(http.MethodGet, "/reports/statistics.pdf", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	assert.Equal(t, 30, ts.report.stats.TotalLeads)
}

// ============ HEALTH ============

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, 10)

	rec := ts.do(http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handlers.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "configured", resp.Dependencies["crm_api"])
	assert.Equal(t, "not configured", resp.Dependencies["database"])
}
