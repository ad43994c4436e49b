package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	fstest "github.com/HerbHall/fullstock/internal/testutil"
)

const validBody = `{"name":"Ada Lovelace","company":"Analytical Bistro","position":"Head Chef","email":"ada@example.com"}`

type harness struct {
	module *Module
	mux    *http.ServeMux
	fake   *fstest.FakeAirtable
	reg    *prometheus.Registry
}

func newHarness(t *testing.T, settings map[string]any, opts ...Option) *harness {
	t.Helper()
	fake := fstest.NewFakeAirtable(t)

	v := viper.New()
	v.Set("base_url", fake.URL)
	v.Set("timeout", "2s")
	v.Set("rate_per_minute", 0)
	for k, val := range settings {
		v.Set(k, val)
	}

	reg := prometheus.NewRegistry()
	opts = append([]Option{
		WithCredentials("key123", "appBase", "tblLeads"),
		WithStore(fstest.NewStore(t)),
		WithMetrics(reg),
	}, opts...)
	m := New(opts...)
	require.NoError(t, m.Init(config.New(v), zap.NewNop()))

	mux := http.NewServeMux()
	for _, r := range m.Routes() {
		mux.HandleFunc(r.Method+" /api/v1/leads"+r.Path, r.Handler)
	}
	return &harness{module: m, mux: mux, fake: fake, reg: reg}
}

func (h *harness) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/submissions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.mux.ServeHTTP(w, req)
	return w
}

// scrape returns the registry in the text exposition format.
func (h *harness) scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.HandlerFor(h.reg, promhttp.HandlerOpts{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	return w.Body.String()
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) server.Problem {
	t.Helper()
	var p server.Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	return p
}

func TestHandleSubmit_Created(t *testing.T) {
	h := newHarness(t, nil)

	w := h.post(validBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp SubmissionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "rec1", resp.RecordID)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "2025-04-01T09:00:00.000Z", resp.CreatedTime)

	subs, err := h.module.repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, resp.ID, subs[0].ID)
	assert.Equal(t, OutcomeSuccess, subs[0].Outcome)
	assert.Contains(t, h.scrape(t), `fullstock_leads_submissions_total{outcome="success",reason="none"} 1`)
}

func TestHandleSubmit_UpstreamRejection(t *testing.T) {
	h := newHarness(t, nil)
	h.fake.Fail(http.StatusUnprocessableEntity, `{"error":"INVALID_VALUE_FOR_COLUMN"}`)

	w := h.post(validBody)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, FailureAlert, decodeProblem(t, w).Detail)

	subs, err := h.module.repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, OutcomeFailure, subs[0].Outcome)
	assert.Equal(t, ReasonRejected, subs[0].Reason)
	assert.Equal(t, "Analytical Bistro", subs[0].Lead.Company)
	assert.Len(t, h.fake.Requests(), 1)
}

func TestHandleSubmit_NotConfigured(t *testing.T) {
	fake := fstest.NewFakeAirtable(t)
	v := viper.New()
	v.Set("base_url", fake.URL)
	m := New(WithCredentials("", "appBase", ""))
	require.NoError(t, m.Init(config.New(v), zap.NewNop()))

	mux := http.NewServeMux()
	for _, r := range m.Routes() {
		mux.HandleFunc(r.Method+" /api/v1/leads"+r.Path, r.Handler)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads/submissions", strings.NewReader(validBody))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, fake.Requests())
}

func TestHandleSubmit_BadRequest(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `name=ada`},
		{"missing company", `{"name":"Ada","position":"Chef","email":"ada@example.com"}`},
		{"bad email", `{"name":"Ada","company":"B","position":"Chef","email":"nope"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := h.post(tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, h.fake.Requests())
}

func TestHandleSubmit_RateLimited(t *testing.T) {
	h := newHarness(t, map[string]any{"rate_per_minute": 1, "burst": 1})

	require.Equal(t, http.StatusCreated, h.post(validBody).Code)
	w := h.post(validBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, h.scrape(t), "fullstock_leads_rate_limited_total 1")
	assert.Len(t, h.fake.Requests(), 1)
}

func TestHandleList(t *testing.T) {
	h := newHarness(t, nil)
	h.post(validBody)
	h.post(validBody)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/submissions?limit=1", http.NoBody)
	w := httptest.NewRecorder()
	h.mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []Submission
	require.NoError(t, json.NewDecoder(w.Body).Decode(&subs))
	assert.Len(t, subs, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/leads/submissions?limit=x", http.NoBody)
	w = httptest.NewRecorder()
	h.mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleList_NoStore(t *testing.T) {
	m := New(WithSubmitter(&stubSubmitter{}))
	require.NoError(t, m.Init(config.New(nil), zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leads/submissions", http.NoBody)
	w := httptest.NewRecorder()
	m.handleList(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestModule_Health(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, plugin.HealthOK, h.module.Health(context.Background()).Status)

	m := New(WithCredentials("", "appBase", ""))
	require.NoError(t, m.Init(config.New(nil), zap.NewNop()))
	got := m.Health(context.Background())
	assert.Equal(t, plugin.HealthDegraded, got.Status)
	assert.Equal(t, "missing AIRTABLE_API_KEY, AIRTABLE_TABLE_ID", got.Message)
}

func TestModule_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		timeout string
		wantErr bool
	}{
		{"defaults", "https://api.airtable.com", "15s", false},
		{"local fake", "http://127.0.0.1:9999", "1s", false},
		{"no scheme", "api.airtable.com", "15s", true},
		{"ftp", "ftp://api.airtable.com", "15s", true},
		{"negative timeout", "https://api.airtable.com", "-1s", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			v.Set("base_url", tc.baseURL)
			v.Set("timeout", tc.timeout)
			m := New(WithCredentials("key", "app", "tbl"))
			require.NoError(t, m.Init(config.New(v), zap.NewNop()))
			if tc.wantErr {
				assert.Error(t, m.ValidateConfig())
			} else {
				assert.NoError(t, m.ValidateConfig())
			}
		})
	}
}
