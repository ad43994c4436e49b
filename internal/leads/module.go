package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/HerbHall/fullstock/internal/config"
	"github.com/HerbHall/fullstock/internal/plugin"
	"github.com/HerbHall/fullstock/internal/server"
	"github.com/HerbHall/fullstock/internal/store"
	"github.com/HerbHall/fullstock/internal/version"
	"github.com/HerbHall/fullstock/pkg/models"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
	_ plugin.Validator     = (*Module)(nil)
)

// Module accepts demo requests over HTTP and forwards them to Airtable.
type Module struct {
	creds     ClientConfig
	submitter Submitter
	store     store.Store
	promReg   prometheus.Registerer

	client  ClientConfig
	missing []string
	repo    SubmissionRepository
	limiter *rate.Limiter
	metrics *metrics
	logger  *zap.Logger
}

// Option configures the leads module.
type Option func(*Module)

// WithCredentials sets the Airtable API key, base and table.
func WithCredentials(apiKey, baseID, tableID string) Option {
	return func(m *Module) {
		m.creds.APIKey = apiKey
		m.creds.BaseID = baseID
		m.creds.TableID = tableID
	}
}

// WithSubmitter replaces the Airtable client built during Init.
func WithSubmitter(s Submitter) Option {
	return func(m *Module) { m.submitter = s }
}

// WithStore enables the submission log.
func WithStore(st store.Store) Option {
	return func(m *Module) { m.store = st }
}

// WithMetrics registers the module's collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(m *Module) { m.promReg = reg }
}

// New creates the leads module.
func New(opts ...Option) *Module {
	m := &Module{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Module) Info() plugin.Info {
	return plugin.Info{
		Name:        "leads",
		Version:     version.Short(),
		Description: "Demo request capture forwarded to Airtable",
	}
}

// Init reads base_url, timeout, rate_per_minute and burst, builds the
// Airtable client and migrates the submission log when a store is set.
func (m *Module) Init(cfg *config.Config, logger *zap.Logger) error {
	m.logger = logger

	if m.submitter == nil {
		creds := m.creds
		creds.BaseURL = cfg.GetString("base_url")
		creds.Timeout = cfg.GetDuration("timeout")
		m.client = creds
		m.missing = creds.Missing()
		if len(m.missing) > 0 {
			logger.Warn("airtable credentials incomplete, submissions will be rejected",
				zap.Strings("missing", m.missing))
		}
		m.submitter = NewClient(creds)
	}

	perMinute := cfg.GetFloat64("rate_per_minute")
	burst := cfg.GetInt("burst")
	if perMinute <= 0 {
		m.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		if burst <= 0 {
			burst = 1
		}
		m.limiter = rate.NewLimiter(rate.Limit(perMinute/60), burst)
	}

	m.metrics = newMetrics(m.promReg)

	if m.store != nil {
		repo, err := NewSQLiteSubmissionRepository(context.Background(), m.store)
		if err != nil {
			return err
		}
		m.repo = repo
	}
	return nil
}

// ValidateConfig rejects a malformed base_url or a negative timeout.
func (m *Module) ValidateConfig() error {
	if m.client.BaseURL != "" {
		u, err := url.Parse(m.client.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url %q is not an http(s) URL", m.client.BaseURL)
		}
	}
	if m.client.Timeout < 0 {
		return fmt.Errorf("timeout %s is negative", m.client.Timeout)
	}
	return nil
}

// Health reports degraded while Airtable credentials are missing.
func (m *Module) Health(context.Context) plugin.HealthStatus {
	if len(m.missing) > 0 {
		return plugin.HealthStatus{
			Status:  plugin.HealthDegraded,
			Message: "missing " + strings.Join(m.missing, ", "),
		}
	}
	return plugin.HealthStatus{Status: plugin.HealthOK}
}

func (m *Module) Start(context.Context) error { return nil }

func (m *Module) Stop() error { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/submissions", Handler: m.handleSubmit},
		{Method: "GET", Path: "/submissions", Handler: m.handleList},
	}
}

// SubmissionResponse is returned for an accepted lead.
type SubmissionResponse struct {
	ID          string `json:"id"`
	RecordID    string `json:"record_id"`
	CreatedTime string `json:"created_time,omitempty"`
}

// handleSubmit forwards one lead.
//
//	@Summary		Submit a demo request
//	@Tags			leads
//	@Accept			json
//	@Produce		json
//	@Param			lead body models.Lead true "Contact details"
//	@Success		201 {object} SubmissionResponse
//	@Failure		400 {object} server.Problem
//	@Failure		429 {object} server.Problem
//	@Failure		502 {object} server.Problem
//	@Failure		503 {object} server.Problem
//	@Router			/leads/submissions [post]
func (m *Module) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !m.limiter.Allow() {
		m.metrics.rateLimited.Inc()
		w.Header().Set("Retry-After", "60")
		server.RateLimited(w, "too many submissions, try again later", r.URL.Path)
		return
	}

	var lead models.Lead
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&lead); err != nil {
		server.BadRequest(w, "request body must be a JSON object", r.URL.Path)
		return
	}

	form := NewForm(m.submitter, m.logger)
	if err := form.Dispatch(r.Context(), Open()); err != nil {
		server.InternalError(w, err.Error(), r.URL.Path)
		return
	}

	start := time.Now()
	if err := form.Dispatch(r.Context(), Submit(lead)); err != nil {
		if errors.Is(err, models.ErrInvalidLead) {
			server.BadRequest(w, err.Error(), r.URL.Path)
			return
		}
		server.InternalError(w, err.Error(), r.URL.Path)
		return
	}
	m.metrics.latency.Observe(time.Since(start).Seconds())

	sub := &Submission{ID: uuid.New().String(), Lead: form.Values()}
	rec := form.Record()
	if form.State() == StateSuccess {
		sub.Outcome = OutcomeSuccess
		sub.RecordID = rec.ID
	} else {
		sub.Outcome = OutcomeFailure
		sub.Reason = Reason(form.Err())
		sub.Error = form.Err().Error()
	}
	reason := sub.Reason
	if reason == ReasonNone {
		reason = "none"
	}
	m.metrics.submissions.WithLabelValues(string(sub.Outcome), reason).Inc()
	m.record(r.Context(), sub)

	switch {
	case sub.Outcome == OutcomeSuccess:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(SubmissionResponse{
			ID:          sub.ID,
			RecordID:    rec.ID,
			CreatedTime: rec.CreatedTime,
		})
	case errors.Is(form.Err(), ErrNotConfigured):
		server.ServiceUnavailable(w, form.Alert(), r.URL.Path)
	default:
		server.BadGateway(w, form.Alert(), r.URL.Path)
	}
}

// handleList returns the most recent submission log entries.
//
//	@Summary		List submissions
//	@Tags			leads
//	@Produce		json
//	@Param			limit query int false "Maximum entries (default 50)"
//	@Success		200 {array} Submission
//	@Failure		503 {object} server.Problem
//	@Router			/leads/submissions [get]
func (m *Module) handleList(w http.ResponseWriter, r *http.Request) {
	if m.repo == nil {
		server.ServiceUnavailable(w, "submission log is not enabled", r.URL.Path)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			server.BadRequest(w, fmt.Sprintf("invalid limit %q", v), r.URL.Path)
			return
		}
		limit = n
	}
	subs, err := m.repo.List(r.Context(), limit)
	if err != nil {
		m.logger.Error("failed to list submissions", zap.Error(err))
		server.InternalError(w, "failed to list submissions", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(subs)
}

// record writes sub to the submission log, if enabled. Log failures do not
// change the response.
func (m *Module) record(ctx context.Context, sub *Submission) {
	if m.repo == nil {
		return
	}
	if err := m.repo.Record(ctx, sub); err != nil {
		m.logger.Error("failed to record submission", zap.Error(err))
	}
}
