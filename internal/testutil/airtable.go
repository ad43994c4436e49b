package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// AirtableRequest is one request received by a FakeAirtable.
type AirtableRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          map[string]any
}

// FakeAirtable is an httptest server that records create-record requests
// and answers with a programmable status.
type FakeAirtable struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []AirtableRequest
	next     int
}

// NewFakeAirtable starts a server answering 200 with a created record.
// It is closed when the test completes.
func NewFakeAirtable(t *testing.T) *FakeAirtable {
	t.Helper()
	f := &FakeAirtable{status: http.StatusOK}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Fail makes subsequent requests answer status with body.
func (f *FakeAirtable) Fail(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

// Requests returns a copy of all recorded requests.
func (f *FakeAirtable) Requests() []AirtableRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]AirtableRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAirtable) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.requests = append(f.requests, AirtableRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	status, errBody := f.status, f.body
	f.next++
	id := "rec" + strconv.Itoa(f.next)
	f.mu.Unlock()

	if status < 200 || status > 299 {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, errBody)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          id,
		"createdTime": "2025-04-01T09:00:00.000Z",
		"fields":      body["fields"],
	})
}
