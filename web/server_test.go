package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/logging"
	"github.com/harperreed/yongu/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu  sync.Mutex
	doc *models.Document
}

func (m *memStore) Load(context.Context) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc, nil
}

func (m *memStore) Save(_ context.Context, doc *models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc
	return nil
}

func (m *memStore) Describe() string { return "memory" }

func testServer(t *testing.T) (*Server, models.Contact) {
	t.Helper()
	ctrl := app.New(&memStore{}, nil, app.WithClock(func() time.Time { return now }), app.WithLogger(logging.Discard()))
	ctx := context.Background()

	due := now.Add(-24 * time.Hour)
	ana := models.NewContact("Ana Ruiz", "Foo Studio", now)
	ana.Status = models.StatusActive
	ana.NextFollowUp = &due
	ana.AddLog(models.NewLogEntry(models.LogCall, now.Add(-48*time.Hour), "talked rates"))
	added, err := ctrl.AddContact(ctx, ana)
	require.NoError(t, err)
	_, err = ctrl.AddContact(ctx, models.Contact{Name: "Bo Lee", Company: "Bar Games", Status: models.StatusNegotiating})
	require.NoError(t, err)

	s, err := NewServer(ctrl, logging.Discard())
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	return s, added
}

func get(t *testing.T, h http.Handler, url string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestDashboardPage(t *testing.T) {
	s, _ := testServer(t)
	code, body := get(t, s.Handler(), "/")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "2 contacts")
	assert.Contains(t, body, "Negotiating")
	assert.Contains(t, body, "1 follow-ups due")
	assert.Contains(t, body, "Ana Ruiz (2025-05-31)")

	code, _ = get(t, s.Handler(), "/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestContactsPage(t *testing.T) {
	s, _ := testServer(t)
	code, body := get(t, s.Handler(), "/contacts")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "Ana Ruiz")
	assert.Contains(t, body, "Bo Lee")

	_, body = get(t, s.Handler(), "/contacts?q=games")
	assert.Contains(t, body, "Bo Lee")
	assert.NotContains(t, body, "Ana Ruiz")

	_, body = get(t, s.Handler(), "/contacts?status=active")
	assert.Contains(t, body, "Ana Ruiz")
	assert.NotContains(t, body, "Bo Lee")
}

func TestFollowupsPage(t *testing.T) {
	s, _ := testServer(t)
	_, body := get(t, s.Handler(), "/followups")
	assert.Contains(t, body, "Ana Ruiz")
	assert.NotContains(t, body, "Bo Lee")
}

func TestContactDetailPartial(t *testing.T) {
	s, ana := testServer(t)
	code, body := get(t, s.Handler(), "/partials/contact-detail?id="+ana.ID)
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "Foo Studio")
	assert.Contains(t, body, "Call: talked rates")
	assert.Contains(t, body, "2 days ago")

	code, _ = get(t, s.Handler(), "/partials/contact-detail?id=missing")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = get(t, s.Handler(), "/partials/contact-detail")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGraphPartial(t *testing.T) {
	s, _ := testServer(t)
	code, body := get(t, s.Handler(), "/partials/graph?type=geo")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "digraph")
	assert.Contains(t, body, "Europe (2)")

	code, _ = get(t, s.Handler(), "/partials/graph?type=companies")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = get(t, s.Handler(), "/graphs")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Geography")
}
