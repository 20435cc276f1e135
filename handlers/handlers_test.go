package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/logging"
	"github.com/harperreed/yongu/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	mu    sync.Mutex
	doc   *models.Document
	saves int
}

func (s *memStore) Load(context.Context) (*models.Document, error) { return s.doc, nil }

func (s *memStore) Save(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	s.saves++
	return nil
}

func (s *memStore) Describe() string { return "memory" }

func setup(t *testing.T) (*app.Controller, *memStore) {
	t.Helper()
	st := &memStore{}
	ctrl := app.New(st, nil, app.WithClock(func() time.Time { return now }), app.WithLogger(logging.Discard()))
	return ctrl, st
}

func addAna(t *testing.T, h *ContactHandlers) ContactOutput {
	t.Helper()
	_, out, err := h.AddContact(context.Background(), nil, AddContactInput{
		Name:      "Ana Ruiz",
		Company:   "Foo",
		Sector:    "film",
		Continent: "south america",
		Tags:      []string{"Nuke", "Nuke", " "},
	})
	require.NoError(t, err)
	return out
}

func TestAddContact(t *testing.T) {
	ctrl, st := setup(t)
	h := NewContactHandlers(ctrl)
	h.now = func() time.Time { return now }

	out := addAna(t, h)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "New", out.Status)
	assert.Equal(t, "Film", out.Sector)
	assert.Equal(t, "South America", out.Continent)
	assert.Equal(t, []string{"Nuke"}, out.Tags)
	assert.Empty(t, out.Logs)
	assert.Equal(t, 1, st.saves)

	_, _, err := h.AddContact(context.Background(), nil, AddContactInput{Name: "No Company"})
	assert.Error(t, err)
	_, _, err = h.AddContact(context.Background(), nil, AddContactInput{Name: "Bo", Company: "Bar", Status: "Ghosted"})
	assert.ErrorContains(t, err, "unknown status")
	assert.Equal(t, 1, st.saves)
}

func TestFindContacts(t *testing.T) {
	ctrl, _ := setup(t)
	h := NewContactHandlers(ctrl)
	ctx := context.Background()

	addAna(t, h)
	for _, name := range []string{"Bo", "Cy", "Di"} {
		_, _, err := h.AddContact(ctx, nil, AddContactInput{Name: name, Company: "Bar", Sector: "Games"})
		require.NoError(t, err)
	}

	_, out, err := h.FindContacts(ctx, nil, FindContactsInput{Query: "nuke"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Ana Ruiz", out.Contacts[0].Name)

	_, out, err = h.FindContacts(ctx, nil, FindContactsInput{Sector: "games", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Contacts, 2)
	assert.Equal(t, 3, out.Total)

	_, out, err = h.FindContacts(ctx, nil, FindContactsInput{Query: "nobody"})
	require.NoError(t, err)
	assert.NotNil(t, out.Contacts)
	assert.Empty(t, out.Contacts)
}

func TestSetStatusAndLog(t *testing.T) {
	ctrl, _ := setup(t)
	h := NewContactHandlers(ctrl)
	ctx := context.Background()
	ana := addAna(t, h)

	_, out, err := h.SetContactStatus(ctx, nil, SetContactStatusInput{ID: ana.ID, Status: "negotiating"})
	require.NoError(t, err)
	assert.Equal(t, "Negotiating", out.Status)

	_, _, err = h.SetContactStatus(ctx, nil, SetContactStatusInput{ID: ana.ID, Status: "Ghosted"})
	assert.ErrorContains(t, err, "unknown status")
	_, _, err = h.SetContactStatus(ctx, nil, SetContactStatusInput{ID: "missing", Status: "Active"})
	assert.ErrorIs(t, err, app.ErrContactNotFound)

	_, out, err = h.LogContactInteraction(ctx, nil, LogContactInteractionInput{
		ContactID:       ana.ID,
		Type:            "call",
		Note:            "talked rates",
		InteractionDate: "2025-05-20",
	})
	require.NoError(t, err)
	require.Len(t, out.Logs, 1)
	assert.Equal(t, "Call", out.Logs[0].Type)
	assert.Equal(t, "talked rates", out.Logs[0].Notes)
	require.NotNil(t, out.LastContactDate)
	assert.Equal(t, "2025-05-20T00:00:00Z", *out.LastContactDate)

	_, out, err = h.LogContactInteraction(ctx, nil, LogContactInteractionInput{ContactID: ana.ID})
	require.NoError(t, err)
	assert.Equal(t, "Email", out.Logs[0].Type, "defaults to email, newest first")
	assert.Equal(t, now.Format(timeFormat), *out.LastContactDate)

	_, _, err = h.LogContactInteraction(ctx, nil, LogContactInteractionInput{ContactID: ana.ID, Type: "Fax"})
	assert.Error(t, err)
	_, _, err = h.LogContactInteraction(ctx, nil, LogContactInteractionInput{ContactID: ana.ID, InteractionDate: "yesterday"})
	assert.Error(t, err)
}

func TestUpdateContact(t *testing.T) {
	ctrl, _ := setup(t)
	h := NewContactHandlers(ctrl)
	ctx := context.Background()
	ana := addAna(t, h)

	_, out, err := h.UpdateContact(ctx, nil, UpdateContactInput{
		ID:       ana.ID,
		Rate:     "$500/day",
		AddTags:  []string{"Houdini"},
		FollowUp: "2025-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", out.Name)
	assert.Equal(t, "$500/day", out.Rate)
	assert.Equal(t, []string{"Nuke", "Houdini"}, out.Tags)
	require.NotNil(t, out.NextFollowUp)
	assert.Equal(t, ana.StatusUpdatedAt, out.StatusUpdatedAt)

	_, _, err = h.UpdateContact(ctx, nil, UpdateContactInput{ID: ana.ID, Continent: "Atlantis"})
	assert.ErrorContains(t, err, "unknown continent")
}

func TestDeleteContact(t *testing.T) {
	ctrl, st := setup(t)
	h := NewContactHandlers(ctrl)
	ctx := context.Background()
	ana := addAna(t, h)

	_, out, err := h.DeleteContact(ctx, nil, DeleteContactInput{ID: ana.ID})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Contains(t, out.Message, "Ana Ruiz")
	assert.Empty(t, st.doc.Clients)

	_, _, err = h.DeleteContact(ctx, nil, DeleteContactInput{ID: ana.ID})
	assert.ErrorIs(t, err, app.ErrContactNotFound)
}

func TestCSVTools(t *testing.T) {
	ctrl, _ := setup(t)
	h := NewDocumentHandlers(ctrl)
	h.now = func() time.Time { return now }
	ctx := context.Background()

	_, imported, err := h.ImportCSV(ctx, nil, ImportCSVInput{CSV: "Name,Company,Status\nAna,Foo,Active\n,Nameless,New\nBo,Bar,Ghosted\n"})
	require.NoError(t, err)
	assert.Equal(t, 2, imported.Imported)
	assert.Equal(t, 1, imported.Skipped)
	assert.Len(t, imported.Warnings, 1)

	_, _, err = h.ImportCSV(ctx, nil, ImportCSVInput{CSV: "Company\nFoo\n"})
	assert.Error(t, err)

	_, exported, err := h.ExportCSV(ctx, nil, ExportCSVInput{})
	require.NoError(t, err)
	assert.Equal(t, "yongu-contacts-2025-06-01.csv", exported.Filename)
	assert.Equal(t, 2, exported.Count)
	assert.Contains(t, exported.CSV, `"Ana","Foo"`)
}

func TestDashboardTool(t *testing.T) {
	ctrl, _ := setup(t)
	addAna(t, NewContactHandlers(ctrl))
	h := NewDocumentHandlers(ctrl)
	h.now = func() time.Time { return now }

	_, out, err := h.Dashboard(context.Background(), nil, DashboardInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, out.TotalContacts)
	assert.Equal(t, 1, out.ByStatus["New"])
	assert.Equal(t, 1, out.ByContinent["South America"])
	assert.Equal(t, 1, out.StaleContacts)
	assert.Contains(t, out.Text, "YONGU CRM DASHBOARD")
}

func TestGenerateGraphTool(t *testing.T) {
	ctrl, _ := setup(t)
	addAna(t, NewContactHandlers(ctrl))
	h := NewVizHandlers(ctrl)

	_, out, err := h.GenerateGraph(context.Background(), nil, GenerateGraphInput{Type: "geography"})
	require.NoError(t, err)
	assert.Contains(t, out.DOTSource, "South America (1)")
	assert.Equal(t, 1, out.EdgeCount)

	_, _, err = h.GenerateGraph(context.Background(), nil, GenerateGraphInput{Type: "company"})
	assert.ErrorContains(t, err, "unknown graph type")
}

func TestResources(t *testing.T) {
	ctrl, _ := setup(t)
	ana := addAna(t, NewContactHandlers(ctrl))
	h := NewResourceHandlers(ctrl)
	ctx := context.Background()

	read := func(uri string) (*mcp.ReadResourceResult, error) {
		return h.ReadResource(ctx, &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}})
	}

	res, err := read("crm://contacts")
	require.NoError(t, err)
	var contacts []models.Contact
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, ana.ID, contacts[0].ID)

	res, err = read("crm://contacts/" + ana.ID)
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "Ana Ruiz")

	res, err = read("crm://pipeline")
	require.NoError(t, err)
	var stages []pipelineStage
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &stages))
	require.Len(t, stages, len(models.Statuses))
	assert.Equal(t, "New", stages[1].Status)
	assert.Equal(t, []string{"Ana Ruiz"}, stages[1].Contacts)

	res, err = read("crm://followups")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", res.Contents[0].Text)

	_, err = read("http://contacts")
	assert.Error(t, err)
	_, err = read("crm://deals")
	assert.Error(t, err)
	_, err = read("crm://contacts/missing")
	assert.ErrorIs(t, err, app.ErrContactNotFound)
}

func TestPrompts(t *testing.T) {
	ctrl, _ := setup(t)
	ana := addAna(t, NewContactHandlers(ctrl))
	h := NewPromptHandlers(ctrl)
	h.now = func() time.Time { return now }
	ctx := context.Background()

	get := func(name string, args map[string]string) (string, error) {
		res, err := h.GetPrompt(ctx, &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Name: name, Arguments: args}})
		if err != nil {
			return "", err
		}
		return res.Messages[0].Content.(*mcp.TextContent).Text, nil
	}

	text, err := get("contact-summary", map[string]string{"contact_id": ana.ID})
	require.NoError(t, err)
	assert.Contains(t, text, "Company: Foo")

	text, err = get("follow-up-suggestions", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Ana Ruiz at Foo (never contacted)")

	_, err = get("follow-up-suggestions", map[string]string{"days_since_contact": "soon"})
	assert.Error(t, err)

	text, err = get("pipeline-review", nil)
	require.NoError(t, err)
	assert.Contains(t, text, "PIPELINE OVERVIEW")

	_, err = get("deal-analysis", nil)
	assert.Error(t, err)
	_, err = get("contact-summary", nil)
	assert.Error(t, err)
}

func TestNewServerRegisters(t *testing.T) {
	ctrl, _ := setup(t)
	assert.NotNil(t, NewServer(ctrl, "test"))
}
