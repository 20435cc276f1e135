package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/models"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestValidateGrossCorruptionYieldsDefault(t *testing.T) {
	inputs := map[string]any{
		"nil":          nil,
		"empty object": map[string]any{},
		"clients str":  map[string]any{"clients": "not-a-list"},
		"array":        []any{1, 2},
		"number":       42.0,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			v := Validate(raw, now)
			require.NotNil(t, v.Document)
			assert.Equal(t, VerdictDefault, v.Verdict)
			assert.NotNil(t, v.Document.Clients)
			assert.Empty(t, v.Document.Clients)
			assert.Nil(t, v.Document.Profile)
			assert.Equal(t, now, v.Document.LastUpdated)
		})
	}
}

func TestValidatePassesWellFormedDocument(t *testing.T) {
	v, err := Decode([]byte(`{
		"clients": [{"id": "c1", "name": "Ana", "company": "Foo", "status": "Active", "tags": ["x"], "logs": []}],
		"profile": {"name": "Me", "industry": "VFX"},
		"lastUpdated": "2025-01-02T03:04:05Z"
	}`), now)
	require.NoError(t, err)

	assert.Equal(t, VerdictValid, v.Verdict)
	require.Len(t, v.Document.Clients, 1)
	assert.Equal(t, "Ana", v.Document.Clients[0].Name)
	assert.Equal(t, models.StatusActive, v.Document.Clients[0].Status)
	require.NotNil(t, v.Document.Profile)
	assert.Equal(t, "VFX", v.Document.Profile.Industry)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), v.Document.LastUpdated)
}

func TestValidateRepairs(t *testing.T) {
	v, err := Decode([]byte(`{
		"clients": [{"id": "c1", "name": "Ana"}, "garbage", {"id": "c2", "name": 7}],
		"profile": "me"
	}`), now)
	require.NoError(t, err)

	assert.Equal(t, VerdictRepaired, v.Verdict)
	require.Len(t, v.Document.Clients, 2)
	assert.Equal(t, "c1", v.Document.Clients[0].ID)
	assert.NotNil(t, v.Document.Clients[0].Tags)
	assert.NotNil(t, v.Document.Clients[0].Logs)
	assert.Equal(t, "c2", v.Document.Clients[1].ID)
	assert.Equal(t, "7", v.Document.Clients[1].Name)
	assert.Nil(t, v.Document.Profile)
	assert.Equal(t, now, v.Document.LastUpdated)
	assert.Len(t, v.Problems, 4)
}

const mistypedClients = `{
	"clients": [
		{"id": "a", "name": "Ana", "nextFollowUpDate": "2024-05-01"},
		{"id": "b", "name": "Ben", "lat": "41.3", "lng": {"x": 1}},
		{"id": "c", "name": "Cy", "lastContactDate": ""},
		{"id": "d", "name": "Di", "tags": ["x", 3],
		 "logs": [{"id": "l1", "type": "Call", "date": "2024-04-02"}, "junk"]}
	],
	"profile": {"name": "Me", "industry": 5},
	"lastUpdated": "2025-01-02T03:04:05Z"
}`

func TestValidateKeepsContactsWithMistypedFields(t *testing.T) {
	v, err := Decode([]byte(mistypedClients), now)
	require.NoError(t, err)

	assert.Equal(t, VerdictRepaired, v.Verdict)
	clients := v.Document.Clients
	require.Len(t, clients, 4)
	for i, id := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, id, clients[i].ID)
	}

	require.NotNil(t, clients[0].NextFollowUp)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), clients[0].NextFollowUp.UTC())

	require.NotNil(t, clients[1].Lat)
	assert.InDelta(t, 41.3, *clients[1].Lat, 1e-9)
	assert.Nil(t, clients[1].Lng)

	assert.Nil(t, clients[2].LastContactDate)

	assert.Equal(t, []string{"x", "3"}, clients[3].Tags)
	require.Len(t, clients[3].Logs, 1)
	assert.Equal(t, "l1", clients[3].Logs[0].ID)
	assert.Equal(t, time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), clients[3].Logs[0].Date.UTC())

	require.NotNil(t, v.Document.Profile)
	assert.Equal(t, "Me", v.Document.Profile.Name)
	assert.Equal(t, "5", v.Document.Profile.Industry)

	assert.Contains(t, v.Problems, "client 0 (a): nextFollowUpDate coerced")
	assert.Contains(t, v.Problems, "client 1 (b): lat coerced, lng reset")
	assert.Contains(t, v.Problems, "client 2 (c): lastContactDate coerced")
	assert.Contains(t, v.Problems, "client 3 (d): logs coerced, tags coerced")
}

func TestMistypedContactsSurviveSaveAndReload(t *testing.T) {
	ctx := context.Background()
	handle := &memHandle{name: "crm.json", data: []byte(mistypedClients)}
	backend := NewFileBackend(&fakePicker{handle: handle}, WithFileClock(fixedClock))

	doc, _, err := backend.OpenExisting(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Clients, 4)

	require.NoError(t, backend.Save(ctx, handle, doc))
	reloaded, err := backend.Read(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, doc.Clients, reloaded.Clients)

	again, err := Decode(handle.data, now)
	require.NoError(t, err)
	assert.Equal(t, VerdictValid, again.Verdict, "a saved document needs no further repair: %v", again.Problems)
}

func TestValidateKeepsUnknownEnumLabels(t *testing.T) {
	v, err := Decode([]byte(`{"clients":[{"id":"c1","name":"Ana","status":"Ghosted"}],"profile":null,"lastUpdated":"2025-01-02T03:04:05Z"}`), now)
	require.NoError(t, err)

	assert.Equal(t, VerdictValid, v.Verdict)
	assert.Equal(t, models.Status("Ghosted"), v.Document.Clients[0].Status)
	assert.False(t, v.Document.Clients[0].Status.Known())
}

func TestDecodeSyntaxError(t *testing.T) {
	_, err := Decode([]byte(`{"clients": [`), now)
	assert.Error(t, err)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "valid", VerdictValid.String())
	assert.Equal(t, "repaired", VerdictRepaired.String())
	assert.Equal(t, "default", VerdictDefault.String())
}
