package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/jobs"
	"github.com/harperreed/yongu/logging"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/store"
)

func fileEnv(t *testing.T, name string) *Env {
	t.Helper()
	cfg := config.Default()
	cfg.Backend = config.BackendFile
	cfg.DocumentPath = filepath.Join(t.TempDir(), name)
	return &Env{Config: cfg, Logger: logging.Discard(), In: strings.NewReader(""), Out: &bytes.Buffer{}}
}

// emptyController creates a fresh document without demo contacts and opens it.
func emptyController(t *testing.T) (*Env, *app.Controller) {
	t.Helper()
	env := fileEnv(t, "crm.yongu")
	var out bytes.Buffer
	require.NoError(t, InitCommand(context.Background(), &out, env, []string{"--empty"}))

	ctrl, release, err := env.OpenController(context.Background())
	require.NoError(t, err)
	t.Cleanup(release)
	return env, ctrl
}

func run(t *testing.T, fn func(w *bytes.Buffer) error) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, fn(&out))
	return out.String()
}

func TestInitAndOpen(t *testing.T) {
	ctx := context.Background()
	env := fileEnv(t, "crm.yongu")

	out := run(t, func(w *bytes.Buffer) error { return InitCommand(ctx, w, env, nil) })
	assert.Contains(t, out, "✓ Created "+env.Config.DocumentPath)
	_, err := os.Stat(env.Config.DocumentPath)
	require.NoError(t, err)

	out = run(t, func(w *bytes.Buffer) error { return OpenCommand(ctx, w, env, nil) })
	assert.Contains(t, out, "✓ Opened")
	assert.NotContains(t, out, "Contacts:     0", "init seeds demo contacts")
}

func TestInitEmpty(t *testing.T) {
	ctx := context.Background()
	env := fileEnv(t, "crm.yongu")

	out := run(t, func(w *bytes.Buffer) error { return InitCommand(ctx, w, env, []string{"--empty"}) })
	assert.Contains(t, out, "Contacts: 0")
}

func TestInitRefusesExistingDocument(t *testing.T) {
	ctx := context.Background()
	env, ctrl := emptyController(t)
	run(t, func(w *bytes.Buffer) error {
		return AddContactCommand(ctx, w, ctrl, []string{"--name", "Keep Me", "--company", "Acme"})
	})

	var out bytes.Buffer
	err := InitCommand(ctx, &out, env, nil)
	require.ErrorIs(t, err, store.ErrFileExists)
	assert.Contains(t, err.Error(), "--force")

	reopened, release, err := env.OpenController(ctx)
	require.NoError(t, err)
	defer release()
	require.Len(t, reopened.Document().Clients, 1)
	assert.Equal(t, "Keep Me", reopened.Document().Clients[0].Name)

	out.Reset()
	require.NoError(t, InitCommand(ctx, &out, env, []string{"--force", "--empty"}))
	assert.Contains(t, out.String(), "Contacts: 0")
	assert.False(t, env.Overwrite, "--force applies to this init only")
}

func TestInitWithoutPicker(t *testing.T) {
	env := fileEnv(t, "crm.yongu")
	env.Config.DocumentPath = ""
	var out bytes.Buffer
	err := InitCommand(context.Background(), &out, env, nil)
	assert.Error(t, err)
}

func TestOpenControllerMissingFile(t *testing.T) {
	env := fileEnv(t, "missing.yongu")
	_, _, err := env.OpenController(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yongu init")
}

func TestContactCommands(t *testing.T) {
	ctx := context.Background()
	env, ctrl := emptyController(t)

	out := run(t, func(w *bytes.Buffer) error {
		return AddContactCommand(ctx, w, ctrl, []string{
			"--name", "Ana Ruiz", "--company", "Foo", "--sector", "film",
			"--continent", "asia", "--tags", "nuke, comp", "--email", "ana@foo.test",
		})
	})
	assert.Contains(t, out, "✓ Contact created: Ana Ruiz")

	var w bytes.Buffer
	err := AddContactCommand(ctx, &w, ctrl, []string{"--name", "Bo"})
	assert.Error(t, err, "company is required")
	err = AddContactCommand(ctx, &w, ctrl, []string{"--name", "Bo", "--company", "Bar", "--sector", "Knitting"})
	assert.ErrorContains(t, err, "unknown sector")

	contacts := ctrl.Contacts(app.Filter{})
	require.Len(t, contacts, 1)
	ana := contacts[0]
	assert.Equal(t, models.SectorFilm, ana.Sector)
	assert.Equal(t, models.ContinentAsia, ana.Continent)
	assert.Equal(t, []string{"nuke", "comp"}, ana.Tags)

	out = run(t, func(w *bytes.Buffer) error { return ListContactsCommand(w, ctrl, nil) })
	assert.Contains(t, out, "Ana Ruiz")
	assert.Contains(t, out, "Found 1 contacts")

	out = run(t, func(w *bytes.Buffer) error { return ListContactsCommand(w, ctrl, []string{"--sector", "games"}) })
	assert.Contains(t, out, "No contacts found")

	out = run(t, func(w *bytes.Buffer) error {
		return UpdateContactCommand(ctx, w, ctrl, []string{"--role", "Supervisor", "--add-tag", "vip", "ana ruiz"})
	})
	assert.Contains(t, out, "✓ Contact updated")
	got, err := ctrl.Contact(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Supervisor", got.Role)
	assert.Equal(t, "ana@foo.test", got.Email, "unset flags leave fields alone")
	assert.Contains(t, got.Tags, "vip")

	out = run(t, func(w *bytes.Buffer) error { return SetStatusCommand(ctx, w, ctrl, []string{ana.ID, "Active"}) })
	assert.Contains(t, out, "New → Active")
	out = run(t, func(w *bytes.Buffer) error { return SetStatusCommand(ctx, w, ctrl, []string{"--next", ana.ID[:8]}) })
	assert.Contains(t, out, "Active → Completed")

	// Reopening the file sees every change.
	reopened, release, err := env.OpenController(ctx)
	require.NoError(t, err)
	defer release()
	got, err = reopened.Contact(ana.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	out = run(t, func(w *bytes.Buffer) error { return DeleteContactCommand(ctx, w, ctrl, []string{"Ana Ruiz"}) })
	assert.Contains(t, out, "✓ Contact deleted: Ana Ruiz")
	assert.Empty(t, ctrl.Contacts(app.Filter{}))
}

func TestResolveContactAmbiguousName(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)
	_, err := ctrl.AddContact(ctx, models.Contact{Name: "Ana", Company: "Foo"})
	require.NoError(t, err)
	_, err = ctrl.AddContact(ctx, models.Contact{Name: "ana", Company: "Bar"})
	require.NoError(t, err)

	_, err = resolveContact(ctrl, "Ana")
	assert.ErrorIs(t, err, errAmbiguous)
	_, err = resolveContact(ctrl, "Nobody")
	assert.ErrorIs(t, err, app.ErrContactNotFound)
}

func TestLogAndRemoveInteraction(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)
	ana, err := ctrl.AddContact(ctx, models.Contact{Name: "Ana", Company: "Foo"})
	require.NoError(t, err)

	out := run(t, func(w *bytes.Buffer) error {
		return LogInteractionCommand(ctx, w, ctrl, []string{
			"--type", "call", "--notes", "talked rates", "--date", "2025-05-01", "--follow-up", "2025-05-15", "Ana",
		})
	})
	assert.Contains(t, out, "✓ Logged Call with Ana")

	got, err := ctrl.Contact(ana.ID)
	require.NoError(t, err)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, "talked rates", got.Logs[0].Notes)
	require.NotNil(t, got.LastContactDate)
	assert.Equal(t, 2025, got.LastContactDate.Year())
	require.NotNil(t, got.NextFollowUp)
	assert.Equal(t, time.May, got.NextFollowUp.Month())

	var w bytes.Buffer
	assert.ErrorContains(t, LogInteractionCommand(ctx, &w, ctrl, []string{"--type", "Fax", "Ana"}), "unknown interaction type")

	out = run(t, func(w *bytes.Buffer) error { return RemoveLogCommand(ctx, w, ctrl, []string{"Ana", got.Logs[0].ID}) })
	assert.Contains(t, out, "✓ Removed interaction")
	got, _ = ctrl.Contact(ana.ID)
	assert.Empty(t, got.Logs)

	assert.ErrorIs(t, RemoveLogCommand(ctx, &w, ctrl, []string{"Ana", "nope"}), app.ErrLogNotFound)
}

func TestFollowupsCommand(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	orig := now
	now = func() time.Time { return fixed }
	defer func() { now = orig }()

	ctx := context.Background()
	_, ctrl := emptyController(t)

	add := func(name string, due time.Time) {
		c := models.NewContact(name, "Co", fixed)
		c.NextFollowUp = &due
		_, err := ctrl.AddContact(ctx, c)
		require.NoError(t, err)
	}
	add("Late Larry", fixed.AddDate(0, 0, -10))
	add("Today Tia", fixed.Add(-time.Hour))
	add("Future Fay", fixed.AddDate(0, 0, 3))

	out := run(t, func(w *bytes.Buffer) error { return FollowupsCommand(w, ctrl, nil) })
	assert.Contains(t, out, "🔴 Late Larry")
	assert.Contains(t, out, "🟡 Today Tia")
	assert.NotContains(t, out, "Future Fay")

	out = run(t, func(w *bytes.Buffer) error { return FollowupsCommand(w, ctrl, []string{"--days", "7"}) })
	assert.Contains(t, out, "🟢 Future Fay")

	out = run(t, func(w *bytes.Buffer) error { return FollowupsCommand(w, ctrl, []string{"--overdue-only"}) })
	assert.Contains(t, out, "Late Larry")
	assert.NotContains(t, out, "Today Tia")
}

func TestCSVCommands(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)
	_, err := ctrl.AddContact(ctx, models.Contact{Name: "Ana", Company: "Foo, Inc."})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	out := run(t, func(w *bytes.Buffer) error { return ExportCSVCommand(w, ctrl, []string{"--output", path}) })
	assert.Contains(t, out, "✓ Exported 1 contacts")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Ana","Foo, Inc."`)

	out = run(t, func(w *bytes.Buffer) error { return ExportCSVCommand(w, ctrl, []string{"--output", "-"}) })
	assert.True(t, strings.HasPrefix(out, `"Name","Company"`), out)

	out = run(t, func(w *bytes.Buffer) error { return ImportCSVCommand(ctx, w, ctrl, []string{path}) })
	assert.Contains(t, out, "✓ Imported 1 contacts")
	assert.Len(t, ctrl.Contacts(app.Filter{}), 2)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("Company\nFoo\n"), 0644))
	var w bytes.Buffer
	assert.Error(t, ImportCSVCommand(ctx, &w, ctrl, []string{bad}))
}

func TestProfileCommand(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)

	out := run(t, func(w *bytes.Buffer) error { return ProfileCommand(ctx, w, ctrl, nil) })
	assert.Contains(t, out, "No profile set")

	out = run(t, func(w *bytes.Buffer) error {
		return ProfileCommand(ctx, w, ctrl, []string{"--name", "Sam", "--industry", "VFX"})
	})
	assert.Contains(t, out, "✓ Profile saved: Sam (VFX)")

	run(t, func(w *bytes.Buffer) error { return ProfileCommand(ctx, w, ctrl, []string{"--industry", "Games"}) })
	doc := ctrl.Document()
	require.NotNil(t, doc.Profile)
	assert.Equal(t, "Sam", doc.Profile.Name)
	assert.Equal(t, "Games", doc.Profile.Industry)
}

func TestDraftOffline(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)
	_, err := ctrl.AddContact(ctx, models.Contact{Name: "Ana Ruiz", Company: "Foo", Email: "ana@foo.test"})
	require.NoError(t, err)

	out := run(t, func(w *bytes.Buffer) error {
		return DraftCommand(ctx, w, ctrl, nil, logging.Discard(), []string{"--goal", "discuss rate", "Ana Ruiz"})
	})
	assert.Contains(t, out, "To: Ana Ruiz <ana@foo.test>")
	assert.Contains(t, out, "(offline negotiation template)")
}

func TestJobsOfflineAddsLeads(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)

	out := run(t, func(w *bytes.Buffer) error {
		return JobsCommand(ctx, w, ctrl, nil, logging.Discard(), []string{"--role", "Compositor", "--sector", "film", "--add-leads"})
	})
	assert.Contains(t, out, "Compositor")
	assert.Contains(t, out, "offline examples")
	assert.Contains(t, out, "✓ Added")

	leads := ctrl.Contacts(app.Filter{Tag: jobs.LeadTag})
	assert.NotEmpty(t, leads)
	for _, l := range leads {
		assert.Equal(t, models.StatusNew, l.Status)
		assert.Equal(t, models.SectorFilm, l.Sector)
	}

	var w bytes.Buffer
	assert.ErrorContains(t, JobsCommand(ctx, &w, ctrl, nil, logging.Discard(), []string{"--continent", "Atlantis"}), "unknown continent")
}

func TestDashboardAndGraph(t *testing.T) {
	ctx := context.Background()
	_, ctrl := emptyController(t)
	_, err := ctrl.AddContact(ctx, models.Contact{Name: "Ana", Company: "Foo", Status: models.StatusActive})
	require.NoError(t, err)

	out := run(t, func(w *bytes.Buffer) error { return DashboardCommand(w, ctrl, nil) })
	assert.Contains(t, out, "YONGU CRM DASHBOARD")

	out = run(t, func(w *bytes.Buffer) error { return GraphCommand(w, ctrl, []string{"pipeline"}) })
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "Ana")

	path := filepath.Join(t.TempDir(), "geo.dot")
	out = run(t, func(w *bytes.Buffer) error { return GraphCommand(w, ctrl, []string{"--output", path, "geo"}) })
	assert.Contains(t, out, "✓ Graph written")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Europe")

	var w bytes.Buffer
	assert.ErrorContains(t, GraphCommand(&w, ctrl, []string{"companies"}), "unknown graph type")
}

func TestSQLiteSlot(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Backend = config.BackendLocal
	cfg.SlotEngine = config.SlotEngineSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "slot.db")
	env := &Env{Config: cfg, Logger: logging.Discard()}

	ctrl, release, err := env.OpenController(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, ctrl.Document().Clients, "empty slot is seeded")
	release()

	out := run(t, func(w *bytes.Buffer) error { return SlotCommand(ctx, w, env, []string{"status"}) })
	assert.Contains(t, out, "bytes")
	assert.Contains(t, out, "Updated:")

	out = run(t, func(w *bytes.Buffer) error { return SlotCommand(ctx, w, env, []string{"wipe"}) })
	assert.Contains(t, out, "WARNING")

	out = run(t, func(w *bytes.Buffer) error { return SlotCommand(ctx, w, env, []string{"wipe", "--confirm"}) })
	assert.Contains(t, out, "✓ Local slot wiped")

	out = run(t, func(w *bytes.Buffer) error { return SlotCommand(ctx, w, env, []string{"status"}) })
	assert.Contains(t, out, "(empty)")

	var w bytes.Buffer
	assert.ErrorIs(t, SlotCommand(ctx, &w, env, []string{"sync"}), errNeedsCharm)
	assert.ErrorIs(t, SlotCommand(ctx, &w, env, []string{"auto", "--enable"}), errNeedsCharm)
}
