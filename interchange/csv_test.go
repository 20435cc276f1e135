package interchange

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/yongu/models"
)

var now = time.Date(2025, 6, 1, 15, 45, 0, 0, time.UTC)

func testCodec() *Codec {
	return &Codec{
		DateLayout: DefaultDateLayout,
		Location:   time.UTC,
		Now:        func() time.Time { return now },
	}
}

func anaRuiz() models.Contact {
	c := models.NewContact("Ana Ruiz", "Foo, Inc.", now)
	c.Tags = []string{"Nuke", "Pipeline"}
	c.Continent = models.ContinentSouthAmerica
	return c
}

func TestExportAnaRuiz(t *testing.T) {
	out := testCodec().Export([]models.Contact{anaRuiz()})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, `"Name","Company","Role","Status","Sector","Email","Phone","Location","Last Contact","Next Follow Up","Rate","Notes","Tags"`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Ana Ruiz","Foo, Inc."`), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], `"Nuke, Pipeline"`), lines[1])
	assert.Contains(t, lines[1], `,"",`, "empty values are quoted empty strings")

	cells := SplitLine(lines[1])
	assert.Len(t, cells, len(ExportHeaders))
	assert.Equal(t, "Foo, Inc.", cells[1])
}

func TestImportAnaRuiz(t *testing.T) {
	codec := testCodec()
	original := anaRuiz()

	res, err := codec.Import(codec.Export([]models.Contact{original}))
	require.NoError(t, err)
	require.Len(t, res.Contacts, 1)

	got := res.Contacts[0]
	assert.Equal(t, "Ana Ruiz", got.Name)
	assert.Equal(t, "Foo, Inc.", got.Company)
	assert.Equal(t, []string{"Nuke", "Pipeline"}, got.Tags)
	assert.NotEmpty(t, got.ID)
	assert.NotEqual(t, original.ID, got.ID)
	assert.Equal(t, models.DefaultContinent, got.Continent)
	assert.NotNil(t, got.Logs)
	assert.Empty(t, got.Logs)
}

func TestRoundTripPreservesInterchangeFields(t *testing.T) {
	codec := testCodec()
	last := time.Date(2025, 5, 20, 17, 30, 0, 0, time.UTC)
	next := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	c := models.NewContact("Bo \"The Hammer\" Lee", "Quote Co", now)
	c.Role = "Producer"
	c.SetStatus(models.StatusNegotiating, now)
	c.Sector = models.SectorGames
	c.Email = "bo@example.com"
	c.Phone = "+1 555 0100"
	c.Location = "Austin, TX"
	c.Rate = "$600/day"
	c.Notes = "Prefers Slack"
	c.Tags = []string{"Unreal", "Layout"}
	c.AddLog(models.NewLogEntry(models.LogCall, last, "call"))
	c.NextFollowUp = &next

	contacts := []models.Contact{anaRuiz(), c}
	res, err := codec.Import(codec.Export(contacts))
	require.NoError(t, err)
	require.Len(t, res.Contacts, len(contacts))

	for i, want := range contacts {
		got := res.Contacts[i]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Company, got.Company)
		assert.Equal(t, want.Role, got.Role)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Sector, got.Sector)
		assert.Equal(t, want.Email, got.Email)
		assert.Equal(t, want.Phone, got.Phone)
		assert.Equal(t, want.Location, got.Location)
		assert.Equal(t, want.Rate, got.Rate)
		assert.Equal(t, want.Notes, got.Notes)
		assert.ElementsMatch(t, want.Tags, got.Tags)
	}

	got := res.Contacts[1]
	require.NotNil(t, got.LastContactDate)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), *got.LastContactDate, "time of day is dropped")
	require.NotNil(t, got.NextFollowUp)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), *got.NextFollowUp)
	assert.Empty(t, got.Logs)
}

func TestImportReversedHeaders(t *testing.T) {
	headers := append([]string(nil), ExportHeaders...)
	for i, j := 0, len(headers)-1; i < j; i, j = i+1, j-1 {
		headers[i], headers[j] = headers[j], headers[i]
	}
	text := strings.Join(headers, ",") + "\n" +
		`"a, b","likes tea","$10","6/9/2025","5/1/2025","Lisbon","555","x@y.z","Music","Active","Engineer","Acme","Rui"` + "\n"

	res, err := testCodec().Import(text)
	require.NoError(t, err)
	require.Len(t, res.Contacts, 1)

	c := res.Contacts[0]
	assert.Equal(t, "Rui", c.Name)
	assert.Equal(t, "Acme", c.Company)
	assert.Equal(t, "Engineer", c.Role)
	assert.Equal(t, models.StatusActive, c.Status)
	assert.Equal(t, models.SectorMusic, c.Sector)
	assert.Equal(t, "x@y.z", c.Email)
	assert.Equal(t, "555", c.Phone)
	assert.Equal(t, "Lisbon", c.Location)
	assert.Equal(t, "$10", c.Rate)
	assert.Equal(t, "likes tea", c.Notes)
	assert.Equal(t, []string{"a", "b"}, c.Tags)
	require.NotNil(t, c.LastContactDate)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *c.LastContactDate)
	require.NotNil(t, c.NextFollowUp)
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), *c.NextFollowUp)
}

func TestImportSkipsBadRows(t *testing.T) {
	text := "Name,Company\r\n" +
		"Ana,Foo\r\n" +
		",Nameless Ltd\r\n" +
		"lonely\r\n" +
		"\r\n" +
		"Bea,\r\n"

	res, err := testCodec().Import(text)
	require.NoError(t, err)
	require.Len(t, res.Contacts, 2)
	assert.Equal(t, "Ana", res.Contacts[0].Name)
	assert.Equal(t, "Bea", res.Contacts[1].Name)
	assert.Equal(t, UnknownCompany, res.Contacts[1].Company)
	assert.Equal(t, 2, res.Skipped)
}

func TestImportDefaultsAndLenientEnums(t *testing.T) {
	text := "Name,Company,Status,Sector,Continent,Last Contact\n" +
		"Ana,Foo,,,Asia,not a date\n" +
		"Bea,Bar,ghosted,film,Africa,2025-03-04\n"

	res, err := testCodec().Import(text)
	require.NoError(t, err)
	require.Len(t, res.Contacts, 2)

	ana, bea := res.Contacts[0], res.Contacts[1]
	assert.Equal(t, models.DefaultStatus, ana.Status)
	assert.Equal(t, models.DefaultSector, ana.Sector)
	assert.Equal(t, models.DefaultContinent, ana.Continent)
	assert.Nil(t, ana.LastContactDate)
	assert.Equal(t, now, ana.StatusUpdatedAt)

	assert.Equal(t, models.Status("ghosted"), bea.Status)
	assert.False(t, bea.Status.Known())
	assert.Equal(t, models.SectorFilm, bea.Sector)
	assert.Equal(t, models.DefaultContinent, bea.Continent)
	require.NotNil(t, bea.LastContactDate)
	assert.True(t, bea.LastContactDate.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)), bea.LastContactDate)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "row 3")
}

func TestImportEmpty(t *testing.T) {
	for name, text := range map[string]string{
		"blank":        "",
		"headers only": "Name,Company\n",
		"no name col":  "Company,Email\nFoo,a@b.c\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := testCodec().Import(text)
			assert.ErrorIs(t, err, ErrImportEmpty)
		})
	}
}

// First header containing a keyword wins, even when a later header is the
// better match.
func TestImportFirstMatchingHeaderWins(t *testing.T) {
	text := "Company Name,Client Name,Email\nAcme,Dana,d@acme.test\n"

	res, err := testCodec().Import(text)
	require.NoError(t, err)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Acme", res.Contacts[0].Name)
	assert.Equal(t, "Acme", res.Contacts[0].Company)
}

func TestImportWebsiteColumn(t *testing.T) {
	res, err := testCodec().Import("Name,Company,Website\nAna,Foo,https://foo.test\n")
	require.NoError(t, err)
	assert.Equal(t, "https://foo.test", res.Contacts[0].Website)
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`a,b,c`, []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{`"",""`, []string{"", ""}},
		{`single`, []string{"single"}},
		{`a,`, []string{"a", ""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitLine(tt.line), tt.line)
	}
}

func TestExportFlattensLineBreaks(t *testing.T) {
	c := anaRuiz()
	c.Notes = "line one\nline two"
	codec := testCodec()

	res, err := codec.Import(codec.Export([]models.Contact{c}))
	require.NoError(t, err)
	assert.Equal(t, "line one line two", res.Contacts[0].Notes)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "yongu-contacts-2025-06-01.csv", ExportFilename(now))
}
