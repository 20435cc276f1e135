// ABOUTME: CSV interchange for the contact list
// ABOUTME: Fixed-column quoted export, keyword-matched lenient import
package interchange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/harperreed/yongu/models"
)

// ErrImportEmpty means the text held no row with a usable name.
var ErrImportEmpty = errors.New("no contacts found in CSV; check that the header row has a Name column")

// UnknownCompany fills a blank company cell on import.
const UnknownCompany = "Unknown"

// DefaultDateLayout is the month-first locale date used in exported cells.
const DefaultDateLayout = "1/2/2006"

// ExportHeaders is the fixed export column order.
var ExportHeaders = []string{
	"Name", "Company", "Role", "Status", "Sector", "Email", "Phone", "Location",
	"Last Contact", "Next Follow Up", "Rate", "Notes", "Tags",
}

type field int

const (
	fieldName field = iota
	fieldCompany
	fieldRole
	fieldStatus
	fieldSector
	fieldEmail
	fieldPhone
	fieldLocation
	fieldLastContact
	fieldNextFollowUp
	fieldRate
	fieldNotes
	fieldTags
	fieldWebsite
	fieldCount
)

// keywords are matched as substrings of lowercased headers.
var keywords = [fieldCount]string{
	fieldName:         "name",
	fieldCompany:      "company",
	fieldRole:         "role",
	fieldStatus:       "status",
	fieldSector:       "sector",
	fieldEmail:        "email",
	fieldPhone:        "phone",
	fieldLocation:     "location",
	fieldLastContact:  "last contact",
	fieldNextFollowUp: "next follow",
	fieldRate:         "rate",
	fieldNotes:        "notes",
	fieldTags:         "tags",
	fieldWebsite:      "website",
}

// Codec converts between contacts and CSV text.
type Codec struct {
	// DateLayout formats date cells on export and is tried first on import.
	DateLayout string
	// Location is the zone dates are shown in and parsed in.
	Location *time.Location
	// Now stamps imported contacts.
	Now func() time.Time
}

func NewCodec() *Codec {
	return &Codec{
		DateLayout: DefaultDateLayout,
		Location:   time.Local,
		Now:        time.Now,
	}
}

// ImportResult is what survived an import plus what was dropped or bent.
type ImportResult struct {
	Contacts []models.Contact
	Skipped  int
	Warnings []string
}

// ExportFilename is the suggested name for an export made at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("yongu-contacts-%s.csv", now.Format("2006-01-02"))
}

// Export renders contacts with every cell quoted. Time of day is dropped from
// dates and tags join with ", ".
func (c *Codec) Export(contacts []models.Contact) string {
	var b strings.Builder
	writeRow(&b, ExportHeaders)
	for i := range contacts {
		ct := &contacts[i]
		writeRow(&b, []string{
			ct.Name,
			ct.Company,
			ct.Role,
			string(ct.Status),
			string(ct.Sector),
			ct.Email,
			ct.Phone,
			ct.Location,
			c.formatDate(ct.LastContactDate),
			c.formatDate(ct.NextFollowUp),
			ct.Rate,
			ct.Notes,
			strings.Join(ct.Tags, ", "),
		})
	}
	return b.String()
}

// Import parses CSV text. Rows with fewer than two fields or no name are
// skipped. Continent is never read and every contact gets a fresh id and no
// logs.
func (c *Codec) Import(text string) (ImportResult, error) {
	var res ImportResult

	lines := splitLines(text)
	if len(lines) == 0 {
		return res, ErrImportEmpty
	}

	cols := resolveColumns(SplitLine(lines[0]))
	now := c.now()

	for i, line := range lines[1:] {
		row := i + 2
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := SplitLine(line)
		if len(cells) < 2 {
			res.Skipped++
			continue
		}
		cell := func(f field) string {
			idx := cols[f]
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		name := cell(fieldName)
		if name == "" {
			res.Skipped++
			continue
		}
		company := cell(fieldCompany)
		if company == "" {
			company = UnknownCompany
		}

		ct := models.NewContact(name, company, now)
		ct.Role = cell(fieldRole)
		ct.Email = cell(fieldEmail)
		ct.Phone = cell(fieldPhone)
		ct.Location = cell(fieldLocation)
		ct.Rate = cell(fieldRate)
		ct.Notes = cell(fieldNotes)
		ct.Website = cell(fieldWebsite)
		ct.Continent = models.DefaultContinent

		status, ok := models.StatusFromCell(cell(fieldStatus))
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: unknown status %q kept as-is", row, status))
		}
		ct.Status = status

		sector, ok := models.SectorFromCell(cell(fieldSector))
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d: unknown sector %q kept as-is", row, sector))
		}
		ct.Sector = sector

		ct.LastContactDate = c.parseDate(cell(fieldLastContact))
		ct.NextFollowUp = c.parseDate(cell(fieldNextFollowUp))

		for _, tag := range strings.Split(cell(fieldTags), ",") {
			ct.AddTag(tag)
		}

		res.Contacts = append(res.Contacts, ct)
	}

	if len(res.Contacts) == 0 {
		return res, ErrImportEmpty
	}
	return res, nil
}

// SplitLine splits one CSV line into raw fields. Quoted fields may contain
// commas and doubled quotes.
func SplitLine(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"' && inQuote && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(fields, cur.String())
}

// resolveColumns maps each field to the first header containing its keyword,
// or -1.
func resolveColumns(headers []string) [fieldCount]int {
	var cols [fieldCount]int
	for f := range cols {
		cols[f] = -1
		for i, h := range headers {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), keywords[f]) {
				cols[f] = i
				break
			}
		}
	}
	return cols
}

func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(cell))
	}
	b.WriteByte('\n')
}

// quote wraps a cell in quotes. Line breaks become spaces since import reads
// one record per line.
func quote(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (c *Codec) formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(c.location()).Format(c.layout())
}

// parseDate tries the export layout then generic parsing. Unparseable text
// is an absent date.
func (c *Codec) parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	loc := c.location()
	t, err := time.ParseInLocation(c.layout(), s, loc)
	if err != nil {
		t, err = dateparse.ParseIn(s, loc)
		if err != nil {
			return nil
		}
	}
	return &t
}

func (c *Codec) layout() string {
	if c.DateLayout == "" {
		return DefaultDateLayout
	}
	return c.DateLayout
}

func (c *Codec) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Codec) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}
