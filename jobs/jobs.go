// ABOUTME: Job-board lead search through the text generator
// ABOUTME: Never fails toward callers; errors degrade to offline placeholder postings
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/assist"
	"github.com/harperreed/yongu/models"
)

// LeadTag marks contacts created from postings.
const LeadTag = "job-board"

// Filter narrows a search. Zero fields are unconstrained.
type Filter struct {
	Role      string
	Sector    models.Sector
	Continent models.Continent
	Location  string
	Since     time.Time
	Until     time.Time
}

// Posting is one job lead.
type Posting struct {
	Title     string           `json:"title"`
	Company   string           `json:"company"`
	Location  string           `json:"location"`
	Sector    models.Sector    `json:"sector"`
	Continent models.Continent `json:"continent"`
	Posted    string           `json:"posted"`
	URL       string           `json:"url,omitempty"`
	Summary   string           `json:"summary,omitempty"`
	Offline   bool             `json:"-"`
}

// Searcher finds postings.
type Searcher interface {
	Search(ctx context.Context, f Filter) ([]Posting, error)
}

// GenAISearcher asks the model for a JSON array of postings.
type GenAISearcher struct {
	Gen assist.Generator
}

func (s *GenAISearcher) Search(ctx context.Context, f Filter) ([]Posting, error) {
	text, err := s.Gen.Generate(ctx, Prompt(f))
	if err != nil {
		return nil, err
	}
	return ParsePostings(text)
}

// ParsePostings decodes a model answer, tolerating a fenced code block.
func ParsePostings(text string) ([]Posting, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var postings []Posting
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &postings); err != nil {
		return nil, fmt.Errorf("failed to decode postings: %w", err)
	}
	out := postings[:0]
	for _, p := range postings {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Company) == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Prompt describes the filter to the model.
func Prompt(f Filter) string {
	var b strings.Builder
	b.WriteString("List up to 6 current freelance or contract job postings for creative professionals as a JSON array. ")
	b.WriteString(`Each item: {"title","company","location","sector","continent","posted","url","summary"}. `)
	if f.Role != "" {
		fmt.Fprintf(&b, "Role: %s. ", f.Role)
	}
	if f.Sector != "" {
		fmt.Fprintf(&b, "Sector: %s. ", f.Sector)
	}
	if f.Continent != "" {
		fmt.Fprintf(&b, "Continent: %s. ", f.Continent)
	}
	if f.Location != "" {
		fmt.Fprintf(&b, "Location: %s. ", f.Location)
	}
	if !f.Since.IsZero() {
		fmt.Fprintf(&b, "Posted on or after %s. ", f.Since.Format("2006-01-02"))
	}
	if !f.Until.IsZero() {
		fmt.Fprintf(&b, "Posted on or before %s. ", f.Until.Format("2006-01-02"))
	}
	b.WriteString("Return only JSON.")
	return b.String()
}

// Search runs searcher with a timeout and never returns an error: a nil
// searcher, a failure, or no results all yield OfflinePostings.
func Search(ctx context.Context, searcher Searcher, f Filter, logger *log.Logger) []Posting {
	if logger == nil {
		logger = log.Default()
	}
	if searcher != nil {
		ctx, cancel := context.WithTimeout(ctx, assist.DefaultTimeout)
		defer cancel()

		postings, err := searcher.Search(ctx, f)
		switch {
		case err != nil:
			logger.Warn("job search failed, showing offline leads", "err", err)
		case len(postings) == 0:
			logger.Info("job search returned nothing, showing offline leads")
		default:
			return postings
		}
	}
	return OfflinePostings(f)
}

// OfflinePostings builds placeholder leads that echo the filter.
func OfflinePostings(f Filter) []Posting {
	role := f.Role
	if role == "" {
		role = "Freelance Artist"
	}
	sector := f.Sector
	if sector == "" {
		sector = models.DefaultSector
	}
	continent := f.Continent
	if continent == "" {
		continent = models.DefaultContinent
	}
	location := f.Location
	if location == "" {
		location = "Remote"
	}
	posted := f.Until
	if posted.IsZero() {
		posted = time.Now()
	}

	companies := []string{"Studio Placeholder", "Sample Agency", "Example Productions"}
	out := make([]Posting, 0, len(companies))
	for i, company := range companies {
		out = append(out, Posting{
			Title:     role,
			Company:   company,
			Location:  location,
			Sector:    sector,
			Continent: continent,
			Posted:    posted.AddDate(0, 0, -i).Format("2006-01-02"),
			Summary:   "Offline example lead. Connect an API key for live results.",
			Offline:   true,
		})
	}
	return out
}

// Lead turns a posting into a New contact tagged as a job-board lead.
func (p Posting) Lead(now time.Time) models.Contact {
	name := "Hiring Manager"
	c := models.NewContact(name, p.Company, now)
	c.Role = p.Title
	c.Location = p.Location
	c.Website = p.URL
	c.Notes = strings.TrimSpace(p.Summary)
	if p.Sector.Known() {
		c.Sector = p.Sector
	}
	if p.Continent.Known() {
		c.Continent = p.Continent
	}
	c.AddTag(LeadTag)
	return c
}
