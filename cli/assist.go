// ABOUTME: Model-assisted CLI commands: message drafts and job-board leads
// ABOUTME: Both degrade to offline output when no API key is set or the call fails
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/assist"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/jobs"
	"github.com/harperreed/yongu/models"
)

// NewGenerator returns the configured model client, or nil when no API key
// is set. A nil generator means offline output.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *log.Logger, jsonOut bool) assist.Generator {
	if !cfg.HasGemini() {
		return nil
	}
	gen, err := assist.NewGenAIGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, jsonOut)
	if err != nil {
		logger.Warn("model unavailable, working offline", "err", err)
		return nil
	}
	return gen
}

// DraftCommand writes an outreach message to a contact.
func DraftCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, gen assist.Generator, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("draft", flag.ContinueOnError)
	fs.SetOutput(w)
	goal := fs.String("goal", "follow up", "What the message should achieve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: draft [--goal <text>] <id|name>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}

	drafter := &assist.Drafter{Gen: gen, Logger: logger}
	draft := drafter.Draft(ctx, ctrl.Document().Profile, contact, *goal)

	_, _ = fmt.Fprintf(w, "To: %s <%s>\n\n", contact.Name, contact.Email)
	_, _ = fmt.Fprintln(w, strings.TrimSpace(draft.Text))
	if draft.Offline {
		_, _ = fmt.Fprintf(w, "\n(offline %s template)\n", draft.Template)
	}
	return nil
}

// JobsCommand searches for job-board leads and optionally adds them as
// contacts.
func JobsCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, gen assist.Generator, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(w)
	role := fs.String("role", "", "Role or craft to search for")
	sector := fs.String("sector", "", "Industry sector")
	continent := fs.String("continent", "", "Continent")
	location := fs.String("location", "", "City or region")
	since := fs.String("since", "", "Posted on or after this date")
	until := fs.String("until", "", "Posted on or before this date")
	addLeads := fs.Bool("add-leads", false, "Add each posting as a New contact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := jobs.Filter{Role: *role, Location: *location}
	var err error
	if *sector != "" {
		if filter.Sector, err = parseSector(*sector); err != nil {
			return err
		}
	}
	if *continent != "" {
		if filter.Continent, err = parseContinent(*continent); err != nil {
			return err
		}
	}
	if *since != "" {
		if filter.Since, err = parseDate(*since); err != nil {
			return err
		}
	}
	if *until != "" {
		if filter.Until, err = parseDate(*until); err != nil {
			return err
		}
	}

	var searcher jobs.Searcher
	if gen != nil {
		searcher = &jobs.GenAISearcher{Gen: gen}
	}
	postings := jobs.Search(ctx, searcher, filter, logger)
	if len(postings) == 0 {
		_, _ = fmt.Fprintln(w, "No postings found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tSECTOR\tPOSTED")
	_, _ = fmt.Fprintln(tw, "-----\t-------\t--------\t------\t------")
	for _, p := range postings {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Title, p.Company, p.Location, p.Sector, p.Posted)
	}
	_ = tw.Flush()

	if postings[0].Offline {
		_, _ = fmt.Fprintln(w, "\n(offline examples; set GEMINI_API_KEY for live results)")
	}

	if !*addLeads {
		return nil
	}
	stamp := now()
	leads := make([]models.Contact, len(postings))
	for i, p := range postings {
		leads[i] = p.Lead(stamp)
	}
	n, err := ctrl.ImportContacts(ctx, leads)
	if err != nil {
		return fmt.Errorf("failed to add leads: %w", err)
	}
	_, _ = fmt.Fprintf(w, "\n✓ Added %d leads tagged %q\n", n, jobs.LeadTag)
	return nil
}
