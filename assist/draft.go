// ABOUTME: Outreach message drafting with a bounded model call
// ABOUTME: Falls back to keyword-picked offline templates on any failure
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/yongu/models"
)

// DefaultTimeout bounds a single drafting request.
const DefaultTimeout = 20 * time.Second

// Template names an offline fallback message.
type Template string

const (
	TemplateNegotiation  Template = "negotiation"
	TemplateFollowUp     Template = "follow-up"
	TemplateIntroduction Template = "introduction"
	TemplateGeneric      Template = "generic"
)

var templateKeywords = []struct {
	template Template
	words    []string
}{
	{TemplateNegotiation, []string{"rate", "budget"}},
	{TemplateFollowUp, []string{"follow", "check", "status"}},
	{TemplateIntroduction, []string{"intro", "new"}},
}

// Draft is a generated or offline message.
type Draft struct {
	Text     string
	Offline  bool
	Template Template
}

// Drafter writes messages to contacts. A nil Gen always drafts offline.
type Drafter struct {
	Gen     Generator
	Timeout time.Duration
	Logger  *log.Logger
}

// Draft asks the generator for a message toward goal. It never blocks past
// the timeout and never fails: errors yield an offline template.
func (d *Drafter) Draft(ctx context.Context, profile *models.Profile, c models.Contact, goal string) Draft {
	if d.Gen != nil {
		timeout := d.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		text, err := d.Gen.Generate(ctx, Prompt(profile, c, goal))
		if err == nil {
			return Draft{Text: text}
		}
		d.logger().Warn("drafting offline", "contact", c.Name, "err", err)
	}

	t := SelectTemplate(goal)
	return Draft{Text: Offline(t, profile, c), Offline: true, Template: t}
}

func (d *Drafter) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

// SelectTemplate picks the fallback by keywords in goal, first group wins.
func SelectTemplate(goal string) Template {
	g := strings.ToLower(goal)
	for _, group := range templateKeywords {
		for _, w := range group.words {
			if strings.Contains(g, w) {
				return group.template
			}
		}
	}
	return TemplateGeneric
}

// Prompt builds the model request for a drafting goal.
func Prompt(profile *models.Profile, c models.Contact, goal string) string {
	var b strings.Builder
	b.WriteString("Write a short, warm, professional email from a freelance creative to a client contact.\n")
	if profile != nil {
		fmt.Fprintf(&b, "Sender: %s, working in %s.\n", profile.Name, profile.Industry)
	}
	fmt.Fprintf(&b, "Recipient: %s", c.Name)
	if c.Role != "" {
		fmt.Fprintf(&b, ", %s", c.Role)
	}
	fmt.Fprintf(&b, " at %s (%s sector, pipeline status %s).\n", c.Company, c.Sector, c.Status)
	if c.Rate != "" {
		fmt.Fprintf(&b, "Agreed or quoted rate: %s.\n", c.Rate)
	}
	for i, l := range c.Logs {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "Past %s on %s: %s\n", strings.ToLower(string(l.Type)), l.Date.Format("2006-01-02"), l.Notes)
	}
	fmt.Fprintf(&b, "Goal: %s\n", goal)
	b.WriteString("Return only the email body, no subject line.")
	return b.String()
}

// Offline renders a fallback template.
func Offline(t Template, profile *models.Profile, c models.Contact) string {
	sender := "me"
	if profile != nil && profile.Name != "" {
		sender = profile.Name
	}
	first := c.Name
	if i := strings.IndexByte(first, ' '); i > 0 {
		first = first[:i]
	}

	var body string
	switch t {
	case TemplateNegotiation:
		body = fmt.Sprintf("Thanks for the details on the project at %s. I'd love to make this work. "+
			"My usual rate reflects the turnaround and experience I bring, but I'm happy to talk through "+
			"scope so we land on something that fits your budget.", c.Company)
	case TemplateFollowUp:
		body = fmt.Sprintf("Just checking in on how things are going at %s. "+
			"If there's anything coming up where I could help, I'd be glad to hear about it.", c.Company)
	case TemplateIntroduction:
		body = fmt.Sprintf("I came across the work %s has been doing and wanted to introduce myself. "+
			"I'd love to share my reel and hear what you have in the pipeline.", c.Company)
	default:
		body = "I hope you're doing well. I wanted to reach out and reconnect. Let me know if you have time for a quick chat soon."
	}
	return fmt.Sprintf("Hi %s,\n\n%s\n\nBest,\n%s", first, body, sender)
}
