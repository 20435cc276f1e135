// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for adding, listing, editing, and moving contacts
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

// contactFlags are shared by add-contact and update-contact.
type contactFlags struct {
	name, company, role, email, phone, website, location, rate, notes *string
	status, sector, continent, tags, followUp                          *string
}

func registerContactFlags(fs *flag.FlagSet) *contactFlags {
	return &contactFlags{
		name:      fs.String("name", "", "Contact name"),
		company:   fs.String("company", "", "Company name"),
		role:      fs.String("role", "", "Role or job title"),
		email:     fs.String("email", "", "Email address"),
		phone:     fs.String("phone", "", "Phone number"),
		website:   fs.String("website", "", "Website URL"),
		location:  fs.String("location", "", "City or region"),
		rate:      fs.String("rate", "", "Agreed or quoted rate"),
		notes:     fs.String("notes", "", "Notes about the contact"),
		status:    fs.String("status", "", "Pipeline status"),
		sector:    fs.String("sector", "", "Industry sector"),
		continent: fs.String("continent", "", "Continent"),
		tags:      fs.String("tags", "", "Comma-separated tags"),
		followUp:  fs.String("follow-up", "", "Next follow-up date ('none' clears it)"),
	}
}

// apply copies every flag that was set on the command line into c.
func (f *contactFlags) apply(fs *flag.FlagSet, c *models.Contact) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "name":
			c.Name = *f.name
		case "company":
			c.Company = *f.company
		case "role":
			c.Role = *f.role
		case "email":
			c.Email = *f.email
		case "phone":
			c.Phone = *f.phone
		case "website":
			c.Website = *f.website
		case "location":
			c.Location = *f.location
		case "rate":
			c.Rate = *f.rate
		case "notes":
			c.Notes = *f.notes
		case "status":
			var s models.Status
			if s, err = parseStatus(*f.status); err == nil {
				c.Status = s
			}
		case "sector":
			var s models.Sector
			if s, err = parseSector(*f.sector); err == nil {
				c.Sector = s
			}
		case "continent":
			var k models.Continent
			if k, err = parseContinent(*f.continent); err == nil {
				c.Continent = k
			}
		case "tags":
			c.Tags = []string{}
			for _, t := range splitTags(*f.tags) {
				c.AddTag(t)
			}
		case "follow-up":
			if *f.followUp == "none" || *f.followUp == "" {
				c.NextFollowUp = nil
				return
			}
			var t time.Time
			if t, err = parseDate(*f.followUp); err == nil {
				c.NextFollowUp = &t
			}
		}
	})
	return err
}

// AddContactCommand adds a new contact.
func AddContactCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("add-contact", flag.ContinueOnError)
	fs.SetOutput(w)
	flags := registerContactFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *flags.name == "" || *flags.company == "" {
		return fmt.Errorf("--name and --company are required")
	}

	contact := models.NewContact(*flags.name, *flags.company, now())
	if err := flags.apply(fs, &contact); err != nil {
		return err
	}

	added, err := ctrl.AddContact(ctx, contact)
	if err != nil {
		return fmt.Errorf("failed to add contact: %w", err)
	}

	_, _ = fmt.Fprintf(w, "✓ Contact created: %s (ID: %s)\n", added.Name, added.ID)
	_, _ = fmt.Fprintf(w, "  Company: %s\n", added.Company)
	_, _ = fmt.Fprintf(w, "  Status:  %s\n", added.Status)
	if added.Email != "" {
		_, _ = fmt.Fprintf(w, "  Email:   %s\n", added.Email)
	}
	return nil
}

// ListContactsCommand lists contacts matching the filters.
func ListContactsCommand(w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("list-contacts", flag.ContinueOnError)
	fs.SetOutput(w)
	query := fs.String("query", "", "Search name, company, role, email, location, notes, tags")
	status := fs.String("status", "", "Filter by status")
	sector := fs.String("sector", "", "Filter by sector")
	continent := fs.String("continent", "", "Filter by continent")
	tag := fs.String("tag", "", "Filter by tag")
	limit := fs.Int("limit", 50, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := app.Filter{Query: *query, Tag: *tag}
	if *status != "" {
		s, err := parseStatus(*status)
		if err != nil {
			return err
		}
		filter.Status = s
	}
	if *sector != "" {
		s, err := parseSector(*sector)
		if err != nil {
			return err
		}
		filter.Sector = s
	}
	if *continent != "" {
		c, err := parseContinent(*continent)
		if err != nil {
			return err
		}
		filter.Continent = c
	}

	contacts := ctrl.Contacts(filter)
	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(w, "No contacts found")
		return nil
	}
	total := len(contacts)
	if *limit > 0 && total > *limit {
		contacts = contacts[:*limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tSTATUS\tSECTOR\tCONTINENT\tLAST CONTACT")
	_, _ = fmt.Fprintln(tw, "--\t----\t-------\t------\t------\t---------\t------------")
	for _, c := range contacts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID), c.Name, c.Company, c.Status, c.Sector, c.Continent, formatDate(c.LastContactDate))
	}
	_ = tw.Flush()

	if total > len(contacts) {
		_, _ = fmt.Fprintf(w, "\nShowing %d of %d contacts\n", len(contacts), total)
	} else {
		_, _ = fmt.Fprintf(w, "\nFound %d contacts\n", total)
	}
	return nil
}

// UpdateContactCommand edits the fields given as flags.
func UpdateContactCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("update-contact", flag.ContinueOnError)
	fs.SetOutput(w)
	flags := registerContactFlags(fs)
	addTag := fs.String("add-tag", "", "Add one tag")
	removeTag := fs.String("remove-tag", "", "Remove one tag")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: update-contact [flags] <id|name>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := flags.apply(fs, &contact); err != nil {
		return err
	}
	if *addTag != "" {
		contact.AddTag(*addTag)
	}
	if *removeTag != "" {
		contact.RemoveTag(*removeTag)
	}

	if err := ctrl.UpdateContact(ctx, contact); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ Contact updated: %s (ID: %s)\n", contact.Name, contact.ID)
	return nil
}

// SetStatusCommand moves a contact through the pipeline, either to a named
// status or one step with --next/--prev.
func SetStatusCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	fs.SetOutput(w)
	next := fs.Bool("next", false, "Advance one pipeline step")
	prev := fs.Bool("prev", false, "Move back one pipeline step")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stepping := *next || *prev
	if (stepping && fs.NArg() != 1) || (!stepping && fs.NArg() != 2) {
		return fmt.Errorf("usage: set-status <id|name> <status> | set-status --next|--prev <id|name>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}

	var status models.Status
	switch {
	case *next:
		status = contact.Status.Next()
	case *prev:
		status = contact.Status.Prev()
	default:
		if status, err = parseStatus(fs.Arg(1)); err != nil {
			return err
		}
	}

	if status == contact.Status {
		_, _ = fmt.Fprintf(w, "%s is already %s\n", contact.Name, status)
		return nil
	}
	if err := ctrl.SetStatus(ctx, contact.ID, status); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ %s: %s → %s\n", contact.Name, contact.Status, status)
	return nil
}

// DeleteContactCommand removes a contact and its interaction history.
func DeleteContactCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("delete-contact", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-contact <id|name>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := ctrl.DeleteContact(ctx, contact.ID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ Contact deleted: %s\n", contact.Name)
	return nil
}
