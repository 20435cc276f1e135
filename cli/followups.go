// ABOUTME: Interaction log and follow-up CLI commands
// ABOUTME: Commands for logging interactions, removing them, and listing due follow-ups
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
)

// LogInteractionCommand records an interaction with a contact.
func LogInteractionCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("log-interaction", flag.ContinueOnError)
	fs.SetOutput(w)
	logType := fs.String("type", string(models.LogEmail), "Interaction type (Email, Call, Meeting, Social)")
	notes := fs.String("notes", "", "What happened")
	date := fs.String("date", "", "When it happened (default: now)")
	followUp := fs.String("follow-up", "", "Set the next follow-up date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: log-interaction [flags] <id|name>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}

	lt, err := parseLogType(*logType)
	if err != nil {
		return err
	}
	entry := models.LogEntry{Type: lt, Notes: *notes}
	if *date != "" {
		if entry.Date, err = parseDate(*date); err != nil {
			return err
		}
	}

	logged, err := ctrl.AddLog(ctx, contact.ID, entry)
	if err != nil {
		return fmt.Errorf("failed to log interaction: %w", err)
	}

	if *followUp != "" {
		next, err := parseDate(*followUp)
		if err != nil {
			return err
		}
		updated, err := ctrl.Contact(contact.ID)
		if err != nil {
			return err
		}
		updated.NextFollowUp = &next
		if err := ctrl.UpdateContact(ctx, updated); err != nil {
			return fmt.Errorf("failed to set follow-up: %w", err)
		}
	}

	_, _ = fmt.Fprintf(w, "✓ Logged %s with %s (ID: %s)\n", logged.Type, contact.Name, logged.ID)
	_, _ = fmt.Fprintf(w, "  Date: %s\n", logged.Date.Local().Format("2006-01-02 15:04"))
	if *followUp != "" {
		_, _ = fmt.Fprintf(w, "  Next follow-up: %s\n", *followUp)
	}
	return nil
}

// RemoveLogCommand deletes one interaction from a contact's history.
func RemoveLogCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("remove-log", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: remove-log <id|name> <log-id>")
	}

	contact, err := resolveContact(ctrl, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := ctrl.RemoveLog(ctx, contact.ID, fs.Arg(1)); err != nil {
		return fmt.Errorf("failed to remove log: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ Removed interaction %s from %s\n", fs.Arg(1), contact.Name)
	return nil
}

// FollowupsCommand lists contacts whose follow-up date has arrived.
func FollowupsCommand(w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ContinueOnError)
	fs.SetOutput(w)
	ahead := fs.Int("days", 0, "Also include follow-ups due in the next N days")
	overdueOnly := fs.Bool("overdue-only", false, "Show only follow-ups more than a week late")
	if err := fs.Parse(args); err != nil {
		return err
	}

	today := now()
	due := ctrl.FollowUps(today.AddDate(0, 0, *ahead))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tCOMPANY\tDUE\tDAYS LATE\tSTATUS")
	_, _ = fmt.Fprintln(tw, "----\t-------\t---\t---------\t------")

	shown := 0
	for _, c := range due {
		late := int(today.Sub(*c.NextFollowUp).Hours() / 24)
		if *overdueOnly && late <= 7 {
			continue
		}
		indicator := "🟢"
		switch {
		case late > 7:
			indicator = "🔴"
		case late >= 0:
			indicator = "🟡"
		}
		_, _ = fmt.Fprintf(tw, "%s %s\t%s\t%s\t%d\t%s\n",
			indicator, c.Name, c.Company, formatDate(c.NextFollowUp), late, c.Status)
		shown++
	}
	_ = tw.Flush()

	if shown == 0 {
		_, _ = fmt.Fprintln(w, "\n✓ No follow-ups due")
	}
	return nil
}
