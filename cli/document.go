// ABOUTME: Document-level CLI commands
// ABOUTME: init creates a document file, open validates one, profile edits the owner
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/store"
)

// InitCommand creates a new document file through the picker and writes it
// immediately. An existing file is only replaced with --force.
func InitCommand(ctx context.Context, w io.Writer, env *Env, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(w)
	empty := fs.Bool("empty", false, "Start without demo contacts")
	force := fs.Bool("force", false, "Replace an existing document file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var opts []store.FileOption
	if *empty {
		opts = append(opts, store.WithSeed(nil))
	}
	picking := *env
	picking.Overwrite = *force
	backend := picking.FileBackend(opts...)
	if !backend.Supported() {
		return fmt.Errorf("%w: pass --document <path>", store.ErrUnsupportedPlatform)
	}

	doc, handle, err := backend.CreateNew(ctx)
	if errors.Is(err, store.ErrFileExists) {
		return fmt.Errorf("%w (pass --force to replace it)", err)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "✓ Created %s\n", describeHandle(handle))
	_, _ = fmt.Fprintf(w, "  Contacts: %d\n", len(doc.Clients))
	return nil
}

// OpenCommand reads and validates a document file and prints a summary.
// Repairs are logged as warnings by the backend.
func OpenCommand(ctx context.Context, w io.Writer, env *Env, args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend := env.FileBackend()
	if !backend.Supported() {
		return fmt.Errorf("%w: pass --document <path>", store.ErrUnsupportedPlatform)
	}

	doc, handle, err := backend.OpenExisting(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "✓ Opened %s\n", describeHandle(handle))
	printSummary(w, doc)
	return nil
}

// ProfileCommand shows the profile, or sets it when flags are given.
func ProfileCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	fs.SetOutput(w)
	name := fs.String("name", "", "Your name")
	industry := fs.String("industry", "", "Your industry or craft")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc := ctrl.Document()
	if fs.NFlag() == 0 {
		if doc.Profile == nil {
			_, _ = fmt.Fprintln(w, "No profile set. Use: yongu profile --name <name> --industry <industry>")
			return nil
		}
		_, _ = fmt.Fprintf(w, "Name:     %s\n", doc.Profile.Name)
		_, _ = fmt.Fprintf(w, "Industry: %s\n", doc.Profile.Industry)
		return nil
	}

	profile := models.Profile{}
	if doc.Profile != nil {
		profile = *doc.Profile
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			profile.Name = strings.TrimSpace(*name)
		case "industry":
			profile.Industry = strings.TrimSpace(*industry)
		}
	})

	if err := ctrl.SetProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ Profile saved: %s (%s)\n", profile.Name, profile.Industry)
	return nil
}

func printSummary(w io.Writer, doc *models.Document) {
	logs := 0
	for _, c := range doc.Clients {
		logs += len(c.Logs)
	}
	if doc.Profile != nil {
		_, _ = fmt.Fprintf(w, "  Owner:        %s (%s)\n", doc.Profile.Name, doc.Profile.Industry)
	}
	_, _ = fmt.Fprintf(w, "  Contacts:     %d\n", len(doc.Clients))
	_, _ = fmt.Fprintf(w, "  Interactions: %d\n", logs)
	_, _ = fmt.Fprintf(w, "  Last updated: %s\n", doc.LastUpdated.Local().Format("2006-01-02 15:04"))
}

func describeHandle(h store.FileHandle) string {
	if oh, ok := h.(*store.OSHandle); ok {
		return oh.Path
	}
	return h.Name()
}
