// ABOUTME: CSV export and import CLI commands
// ABOUTME: Export writes the fixed-column file, import appends the usable rows
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/interchange"
)

// ExportCSVCommand writes every contact as CSV. --output - prints to stdout.
func ExportCSVCommand(w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)
	fs.SetOutput(w)
	output := fs.String("output", "", "Output file (default: yongu-contacts-<date>.csv, '-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := ctrl.ExportCSV()
	if *output == "-" {
		_, err := io.WriteString(w, text)
		return err
	}

	path := *output
	if path == "" {
		path = interchange.ExportFilename(now())
	}
	if err := renameio.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(w, "✓ Exported %d contacts to %s\n", len(ctrl.Document().Clients), path)
	return nil
}

// ImportCSVCommand appends the contacts in a CSV file.
func ImportCSVCommand(ctx context.Context, w io.Writer, ctrl *app.Controller, args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: import-csv <file.csv>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fs.Arg(0), err)
	}

	res, err := ctrl.ImportCSV(ctx, string(data))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	_, _ = fmt.Fprintf(w, "✓ Imported %d contacts\n", len(res.Contacts))
	if res.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "  Skipped %d rows without a name\n", res.Skipped)
	}
	for _, warning := range res.Warnings {
		_, _ = fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	return nil
}
