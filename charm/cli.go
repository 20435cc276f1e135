// ABOUTME: CLI commands for the charm slot: status, sync, wipe, auto-sync, host
// ABOUTME: Backup sync uses charm SSH key auth, no login needed

package charm

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/harperreed/yongu/store"
)

// SlotStatusCommand shows charm settings and whether the slot holds a document.
func SlotStatusCommand(w io.Writer, c *Client, args []string) error {
	fs := flag.NewFlagSet("slot status", flag.ContinueOnError)
	check := fs.Bool("check", false, "Check that the charm server knows this device")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := c.Config()
	_, _ = fmt.Fprintln(w, "Local Slot Status")
	_, _ = fmt.Fprintln(w, "─────────────────")
	_, _ = fmt.Fprintf(w, "Key:       %s\n", store.SlotKey)
	_, _ = fmt.Fprintf(w, "Server:    %s\n", cfg.Host)
	_, _ = fmt.Fprintf(w, "Auto-sync: %v\n", cfg.AutoSync)
	if *check {
		_, _ = fmt.Fprintf(w, "Connected: %v\n", c.IsConnected())
	}

	data, err := c.Get([]byte(store.SlotKey))
	switch {
	case errors.Is(err, store.ErrSlotEmpty):
		_, _ = fmt.Fprintln(w, "Document:  (empty)")
	case err != nil:
		return fmt.Errorf("failed to read slot: %w", err)
	default:
		_, _ = fmt.Fprintf(w, "Document:  %d bytes\n", len(data))
	}

	keys, err := c.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Stored keys:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, key := range keys {
		value, err := c.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%d bytes\n", key, len(value))
	}
	return tw.Flush()
}

// SlotSyncCommand performs an immediate backup sync with the charm server.
func SlotSyncCommand(w io.Writer, c *Client, args []string) error {
	fs := flag.NewFlagSet("slot sync", flag.ContinueOnError)
	verbose := fs.Bool("verbose", false, "Show verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		_, _ = fmt.Fprintf(w, "Syncing with %s...\n", c.Config().Host)
	}

	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	_, _ = fmt.Fprintln(w, "✓ Synced")
	return nil
}

// SlotWipeCommand deletes the stored document, or with --all every key in
// the slot database.
// WARNING: This deletes the local CRM data!
func SlotWipeCommand(w io.Writer, c *Client, args []string) error {
	fs := flag.NewFlagSet("slot wipe", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	all := fs.Bool("all", false, "Drop every key, not only the document")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		if *all {
			_, _ = fmt.Fprintln(w, "WARNING: This will drop every key in the local slot database!")
		} else {
			_, _ = fmt.Fprintln(w, "WARNING: This will delete the CRM document stored in the local slot!")
		}
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "To confirm, run:")
		if *all {
			_, _ = fmt.Fprintln(w, "  yongu slot wipe --all --confirm")
		} else {
			_, _ = fmt.Fprintln(w, "  yongu slot wipe --confirm")
		}
		return nil
	}

	if *all {
		if err := c.Reset(); err != nil {
			return fmt.Errorf("failed to reset slot database: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ Local slot database reset")
		return nil
	}

	if err := store.NewLocalBackend(c).Clear(context.Background()); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "✓ Local slot wiped")
	return nil
}

// SlotAutoCommand enables or disables auto-sync.
func SlotAutoCommand(w io.Writer, cfg *Config, args []string) error {
	fs := flag.NewFlagSet("slot auto", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *enable:
		if err := cfg.SetAutoSync(true); err != nil {
			return fmt.Errorf("failed to enable auto-sync: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ Auto-sync enabled")
	case *disable:
		if err := cfg.SetAutoSync(false); err != nil {
			return fmt.Errorf("failed to disable auto-sync: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ Auto-sync disabled")
	default:
		_, _ = fmt.Fprintln(w, "Usage: yongu slot auto --enable|--disable")
	}
	return nil
}

// SlotHostCommand points backup sync at another charm server.
func SlotHostCommand(w io.Writer, cfg *Config, args []string) error {
	fs := flag.NewFlagSet("slot host", flag.ContinueOnError)
	fs.SetOutput(w)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintf(w, "Current host: %s\n", cfg.Host)
		_, _ = fmt.Fprintln(w, "Usage: yongu slot host <host>")
		return nil
	}
	if err := cfg.SetHost(fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to save host: %w", err)
	}
	_, _ = fmt.Fprintf(w, "✓ Charm host set to %s\n", fs.Arg(0))
	return nil
}
