// ABOUTME: Local slot maintenance subcommands
// ABOUTME: status, sync, wipe, auto, and host dispatch to the configured slot engine
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/harperreed/yongu/charm"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/db"
	"github.com/harperreed/yongu/store"
)

var errNeedsCharm = errors.New("only the charm slot engine syncs; set slot_engine to charm")

// SlotCommand runs one slot subcommand against the configured engine.
func SlotCommand(ctx context.Context, w io.Writer, env *Env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: slot status|sync|wipe|auto|host")
	}
	sub, subArgs := args[0], args[1:]

	if sub == "auto" || sub == "host" {
		if env.Config.SlotEngine != config.SlotEngineCharm {
			return errNeedsCharm
		}
		cfg, err := charm.LoadConfig()
		if err != nil {
			return err
		}
		if sub == "host" {
			return charm.SlotHostCommand(w, cfg, subArgs)
		}
		return charm.SlotAutoCommand(w, cfg, subArgs)
	}

	slot, release, err := env.OpenSlot()
	if err != nil {
		return err
	}
	defer release()

	switch c := slot.(type) {
	case *charm.Client:
		switch sub {
		case "status":
			return charm.SlotStatusCommand(w, c, subArgs)
		case "sync":
			return charm.SlotSyncCommand(w, c, subArgs)
		case "wipe":
			return charm.SlotWipeCommand(w, c, subArgs)
		}
	case *db.SlotStore:
		switch sub {
		case "status":
			return sqliteSlotStatus(w, env, c)
		case "sync":
			return errNeedsCharm
		case "wipe":
			return sqliteSlotWipe(ctx, w, c, subArgs)
		}
	}
	return fmt.Errorf("unknown slot command: %s", sub)
}

func sqliteSlotStatus(w io.Writer, env *Env, s *db.SlotStore) error {
	path := env.Config.SQLitePath
	if path == "" {
		path = db.DefaultPath()
	}
	_, _ = fmt.Fprintln(w, "Local Slot Status")
	_, _ = fmt.Fprintln(w, "─────────────────")
	_, _ = fmt.Fprintf(w, "Key:       %s\n", store.SlotKey)
	_, _ = fmt.Fprintf(w, "Database:  %s\n", path)

	data, err := s.Get([]byte(store.SlotKey))
	switch {
	case errors.Is(err, store.ErrSlotEmpty):
		_, _ = fmt.Fprintln(w, "Document:  (empty)")
		return nil
	case err != nil:
		return fmt.Errorf("failed to read slot: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Document:  %d bytes\n", len(data))

	if updated, ok, err := s.UpdatedAt([]byte(store.SlotKey)); err == nil && ok {
		_, _ = fmt.Fprintf(w, "Updated:   %s\n", updated.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func sqliteSlotWipe(ctx context.Context, w io.Writer, s *db.SlotStore, args []string) error {
	fs := flag.NewFlagSet("slot wipe", flag.ContinueOnError)
	fs.SetOutput(w)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*confirm {
		_, _ = fmt.Fprintln(w, "WARNING: This will delete the CRM document stored in the local slot!")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "To confirm, run:")
		_, _ = fmt.Fprintln(w, "  yongu slot wipe --confirm")
		return nil
	}
	if err := store.NewLocalBackend(s).Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w, "✓ Local slot wiped")
	return nil
}
