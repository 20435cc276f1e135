// ABOUTME: Migration utility for moving the CRM document between backends.
// ABOUTME: Copies file <-> local slot with dry-run and backup capabilities.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/harperreed/yongu/cli"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/logging"
	"github.com/harperreed/yongu/models"
	"github.com/harperreed/yongu/store"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: ~/.config/yongu/config.json)")
	to := flag.String("to", "", "Destination backend: file or local (required)")
	document := flag.String("document", "", "Document file on the file side (required)")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up the destination before overwriting it")
	force := flag.Bool("force", false, "Overwrite a destination that already holds a document")
	flag.Parse()

	if *to != config.BackendFile && *to != config.BackendLocal {
		log.Fatal("Error: -to must be file or local")
	}
	if *document == "" {
		log.Fatal("Error: -document flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.DocumentPath = *document

	env := &cli.Env{Config: cfg, Logger: logging.Setup(cfg.LogLevel)}
	m := &migration{env: env, dryRun: *dryRun, backup: *backup, force: *force, now: time.Now}

	ctx := context.Background()
	if *to == config.BackendLocal {
		err = m.toLocal(ctx)
	} else {
		err = m.toFile(ctx)
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if *dryRun {
		log.Println("Dry run complete, nothing written")
		return
	}
	log.Println("Migration completed successfully")
}

type migration struct {
	env    *cli.Env
	dryRun bool
	backup bool
	force  bool
	now    func() time.Time
}

// toLocal copies the document file into the local slot.
func (m *migration) toLocal(ctx context.Context) error {
	doc, _, err := m.env.FileBackend().OpenExisting(ctx)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	log.Printf("Source: %s (%d contacts)", m.env.Config.DocumentPath, len(doc.Clients))

	slot, release, err := m.env.OpenSlot()
	if err != nil {
		return err
	}
	defer release()
	local := store.NewLocalBackend(slot,
		store.WithQuota(m.env.Config.QuotaBytes),
		store.WithLocalLogger(m.env.Logger),
	)

	existing, err := local.Load(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("Destination %s already holds %d contacts", local.Describe(), len(existing.Clients))
		if !m.force {
			return errors.New("destination is not empty; use -force to overwrite")
		}
	}

	if m.dryRun {
		log.Printf("[DRY RUN] Would write %d contacts to %s", len(doc.Clients), local.Describe())
		if existing != nil && m.backup {
			log.Printf("[DRY RUN] Would back up the current slot to %s", m.slotBackupPath())
		}
		return nil
	}

	if existing != nil && m.backup {
		path := m.slotBackupPath()
		if err := writeDocument(ctx, path, existing); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("Backup created: %s", path)
	}

	if err := local.Save(ctx, doc); err != nil {
		return err
	}
	log.Printf("Wrote %d contacts to %s", len(doc.Clients), local.Describe())
	return nil
}

// toFile copies the local slot into the document file.
func (m *migration) toFile(ctx context.Context) error {
	slot, release, err := m.env.OpenSlot()
	if err != nil {
		return err
	}
	defer release()
	local := store.NewLocalBackend(slot, store.WithLocalLogger(m.env.Logger))

	doc, err := local.Load(ctx)
	if err != nil {
		return err
	}
	if doc == nil {
		return errors.New("local slot is empty; nothing to migrate")
	}
	log.Printf("Source: %s (%d contacts)", local.Describe(), len(doc.Clients))

	handle, err := store.PathPicker{Path: m.env.Config.DocumentPath, Overwrite: true}.PickSave(ctx, store.DocumentFileType, store.DefaultFileName)
	if err != nil {
		return err
	}
	path := handle.(*store.OSHandle).Path

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists {
		log.Printf("Destination %s already exists", path)
		if !m.force {
			return errors.New("destination file exists; use -force to overwrite")
		}
	}

	backupPath := fmt.Sprintf("%s.backup.%s", path, m.now().Format("20060102-150405"))
	if m.dryRun {
		log.Printf("[DRY RUN] Would write %d contacts to %s", len(doc.Clients), path)
		if exists && m.backup {
			log.Printf("[DRY RUN] Would back up the current file to %s", backupPath)
		}
		return nil
	}

	if exists && m.backup {
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0600); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
		log.Printf("Backup created: %s", backupPath)
	}

	if err := m.env.FileBackend().Save(ctx, handle, doc); err != nil {
		return err
	}
	log.Printf("Wrote %d contacts to %s", len(doc.Clients), path)
	return nil
}

func (m *migration) slotBackupPath() string {
	dir := filepath.Dir(m.env.Config.DocumentPath)
	return filepath.Join(dir, fmt.Sprintf("yongu-slot-backup-%s.yongu", m.now().Format("20060102-150405")))
}

func writeDocument(ctx context.Context, path string, doc *models.Document) error {
	data, err := store.Encode(doc, true)
	if err != nil {
		return err
	}
	return (&store.OSHandle{Path: path}).Write(ctx, data)
}
