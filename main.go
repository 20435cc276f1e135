// ABOUTME: Entry point for the yongu CRM CLI, TUI, and MCP server
// ABOUTME: Loads config, picks the file or local backend, and routes commands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/harperreed/yongu/cli"
	"github.com/harperreed/yongu/config"
	"github.com/harperreed/yongu/logging"
	"github.com/harperreed/yongu/store"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file (default: ~/.config/yongu/config.json)")
	backend := flag.String("backend", "", "Storage backend: file or local")
	document := flag.String("document", "", "Document file for the file backend")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Usage = printUsage

	// Parse global flags; everything after the command belongs to it
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("yongu version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *document != "" {
		cfg.DocumentPath = *document
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := &cli.Env{
		Config:      cfg,
		Logger:      logger,
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}

	command := args[0]
	commandArgs := args[1:]

	if err := run(ctx, env, command, commandArgs); err != nil {
		if errors.Is(err, store.ErrUserCancelled) {
			return
		}
		stop()
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, env *cli.Env, command string, args []string) error {
	out := os.Stdout

	// Commands that manage storage directly
	switch command {
	case "help":
		printUsage()
		return nil
	case "init":
		return cli.InitCommand(ctx, out, env, args)
	case "open":
		return cli.OpenCommand(ctx, out, env, args)
	case "slot":
		return cli.SlotCommand(ctx, out, env, args)
	}

	ctrl, release, err := env.OpenController(ctx)
	if err != nil {
		return err
	}
	defer release()

	switch command {
	// Contact commands
	case "add-contact":
		return cli.AddContactCommand(ctx, out, ctrl, args)
	case "list-contacts":
		return cli.ListContactsCommand(out, ctrl, args)
	case "update-contact":
		return cli.UpdateContactCommand(ctx, out, ctrl, args)
	case "set-status":
		return cli.SetStatusCommand(ctx, out, ctrl, args)
	case "delete-contact":
		return cli.DeleteContactCommand(ctx, out, ctrl, args)

	// Interaction commands
	case "log-interaction":
		return cli.LogInteractionCommand(ctx, out, ctrl, args)
	case "remove-log":
		return cli.RemoveLogCommand(ctx, out, ctrl, args)
	case "followups":
		return cli.FollowupsCommand(out, ctrl, args)

	// Document commands
	case "profile":
		return cli.ProfileCommand(ctx, out, ctrl, args)
	case "export-csv":
		return cli.ExportCSVCommand(out, ctrl, args)
	case "import-csv":
		return cli.ImportCSVCommand(ctx, out, ctrl, args)
	case "google-import":
		return cli.GoogleImportCommand(ctx, out, ctrl, env.Logger, args)

	// Assisted commands
	case "draft":
		gen := cli.NewGenerator(ctx, env.Config, env.Logger, false)
		return cli.DraftCommand(ctx, out, ctrl, gen, env.Logger, args)
	case "jobs":
		gen := cli.NewGenerator(ctx, env.Config, env.Logger, true)
		return cli.JobsCommand(ctx, out, ctrl, gen, env.Logger, args)

	// Visualization
	case "dashboard":
		return cli.DashboardCommand(out, ctrl, args)
	case "graph":
		return cli.GraphCommand(out, ctrl, args)

	// Interactive surfaces
	case "tui":
		return cli.TUICommand(ctrl)
	case "mcp":
		return cli.MCPCommand(ctx, ctrl, env.Logger, version)
	case "web":
		return cli.WebCommand(ctx, out, ctrl, env.Logger, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Printf(`yongu v%s - Freelancer CRM

USAGE:
  yongu [global flags] <command> [flags] [args]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/yongu/config.json)
  --backend <name>       Storage backend: file or local (default: local)
  --document <path>      Document file for the file backend
  --log-level <level>    debug, info, warn, error (default: info)

DOCUMENT:
  yongu init [--empty] [--force]    Create a new document file (with demo contacts)
  yongu open                        Validate a document file and print a summary
  yongu profile                     Show your profile
    --name <name>                     Your name
    --industry <industry>             Your industry or craft

CONTACTS:
  yongu add-contact                 Add a new contact
    --name <name>                     Contact name (required)
    --company <company>               Company name (required)
    --role, --email, --phone, --website, --location, --rate, --notes
    --status <status>                 Old, New, Contacted, Negotiating, Active, Completed, Archived
    --sector <sector>                 Film, Television, Advertising, Games, Animation, Architecture, Music, Other
    --continent <continent>           Europe, North America, South America, Asia, Africa, Oceania
    --tags <a,b>                      Comma-separated tags
    --follow-up <date>                Next follow-up date

  yongu list-contacts               List contacts
    --query <text>                    Search name, company, role, email, location, notes, tags
    --status, --sector, --continent, --tag
    --limit <n>                       Max results (default: 50)

  yongu update-contact [flags] <id|name>   Update the fields given as flags
    --add-tag <tag>, --remove-tag <tag>
    --follow-up none                  Clear the follow-up date

  yongu set-status <id|name> <status>      Move a contact to a status
  yongu set-status --next|--prev <id|name> Move one pipeline step
  yongu delete-contact <id|name>           Delete a contact and its history

INTERACTIONS:
  yongu log-interaction [flags] <id|name>  Record an interaction
    --type <type>                     Email, Call, Meeting, Social (default: Email)
    --notes <text>                    What happened
    --date <date>                     When (default: now)
    --follow-up <date>                Set the next follow-up
  yongu remove-log <id|name> <log-id>      Delete one interaction
  yongu followups                          List due follow-ups
    --days <n>                        Include follow-ups due in the next n days
    --overdue-only                    Only follow-ups more than a week late

IMPORT / EXPORT:
  yongu export-csv [--output <file>]       Export contacts (default: yongu-contacts-<date>.csv)
  yongu import-csv <file.csv>              Import contacts from CSV
  yongu google-import [--reauth]           Import Google Contacts (GOOGLE_CLIENT_ID/SECRET)

ASSISTANT (GEMINI_API_KEY, offline templates otherwise):
  yongu draft [--goal <text>] <id|name>    Draft a message to a contact
  yongu jobs [flags]                       Search job-board leads
    --role, --sector, --continent, --location, --since, --until
    --add-leads                       Add postings as New contacts

VISUALIZATION:
  yongu dashboard                          Pipeline overview and what needs attention
  yongu graph [--output <file>] pipeline|geo   Graphviz graph of the pipeline or geography

INTERACTIVE:
  yongu tui                                Terminal UI
  yongu mcp                                MCP server on stdio (for Claude Desktop)
  yongu web [--port 8080]                  Read-only web dashboard

LOCAL SLOT:
  yongu slot sync                          Sync the charm slot now
  yongu slot wipe [--all] --confirm        Delete the stored document (--all: every charm key)
  yongu slot status [--check]              Show what the slot holds
  yongu slot auto --enable|--disable       Toggle charm auto-sync
  yongu slot host <host>                   Set the charm server for backup sync

`, version)
}
