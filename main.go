// ABOUTME: Entry point for the crmdesk CLI, TUI and MCP server
// ABOUTME: Loads config, builds the store and routes to the requested command
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/harperreed/crmdesk/api"
	"github.com/harperreed/crmdesk/charm"
	"github.com/harperreed/crmdesk/cli"
	"github.com/harperreed/crmdesk/config"
	"github.com/harperreed/crmdesk/db"
	"github.com/harperreed/crmdesk/logging"
	"github.com/harperreed/crmdesk/store"
	"github.com/harperreed/crmdesk/tui"
)

const version = "0.2.0"

type storeCommand func(*store.Store, io.Writer, []string) error

// entityCommands maps "<entity> <action>" to its command.
var entityCommands = map[string]map[string]storeCommand{
	"contacts": {
		"list":   cli.ListContactsCommand,
		"add":    cli.AddContactCommand,
		"update": cli.UpdateContactCommand,
		"delete": cli.DeleteContactCommand,
	},
	"leads": {
		"list":   cli.ListLeadsCommand,
		"add":    cli.AddLeadCommand,
		"update": cli.UpdateLeadCommand,
		"delete": cli.DeleteLeadCommand,
	},
	"locations": {
		"list":   cli.ListLocationsCommand,
		"add":    cli.AddLocationCommand,
		"update": cli.UpdateLocationCommand,
		"delete": cli.DeleteLocationCommand,
	},
	"properties": {
		"list":   cli.ListPropertiesCommand,
		"add":    cli.AddPropertyCommand,
		"update": cli.UpdatePropertyCommand,
		"delete": cli.DeletePropertyCommand,
	},
	"users": {
		"list":   cli.ListUsersCommand,
		"add":    cli.AddUserCommand,
		"update": cli.UpdateUserCommand,
		"delete": cli.DeleteUserCommand,
	},
	"roles": {
		"list": cli.ListRolesCommand,
	},
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("crmdesk version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.Init(config.AppName, cfg.LogLevel)

	command := args[0]
	commandArgs := args[1:]

	// Commands that don't talk to the backend.
	switch command {
	case "help":
		printUsage()
		return
	case "login":
		if err := cli.LoginCommand(cfg, os.Stdout, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "cache":
		if err := runCache(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "activity":
		database, err := db.OpenDatabase(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer func() { _ = database.Close() }()
		if err := cli.ActivityCommand(database, os.Stdout, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Not configured: %v (run 'crmdesk login')", err)
	}

	database, err := db.OpenDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = database.Close() }()

	s, err := newStore(cfg, database)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if err := run(s, database, command, commandArgs); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// newStore wires the API client, activity recorder and optional snapshot cache.
func newStore(cfg *config.Config, database *sql.DB) (*store.Store, error) {
	client, err := api.New(cfg.APIURL, cfg.APIToken, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithLogger(logging.Logger),
		store.WithRecorder(db.NewRecorder(database)),
	}

	if cfg.SnapshotCache {
		kv, err := charm.Open(nil)
		if err != nil {
			logging.Logger.WithError(err).Warn("snapshot cache unavailable")
		} else {
			opts = append(opts, store.WithCache(charm.NewSnapshotCache(kv)))
		}
	}

	s := store.New(client, opts...)
	if cfg.SnapshotCache {
		if err := s.Hydrate(); err != nil {
			logging.Logger.WithError(err).Warn("failed to hydrate from snapshots")
		}
	}
	return s, nil
}

func run(s *store.Store, database *sql.DB, command string, args []string) error {
	if actions, ok := entityCommands[command]; ok {
		if len(args) == 0 {
			return fmt.Errorf("%s requires a subcommand", command)
		}
		cmd, ok := actions[args[0]]
		if !ok {
			return fmt.Errorf("unknown %s command: %s", command, args[0])
		}
		return cmd(s, os.Stdout, args[1:])
	}

	switch command {
	case "dashboard":
		return cli.DashboardCommand(s, os.Stdout, args)
	case "graph":
		return cli.GraphCommand(s, os.Stdout, args)
	case "import-google":
		return cli.ImportGoogleCommand(s, database, os.Stdout, args)
	case "mcp":
		return cli.MCPCommand(s, version)
	case "tui":
		return tui.Run(s)
	}

	printUsage()
	return fmt.Errorf("unknown command: %s", command)
}

func runCache(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("cache requires a subcommand (status, sync, clear)")
	}

	kv, err := charm.Open(nil)
	if err != nil {
		return err
	}

	switch args[0] {
	case "status":
		return charm.CacheStatusCommand(kv, os.Stdout, args[1:])
	case "sync":
		return charm.CacheSyncCommand(kv, os.Stdout, args[1:])
	case "clear":
		return charm.CacheClearCommand(kv, os.Stdout, args[1:])
	}
	return fmt.Errorf("unknown cache command: %s", args[0])
}

func printUsage() {
	fmt.Printf(`crmdesk v%s - dual-brand CRM admin client

USAGE:
  crmdesk [--version] <command> [subcommand] [flags]

SETUP:
  crmdesk login              Save the backend URL and API token
    --url <url>                Backend base URL
    --token <token>            API token (prompted when omitted)
    --no-verify                Skip the credential check

ENTITIES:
  crmdesk contacts list      --query --kind --status --brand --assigned --limit
  crmdesk contacts add       --first --last --email --phone --kind --status --source --brand --assigned
  crmdesk contacts update [flags] <id>
  crmdesk contacts delete <id>

  crmdesk leads list         --brand --status --type --assigned
  crmdesk leads add          --contact --brand --type --status --source --budget-min --budget-max
                             --bedrooms --bathrooms --property-type --locations --properties
                             --assigned --notes
  crmdesk leads update [flags] <id>
  crmdesk leads delete <id>

  crmdesk locations list|add|update|delete
  crmdesk properties list|add|update|delete
  crmdesk users list|add|update|delete
  crmdesk roles list

  Note: flags must come before the ID.

VIEWS:
  crmdesk dashboard          Counts per brand, status and type
  crmdesk graph [id]         Lead graph in DOT format
    --output <file>            Output file (default: stdout)
  crmdesk activity           Recent store activity
    --slice <name>             Only one slice
    --limit <n>                Max rows (default: 20)
  crmdesk tui                Interactive terminal UI

INTEGRATIONS:
  crmdesk mcp                Start the MCP server on stdio
  crmdesk import-google      Import Google contacts
    --brand <brand>            Brand access for new contacts (default: both)
    --auth                     Re-run the Google consent flow
  crmdesk cache status|sync|clear
                             Manage the snapshot cache

EXAMPLES:
  crmdesk login --url https://crm.example.com
  crmdesk leads list --brand real-estate --status qualified
  crmdesk contacts add --first Omar --last Haddad --email omar@example.com --brand repro

`, version)
}
