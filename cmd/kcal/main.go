package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/db"
	"github.com/hpungsan/kcal/internal/logger"
	"github.com/hpungsan/kcal/internal/mcp"
	"github.com/hpungsan/kcal/internal/tracker"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"meal": true, "workout": true, "limit": true, "reset": true,
	"status": true, "list": true, "report": true, "serve": true,
	"export": true, "import": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	return isHelpOrVersion(args)
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _               _
  | | _____ __ _  | |
  | |/ / __/ _' | | |
  |   < (_| (_| | | |
  |_|\_\___\__,_| |_|

  Daily calorie tracker

  Usage: kcal <command> [options]
         kcal serve        (browser UI)
         kcal --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		app := newCLIApp("", nil, nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".kcal")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	database, err := db.Init(baseDir)
	if err != nil {
		log.Error("failed to initialize database", "dir", baseDir, "error", err)
		os.Exit(1)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	store := db.NewStore(database, cfg.DefaultLimit)

	// CLI mode: known subcommand
	if isCLIMode(os.Args) {
		app := newCLIApp(baseDir, store, cfg, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'kcal --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	tr, err := tracker.New(context.Background(), store, nil, log)
	if err != nil {
		log.Error("failed to load tracker state", "error", err)
		os.Exit(1)
	}
	if err := mcp.Run(tr, baseDir, cfg, log, Version); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
