package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/kcal/internal/backup"
	"github.com/hpungsan/kcal/internal/config"
	"github.com/hpungsan/kcal/internal/errors"
	"github.com/hpungsan/kcal/internal/item"
	"github.com/hpungsan/kcal/internal/logger"
	"github.com/hpungsan/kcal/internal/report"
	"github.com/hpungsan/kcal/internal/term"
	"github.com/hpungsan/kcal/internal/tracker"
	"github.com/hpungsan/kcal/internal/web"
)

// deps carries what every command needs to build a tracker.
type deps struct {
	baseDir string
	store   tracker.Store
	cfg     *config.Config
	log     *logger.Logger
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(baseDir string, store tracker.Store, cfg *config.Config, log *logger.Logger) *cli.App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	d := &deps{baseDir: baseDir, store: store, cfg: cfg, log: log}

	app := &cli.App{
		Name:    "kcal",
		Usage:   "Daily calorie tracker",
		Version: Version,
		Commands: []*cli.Command{
			kindCmd(d, item.KindMeal),
			kindCmd(d, item.KindWorkout),
			limitCmd(d),
			resetCmd(d),
			statusCmd(d),
			listCmd(d),
			reportCmd(d),
			exportCmd(d),
			importCmd(d),
			serveCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// open loads the tracker, rendering through view.
func (d *deps) open(c *cli.Context, view tracker.View) (*tracker.Tracker, error) {
	tr, err := tracker.New(c.Context, d.store, view, d.log)
	if err != nil {
		return nil, outputError(errors.NewInternal(err))
	}
	return tr, nil
}

// kindCmd creates the meal or workout command with add and rm subcommands.
func kindCmd(d *deps, kind item.Kind) *cli.Command {
	return &cli.Command{
		Name:  string(kind),
		Usage: fmt.Sprintf("Add or remove %s", kind.Plural()),
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: fmt.Sprintf("Log a %s", kind),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Item name"},
					&cli.StringFlag{Name: "calories", Aliases: []string{"c"}, Usage: "Calories (whole number)"},
				},
				Action: func(c *cli.Context) error {
					name := strings.TrimSpace(c.String("name"))
					if name == "" {
						return outputError(errors.NewMissingField("name"))
					}
					calories, err := parseIntArg("calories", c.String("calories"))
					if err != nil {
						return outputError(err)
					}

					tr, err := d.open(c, nil)
					if err != nil {
						return err
					}
					it, err := item.New(kind, name, calories)
					if err != nil {
						return outputError(errors.NewInternal(err))
					}
					if kind == item.KindMeal {
						err = tr.AddMeal(c.Context, it)
					} else {
						err = tr.AddWorkout(c.Context, it)
					}
					if err != nil {
						return outputError(err)
					}

					return outputJSON(c.App.Writer, map[string]any{
						"item":    it,
						"summary": tr.Snapshot(),
					})
				},
			},
			{
				Name:      "rm",
				Aliases:   []string{"remove"},
				Usage:     fmt.Sprintf("Remove a %s by id (unknown ids are ignored)", kind),
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					id := c.Args().First()
					if id == "" {
						return outputError(errors.NewMissingField("id"))
					}

					tr, err := d.open(c, nil)
					if err != nil {
						return err
					}
					removed, err := tr.Remove(c.Context, kind, id)
					if err != nil {
						return outputError(err)
					}

					return outputJSON(c.App.Writer, map[string]any{
						"id":      id,
						"removed": removed,
						"summary": tr.Snapshot(),
					})
				},
			},
		},
	}
}

// limitCmd creates the limit command.
func limitCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "limit",
		Usage:     "Set the daily calorie limit",
		ArgsUsage: "<calories>",
		Action: func(c *cli.Context) error {
			limit, err := parseIntArg("limit", c.Args().First())
			if err != nil {
				return outputError(err)
			}

			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}
			if err := tr.SetLimit(c.Context, limit); err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, tr.Snapshot())
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Clear every meal and workout and zero the total (the limit is kept)",
		Action: func(c *cli.Context) error {
			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}
			if err := tr.Reset(c.Context); err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, tr.Snapshot())
		},
	}
}

// statusCmd creates the status command.
func statusCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the day's summary cards, progress bar and items",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Value: 40, Usage: "Progress bar width"},
		},
		Action: func(c *cli.Context) error {
			view := term.NewView(c.Int("width"))
			tr, err := d.open(c, view)
			if err != nil {
				return err
			}
			tr.LoadItems()

			_, err = fmt.Fprintln(c.App.Writer, view.Render())
			return err
		},
	}
}

// listCmd creates the list command.
func listCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the day as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Only list one kind: meal|workout"},
			&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Case-insensitive name filter (requires --kind)"},
		},
		Action: func(c *cli.Context) error {
			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}

			if !c.IsSet("kind") {
				if c.IsSet("filter") {
					return outputError(errors.NewInvalidRequest("--filter requires --kind"))
				}
				return outputJSON(c.App.Writer, tr.Snapshot())
			}

			kind, err := item.ParseKind(c.String("kind"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			return outputJSON(c.App.Writer, map[string]any{
				"kind":  kind,
				"items": tr.Filter(kind, c.String("filter")),
			})
		},
	}
}

// reportCmd creates the report command.
func reportCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the day as a Markdown report",
		Action: func(c *cli.Context) error {
			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}

			_, err = io.WriteString(c.App.Writer, report.Markdown(tr.Snapshot()))
			return err
		},
	}
}

// exportCmd creates the export command.
func exportCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the day to a JSONL file (default: ~/.kcal/exports/kcal-<timestamp>.jsonl)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: "Export file path"},
		},
		Action: func(c *cli.Context) error {
			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}

			output, err := backup.Export(c.Context, tr, d.baseDir, d.cfg, backup.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// importCmd creates the import command.
func importCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Load a day from a JSONL export",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "replace", Usage: "replace|merge"},
		},
		Action: func(c *cli.Context) error {
			tr, err := d.open(c, nil)
			if err != nil {
				return err
			}

			output, err := backup.Import(c.Context, tr, d.baseDir, d.cfg, backup.ImportInput{
				Path: c.String("path"),
				Mode: backup.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the browser UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Address to bind (overrides config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			cfg := *d.cfg
			if c.IsSet("bind") {
				cfg.Bind = c.String("bind")
			}
			if c.IsSet("port") {
				cfg.Port = c.Int("port")
			}

			display := web.NewDisplay()
			tr, err := d.open(c, display)
			if err != nil {
				return err
			}
			tr.LoadItems()

			srv := web.NewServer(tr, display, &cfg, d.log, Version)
			return web.Run(srv, d.log)
		},
	}
}

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	kErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", kErr.Code, kErr.Message), 1)
}

// parseIntArg parses a required whole-number argument.
func parseIntArg(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.NewMissingField(name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be a whole number")
	}
	return n, nil
}
