package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/cli/analysis"
	"github.com/julianstephens/cadence/internal/cli/backups"
	"github.com/julianstephens/cadence/internal/cli/history"
	"github.com/julianstephens/cadence/internal/cli/settings"
	"github.com/julianstephens/cadence/internal/cli/system"
	"github.com/julianstephens/cadence/internal/constants"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/errors"
	"github.com/julianstephens/cadence/internal/logger"
)

type CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite database path, .json file, PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded in the connection string." name:"db" env:"CADENCE_DB" default:"${default_db}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize cadence storage."`
	Analyze  analysis.AnalyzeCmd  `cmd:"" help:"Score, assess, schedule and forecast a task file."`
	Score    analysis.ScoreCmd    `cmd:"" help:"Show priority scores for a task file."`
	Risk     analysis.RiskCmd     `cmd:"" help:"Show deadline failure risk for a task file."`
	Schedule analysis.ScheduleCmd `cmd:"" help:"Allocate daily hours across a task file."`
	Forecast analysis.ForecastCmd `cmd:"" help:"Show stress under alternative daily capacities."`
	Validate analysis.ValidateCmd `cmd:"" help:"Check a task file for conflicts."`
	Watch    analysis.WatchCmd    `cmd:"" help:"Re-run analyze whenever a task file changes."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage default planning settings."`
	History  struct {
		List    history.HistoryListCmd    `cmd:"" help:"List saved reports." default:"1"`
		Show    history.HistoryShowCmd    `cmd:"" help:"Show a saved report."`
		Delete  history.HistoryDeleteCmd  `cmd:"" help:"Delete a saved report."`
		Restore history.HistoryRestoreCmd `cmd:"" help:"Restore a deleted report."`
	} `cmd:"" help:"Manage saved analysis reports."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage PostgreSQL credentials in the OS keyring."`
}

func newParser(app *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Workload risk, priority and scheduling calculator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":    constants.Version,
			"default_db": constants.DefaultConfigPath,
		},
	}, options...)
	return kong.New(app, options...)
}

func main() {
	var app CLI
	parser, err := newParser(&app)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := run(kctx, &app, nil); err != nil {
		errors.Fatal(err)
	}
}

// run opens the storage selected by --db and executes the parsed command.
// Output goes to out, or stdout when out is nil.
func run(kctx *kong.Context, app *CLI, out io.Writer) error {
	if err := logger.Init(logger.Config{Debug: app.Debug, ConfigDir: cli.ConfigDir(app.DB)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	// Keyring commands must work before a connection string is stored
	store, err := cli.OpenStore(app.DB)
	if err != nil && !strings.HasPrefix(kctx.Command(), "keyring") {
		return err
	}

	appCtx := &cli.Context{
		Store:  store,
		Engine: engine.New(),
		Out:    out,
	}

	err = kctx.Run(appCtx)
	if store != nil {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("Failed to close storage", "error", closeErr)
		}
	}
	return err
}
