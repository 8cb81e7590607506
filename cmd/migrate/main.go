package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/config"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/logger"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/migration"
	"github.com/appzetogit/indiankart-sub000/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

var errUsage = errors.New("invalid arguments")

// dbCommand runs against an open Migrator; args excludes the command name
type dbCommand struct {
	usage string
	run   func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var dbCommands = map[string]dbCommand{
	"up": {"up", func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	}},
	"down": {"down", func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	}},
	"step": {"step <n>", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	}},
	"goto": {"goto <version>", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args)
		if err != nil || v < 0 {
			return errUsage
		}
		return m.GoTo(uint(v))
	}},
	"force": {"force <version>", func(m *migration.Migrator, log *zap.Logger, args []string) error {
		v, err := intArg(args)
		if err != nil {
			return err
		}
		log.Warn("Forcing schema version; the dirty flag is cleared without running SQL", zap.Int("version", v))
		return m.Force(v)
	}},
	"version": {"version", func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if v == 0 {
			log.Info("Schema has no migrations applied")
			return nil
		}
		log.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"drop": {"drop -confirm", func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if !slices.Contains(args, "-confirm") && !slices.Contains(args, "--confirm") {
			return fmt.Errorf("%w: drop removes every table, pass -confirm", errUsage)
		}
		return m.Drop()
	}},
}

func intArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = *level
	logCfg.Output = "stdout"
	logCfg.TimeFormat = "2006-01-02 15:04:05"
	logCfg.Service = "fulfillment-migrate"
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	code := run(log, *dir, args[0], args[1:])
	_ = logger.Sync(log)
	os.Exit(code)
}

func run(log *zap.Logger, dir, command string, args []string) int {
	switch command {
	case "create":
		return create(log, dir, args)
	case "list":
		return list(log, dir)
	}

	cmd, ok := dbCommands[command]
	if !ok {
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load configuration", zap.Error(err))
		return 1
	}
	if cfg.Database.Driver != "" && cfg.Database.Driver != "postgres" {
		log.Error("SQL migrations target PostgreSQL; sqlite databases are migrated by the server on startup",
			zap.String("driver", cfg.Database.Driver))
		return 1
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))
		return 1
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Error("Database unreachable", zap.Error(err))
		return 1
	}

	var m *migration.Migrator
	if dir != "" {
		m, err = migration.New(db, dir, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Error("Failed to create migrator", zap.Error(err))
		return 1
	}
	defer m.Close()

	log.Info("Running migration command", zap.String("command", command), zap.String("source", sourceName(dir)))
	if err := cmd.run(m, log, args); err != nil {
		if errors.Is(err, errUsage) {
			log.Error("Usage: migrate "+cmd.usage, zap.Error(err))
			return 2
		}
		log.Error("Migration command failed", zap.String("command", command), zap.Error(err))
		return 1
	}
	return 0
}

func sourceName(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}

func create(log *zap.Logger, dir string, args []string) int {
	if len(args) == 0 {
		log.Error("Usage: migrate create <name> [description]")
		return 2
	}
	if dir == "" {
		dir = defaultMigrationsDir
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		log.Error("Failed to create migration", zap.Error(err))
		return 1
	}
	log.Info("Migration files written",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
	return 0
}

func list(log *zap.Logger, dir string) int {
	var fsys fs.FS = migrations.FS
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			log.Error("Invalid migrations path", zap.Error(err))
			return 1
		}
		fsys = os.DirFS(abs)
	}

	available, err := migration.ListMigrations(fsys)
	if err != nil {
		log.Error("Failed to list migrations", zap.Error(err))
		return 1
	}
	log.Info("Migrations", zap.String("source", sourceName(dir)), zap.Int("count", len(available)))
	for _, mi := range available {
		suffix := ""
		if !mi.HasDown {
			suffix = " (no down migration)"
		}
		fmt.Printf("  %s%s\n", mi.Name, suffix)
	}
	return 0
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [-path dir] [-log-level level] <command> [args]

Schema commands (PostgreSQL, connection from config.toml / KART_DATABASE_*):
  up                    apply every pending migration
  down                  roll back every migration
  step <n>              apply n migrations, negative n rolls back
  goto <version>        migrate up or down to version
  version               print the applied version and dirty flag
  force <version>       set the version without running SQL
  drop -confirm         drop every table in the schema

File commands:
  create <name> [desc]  write the next NNNNNN_<name>.up/down.sql pair (default dir ./migrations)
  list                  list migrations in the embedded set or -path

Without -path the migrations embedded in the binary are used.
`)
}
