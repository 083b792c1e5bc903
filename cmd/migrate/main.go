package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Read migrations from this directory instead of the embedded set")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
		Service:    "aquafarm-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// create and list work on files only
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dirOrDefault(migrationsPath), args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		names, err := migration.ListMigrations(dirOrDefault(migrationsPath))
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	m, closeDB := openMigrator(cfg, migrationsPath, log)
	defer closeDB()
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := runCommand(m, command, args[1:], log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func openMigrator(cfg *config.Config, migrationsPath string, log *zap.Logger) (*migration.Migrator, func()) {
	if migrationsPath != "" {
		m, err := migration.NewFromPath(cfg.Database.DSN(), migrationsPath, log)
		if err != nil {
			log.Fatal("Failed to create migrator", zap.Error(err))
		}
		log.Info("Using migrations from disk", zap.String("path", migrationsPath))
		return m, func() {}
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		log.Fatal("Failed to ping database", zap.Error(err))
	}
	m, err := migration.New(db, log)
	if err != nil {
		_ = db.Close()
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return m, func() { _ = db.Close() }
}

func runCommand(m *migration.Migrator, command string, args []string, log *zap.Logger) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps", "step":
		if len(args) < 1 {
			return fmt.Errorf("step count required: migrate steps <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	case "goto":
		if len(args) < 1 {
			return fmt.Errorf("version required: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(version))
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if len(args) < 1 {
			return fmt.Errorf("version required: migrate force <version>")
		}
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(version)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func dirOrDefault(path string) string {
	if path == "" {
		return defaultMigrationsDir
	}
	return path
}

func printUsage() {
	fmt.Println(`Aquafarm schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Mark a version as applied (clears a dirty state)
  create <name> [desc]  Write the next migration pair into -path
  list                  List migrations in -path

Flags:
  -path string          Migrations directory (default: embedded set; ./migrations for create/list)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  AQUA_DATABASE_HOST, AQUA_DATABASE_PORT, AQUA_DATABASE_USER,
  AQUA_DATABASE_PASSWORD, AQUA_DATABASE_DBNAME, AQUA_DATABASE_SSLMODE`)
}
