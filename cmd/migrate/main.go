package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/mercadia/mercadia-backend/pkg/config"
	pkgdb "github.com/mercadia/mercadia-backend/pkg/db"
	"github.com/mercadia/mercadia-backend/pkg/logger"
	"github.com/mercadia/mercadia-backend/pkg/migrate"
)

// Usage: migrate [-dir pkg/migrate/migrations] <command> [args]
// Commands are goose commands: up, down, status, version, up-to, down-to.
func main() {
	dir := flag.String("dir", migrate.DefaultDir, "directory with migration files")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		os.Stderr.WriteString("usage: migrate [-dir path] <command> [args]\n")
		os.Exit(2)
	}
	command := args[0]

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "mercadia-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})
	ctx := context.Background()

	dbClient, err := pkgdb.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "database connection failed", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.SQLDB()
	if err != nil {
		logg.Error(ctx, "database handle unavailable", err)
		os.Exit(1)
	}

	if err := migrate.Run(ctx, sqlDB, *dir, command, args[1:]...); err != nil {
		logg.Error(ctx, "migration command failed", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "command", command), "migration command complete")
}
