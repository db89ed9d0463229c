package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/config"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/database"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|redo|up-to|down-to")
	target := flag.String("version", "", "target version for -cmd=up-to or -cmd=down-to")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	var args []string
	switch *cmd {
	case "up", "down", "status", "version", "redo":
	case "up-to", "down-to":
		if *target == "" {
			fmt.Fprintf(os.Stderr, "missing -version for %s\n", *cmd)
			os.Exit(1)
		}
		args = append(args, *target)
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	db, err := database.Open(ctx, cfg.DB)
	requireResource(ctx, logg, "database", err)
	defer db.Close()

	logg.Info(ctx, "migrate ready")
	if err := database.Migrate(ctx, db, *cmd, args...); err != nil {
		logg.Error(ctx, "migration failed", err)
		db.Close()
		os.Exit(1)
	}
	logg.Info(ctx, "migration complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
