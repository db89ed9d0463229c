package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/config"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/database"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/logger"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/metrics"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/repository"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/router"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/service"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/spoonacular"
	"github.com/SmitRupani/Smart-Grocery-Tracker/internal/utils"
)

const serviceName = "grocetrack"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"port": cfg.App.Port,
	})

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		logg.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			logg.Error(ctx, "failed to run migrations", err)
			os.Exit(1)
		}
		logg.Info(ctx, "migrations applied")
	}

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb == nil {
		logg.Warn(ctx, "redis unavailable, rate limiting disabled")
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				logg.Error(ctx, "error closing redis", err)
			}
		}()
	}

	validate := utils.NewValidator()
	users := repository.NewUserRepo(db)
	groceries := repository.NewGroceryRepo(db)

	var finder service.RecipeFinder
	if cfg.Spoonacular.APIKey != "" {
		client, err := spoonacular.NewClient(cfg.Spoonacular.APIKey,
			spoonacular.WithBaseURL(cfg.Spoonacular.BaseURL),
			spoonacular.WithResults(cfg.Spoonacular.Results),
			spoonacular.WithTimeout(cfg.Spoonacular.Timeout),
		)
		if err != nil {
			logg.Error(ctx, "failed to create recipe api client", err)
			os.Exit(1)
		}
		finder = client
	} else {
		logg.Warn(ctx, "SPOONACULAR_API_KEY not set, recipe search disabled")
	}

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	e := router.NewServer(router.Deps{
		Config:    cfg,
		Log:       logg,
		Metrics:   metrics.NewHTTPMetrics(reg),
		Redis:     rdb,
		Auth:      service.NewAuthService(users, utils.NewTokens(cfg.Auth.JWTSecret), validate, cfg.Auth.BcryptCost),
		Groceries: service.NewGroceryService(groceries, validate),
		Recipes:   service.NewRecipeService(repository.NewRecipeRepo(db), groceries, finder, validate),
	})

	addr := ":" + cfg.App.Port
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "starting api server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}()

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-stop.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
	}
	logg.Info(ctx, "server stopped")
}
