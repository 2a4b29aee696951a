package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-campaign/internal/config"
	"github.com/KirkDiggler/rpg-campaign/internal/content"
	"github.com/KirkDiggler/rpg-campaign/internal/engine"
	"github.com/KirkDiggler/rpg-campaign/internal/errors"
	"github.com/KirkDiggler/rpg-campaign/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-campaign/internal/pkg/roller"
	redisclient "github.com/KirkDiggler/rpg-campaign/internal/redis"
	"github.com/KirkDiggler/rpg-campaign/internal/repositories/battles"
	roundlog "github.com/KirkDiggler/rpg-campaign/internal/repositories/round_log"
)

// loadConfig reads the environment and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port") //nolint:errcheck // flag is registered on this command
	}
	if flags.Changed("repo") {
		cfg.Repo, _ = flags.GetString("repo") //nolint:errcheck // flag is registered on this command
	}
	if flags.Changed("content") {
		cfg.ContentPath, _ = flags.GetString("content") //nolint:errcheck // flag is registered on this command
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed") //nolint:errcheck // flag is registered on this command
	}
	if flags.Changed("parallel") {
		cfg.Parallel, _ = flags.GetBool("parallel") //nolint:errcheck // flag is registered on this command
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addRuntimeFlags(cmd *cobra.Command) {
	cmd.Flags().String("content", "", "effect catalog YAML file (default: built-in catalog)")
	cmd.Flags().Uint64("seed", 0, "roller seed; 0 picks a random seed")
	cmd.Flags().Bool("parallel", false, "resolve participants concurrently")
}

func setupLogging(cfg *config.Config) {
	level, _ := cfg.SlogLevel() //nolint:errcheck // validated in loadConfig
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func loadCatalog(path string) (*content.Catalog, error) {
	if path == "" {
		return content.Default()
	}
	return content.Load(path)
}

// app is the wired battle stack shared by the server and the scenario runner.
type app struct {
	service battle.Service
	seed    uint64
	close   func()
}

func buildApp(cfg *config.Config) (*app, error) {
	catalog, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load content")
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = roller.NewSeed(); err != nil {
			return nil, errors.Wrap(err, "failed to seed roller")
		}
	}

	eng, err := engine.New(&engine.Config{
		Roller:   roller.NewSeeded(seed),
		Parallel: cfg.Parallel,
		Workers:  cfg.Workers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create engine")
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	service, err := battle.NewOrchestrator(&battle.Config{
		BattleRepo:  repos.battles,
		RoundLog:    repos.roundLog,
		Engine:      eng,
		Catalog:     catalog,
		IDGenerator: idgen.NewUUID(),
		EventBus:    events.NewBus(),
	})
	if err != nil {
		repos.close()
		return nil, errors.Wrap(err, "failed to create battle orchestrator")
	}

	slog.Info("Battle stack ready",
		"repo", cfg.Repo,
		"templates", catalog.Len(),
		"seed", seed,
		"parallel", cfg.Parallel)

	return &app{service: service, seed: seed, close: repos.close}, nil
}

type repositories struct {
	battles  battles.Repository
	roundLog roundlog.Repository
	close    func()
}

func buildRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.Repo != config.RepoRedis {
		return &repositories{
			battles:  battles.NewInMemory(clock.New()),
			roundLog: roundlog.NewInMemory(),
			close:    func() {},
		}, nil
	}

	client, err := redisclient.Connect(cfg.RedisAddrs, &redisclient.Options{
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		UseTLS:   cfg.RedisTLS,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to redis")
	}
	closeClient := func() {
		if err := client.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		closeClient()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis is not reachable")
	}

	battleRepo, err := battles.NewRedisRepository(&battles.Config{
		Client: client,
		Clock:  clock.New(),
		TTL:    cfg.BattleTTL,
	})
	if err != nil {
		closeClient()
		return nil, errors.Wrap(err, "failed to create battle repository")
	}

	logRepo, err := roundlog.NewRedisRepository(&roundlog.Config{
		Client: client,
		TTL:    cfg.BattleTTL,
	})
	if err != nil {
		closeClient()
		return nil, errors.Wrap(err, "failed to create round log repository")
	}

	return &repositories{battles: battleRepo, roundLog: logRepo, close: closeClient}, nil
}
