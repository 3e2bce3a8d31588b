package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/m3rciful/quizbot/internal/config"
	"github.com/m3rciful/quizbot/internal/database"
	"github.com/m3rciful/quizbot/internal/logger"
	"github.com/m3rciful/quizbot/internal/questions"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/storage/redisstore"
	"github.com/m3rciful/quizbot/internal/telegram"
)

const defaultConfigPath = "config/quizbot.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("quizbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Profile: cfg.Logging.Profile,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := redisstore.New(ctx, redisstore.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect session store: %w", err)
	}
	defer func() { _ = store.Close() }()

	source, err := buildQuestionSource(ctx, cfg)
	if err != nil {
		return err
	}

	repo := quiz.NewRepository(store, quiz.RepositoryOptions{
		SessionTTL:  cfg.SessionTTL(),
		FinishedTTL: cfg.FinishedTTL(),
	})

	return telegram.Run(ctx, telegram.RunOptions{
		Config: cfg,
		Setup: func(rt telegram.Runtime) (func(), error) {
			messenger := telegram.NewMessenger(rt.Bot, rt.Dispatcher)
			setup := quiz.NewSetup(repo, messenger)
			scheduler := quiz.NewScheduler(repo, source, messenger)

			router := telegram.NewRouter(rt.BotName, setup, scheduler, messenger)
			router.Attach(rt.Bot)

			return scheduler.Shutdown, nil
		},
	})
}

// buildQuestionSource serves questions from Postgres when a database is
// configured, migrating and seeding it from the embedded bank; otherwise the
// embedded bank is used directly.
func buildQuestionSource(ctx context.Context, cfg *config.Config) (questions.Source, error) {
	if !cfg.Database.Enabled() {
		return questions.NewStaticSource()
	}

	if err := database.RunMigrations(cfg.Database); err != nil {
		return nil, fmt.Errorf("migrate question bank: %w", err)
	}
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect question bank: %w", err)
	}
	source := questions.NewPostgresSource(db)
	if err := source.Seed(ctx); err != nil {
		return nil, fmt.Errorf("seed question bank: %w", err)
	}
	return source, nil
}
