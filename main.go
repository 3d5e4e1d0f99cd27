package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/wordtrainer/internal/bot"
	"github.com/example/wordtrainer/internal/config"
	"github.com/example/wordtrainer/internal/database"
	"github.com/example/wordtrainer/internal/importer"
	"github.com/example/wordtrainer/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	log, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Seed the vocabulary. A missing seed is fatal only on first run, when
	// there would be nothing to learn; with words already imported it is
	// just a warning.
	wordRepo := database.NewWordRepository(db)
	im := importer.New(wordRepo, log)
	if _, err := im.ImportFile(cfg.SeedPath); err != nil {
		count, countErr := wordRepo.Count()
		if errors.Is(err, importer.ErrSeedSourceMissing) && countErr == nil && count > 0 {
			log.Warn("seed source missing, keeping existing words", zap.Error(err))
		} else {
			log.Fatal("failed to import vocabulary seed", zap.Error(err))
		}
	}

	b, err := bot.New(cfg.TelegramToken, db, log)
	if err != nil {
		log.Fatal("failed to create bot", zap.Error(err))
	}

	reminders := scheduler.New(
		wordRepo,
		database.NewSettingsRepository(db),
		b,
		log,
	)
	reminders.Start()
	defer reminders.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		b.Stop()
		cancel()
	}()

	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped with error", zap.Error(err))
	}
	log.Info("bot stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
