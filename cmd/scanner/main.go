package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signal-scanner/internal/analysis/entry"
	"signal-scanner/internal/config"
	"signal-scanner/internal/fetcher"
	"signal-scanner/internal/notify"
	"signal-scanner/internal/scanner"
	"signal-scanner/internal/storage"
	"signal-scanner/internal/strategy"
	"signal-scanner/internal/validate"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting signal scanner")
	printConfig(cfg)

	// 3. Wire collaborators
	source := fetcher.New(fetcher.Options{
		APIKey:         cfg.TwelveAPIKey,
		BaseURL:        cfg.APIBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		CandleCount:    cfg.CandleCount,
	})

	db, err := storage.New(storage.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     strconv.Itoa(cfg.DBPort),
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	token := cfg.TelegramToken
	if !cfg.TelegramEnabled {
		token = ""
	}
	notifier, err := notify.New(token, cfg.TelegramChatID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Telegram notifier")
	}

	validator := validate.New(validate.Config{
		Enabled: cfg.ValidatorEnabled,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.ValidatorModel,
	})

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewSMC(smcConfigFrom(cfg)))

	// 4. Sweep expired signals in the background
	go sweepExpired(ctx, db)

	// 5. Run the scan loop until interrupted
	sc := scanner.New(source, registry, db, notifier, validator, scanner.Config{
		Interval:           cfg.ScanInterval,
		Cooldown:           cfg.SignalCooldown,
		MinConfidence:      cfg.MinConfidence,
		MaxSignalsPerCycle: cfg.MaxSignalsPerCycle,
	})
	if err := sc.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Scanner stopped with error")
	}
}

// setupSignalHandling cancels the root context on the first interrupt and
// force-exits on the second.
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
		<-c
		os.Exit(1)
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Dur("ScanInterval", cfg.ScanInterval).
		Dur("SignalCooldown", cfg.SignalCooldown).
		Dur("SignalExpiry", cfg.SignalExpiry).
		Int("MinConfidence", cfg.MinConfidence).
		Int("WatchlistMinConfidence", cfg.WatchlistMinConfidence).
		Int("MaxSignalsPerCycle", cfg.MaxSignalsPerCycle).
		Float64("MinRiskReward", cfg.MinRiskReward).
		Int("CandleCount", cfg.CandleCount).
		Bool("TelegramEnabled", cfg.TelegramEnabled).
		Bool("ValidatorEnabled", cfg.ValidatorEnabled).
		Msg("Configuration loaded")
}

func smcConfigFrom(cfg *config.Config) strategy.SMCConfig {
	return strategy.SMCConfig{
		Entry: entry.Config{
			CHoCHConfidence:            cfg.CHoCHConfidence,
			FlipConfidence:             cfg.FlipConfidence,
			ContinuationConfidence:     cfg.ContinuationConfidence,
			StrongZoneBonus:            cfg.StrongZoneBonus,
			MultipleConfirmationsBonus: cfg.MultipleConfirmationsBonus,
			DefaultRiskReward:          cfg.DefaultRiskReward,
			SwingLookback:              cfg.EntrySwingLookback,
		},
		MinConfidence:          cfg.MinConfidence,
		WatchlistMinConfidence: cfg.WatchlistMinConfidence,
		MinRiskReward:          cfg.MinRiskReward,
		SignalExpiry:           cfg.SignalExpiry,
	}
}

// sweepExpired marks stale signals hourly until the context ends.
func sweepExpired(ctx context.Context, db *storage.DB) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.ExpireOld(ctx, time.Now())
			if err != nil {
				log.Error().Err(err).Msg("Expiry sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("signals", n).Msg("Expired stale signals")
			}
		}
	}
}
