package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signal-scanner/internal/analysis/entry"
	"signal-scanner/internal/config"
	"signal-scanner/internal/fetcher"
	"signal-scanner/internal/strategy"
	"signal-scanner/models"
)

func main() {
	symbol := flag.String("symbol", "EUR/USD", "instrument to analyze")
	asJSON := flag.Bool("json", false, "print the result as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	source := fetcher.New(fetcher.Options{
		APIKey:         cfg.TwelveAPIKey,
		BaseURL:        cfg.APIBaseURL,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		CandleCount:    cfg.CandleCount,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	data, err := source.FetchAll(ctx, *symbol)
	if err != nil {
		log.Fatal().Err(err).Str("symbol", *symbol).Msg("Failed to fetch market data")
	}

	smc := strategy.NewSMC(smcConfigFrom(cfg))
	result, err := smc.Analyze(ctx, data)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	if *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode result")
		}
		fmt.Println(string(out))
		return
	}

	printResult(*symbol, data.CurrentPrice, result)
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
		MinConfidence: cfg.MinConfidence,
		MinRiskReward: cfg.MinRiskReward,
		SignalExpiry:  cfg.SignalExpiry,
	}
}

// printResult writes the verdict for human eyes. "No entry" is a normal
// outcome, not a failure.
func printResult(symbol string, price float64, result *models.StrategyResult) {
	fmt.Printf("Analysis for %s at %.5f\n\n", symbol, price)
	fmt.Println("Reasoning:")
	for i, r := range result.Reasoning {
		fmt.Printf("  %d. %s\n", i+1, r)
	}

	if result.Signal == nil {
		fmt.Println("\nVerdict: no entry")
		return
	}

	sig := result.Signal
	fmt.Printf("\nVerdict: %s %s (%s)\n", strings.ToUpper(string(sig.Direction)), symbol, sig.EntryType)
	fmt.Printf("  Entry:      %.5f\n", sig.EntryPrice)
	fmt.Printf("  Stop:       %.5f\n", sig.StopLoss)
	fmt.Printf("  Target:     %.5f\n", sig.TakeProfit)
	fmt.Printf("  R:R:        %.1f\n", sig.RiskRewardRatio)
	fmt.Printf("  Confidence: %d%%\n", sig.Confidence)
	fmt.Printf("  Valid until %s\n", sig.ExpiresAt.UTC().Format(time.RFC3339))
}
