package scanner

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signal-scanner/internal/instruments"
	"signal-scanner/internal/markethours"
	"signal-scanner/internal/strategy"
	"signal-scanner/models"
)

// Config tunes the scan loop.
type Config struct {
	Interval           time.Duration
	Cooldown           time.Duration
	MinConfidence      int
	MaxSignalsPerCycle int
}

// DefaultConfig returns the stock loop settings.
func DefaultConfig() Config {
	return Config{
		Interval:           15 * time.Minute,
		Cooldown:           2 * time.Hour,
		MinConfidence:      60,
		MaxSignalsPerCycle: 3,
	}
}

// Scanner walks the watchlist on a fixed interval, runs every registered
// strategy and fans the accepted signals out to storage and notification.
// An optional validator reviews each signal before it is persisted.
type Scanner struct {
	fetcher   models.CandleSource
	registry  *strategy.Registry
	store     models.SignalStore
	notifier  models.SignalNotifier
	validator models.SignalValidator
	cfg       Config
	logger    zerolog.Logger
	now       func() time.Time
}

// New creates a scanner. validator may be nil to skip the review step.
func New(fetcher models.CandleSource, registry *strategy.Registry, store models.SignalStore, notifier models.SignalNotifier, validator models.SignalValidator, cfg Config) *Scanner {
	return &Scanner{
		fetcher:   fetcher,
		registry:  registry,
		store:     store,
		notifier:  notifier,
		validator: validator,
		cfg:       cfg,
		logger:    log.With().Str("component", "scanner").Logger(),
		now:       time.Now,
	}
}

// Run scans immediately, then on every tick until the context is cancelled.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.cfg.Interval).Msg("Scanner started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.ScanOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Scanner stopped")
			return nil
		case <-ticker.C:
			s.ScanOnce(ctx)
		}
	}
}

// ScanOnce runs one pass over the watchlist and returns the dispatched
// signals. Per-instrument failures are logged and skipped so one bad symbol
// never stalls the cycle. Near-miss setups the strategies flag as pending
// are persisted with watchlist status but never notified.
func (s *Scanner) ScanOnce(ctx context.Context) []*models.Signal {
	now := s.now()
	var candidates []*models.Signal
	var pending []*models.Signal

	for _, inst := range instruments.Watchlist() {
		if ctx.Err() != nil {
			return nil
		}

		if !inst.IsCrypto() && !markethours.IsForexOpen(now) {
			s.logger.Debug().Str("instrument", inst.Symbol).Msg("Market closed, skipping")
			continue
		}

		recent, err := s.store.RecentSignalExists(ctx, inst.Symbol, now.Add(-s.cfg.Cooldown))
		if err != nil {
			s.logger.Error().Err(err).Str("instrument", inst.Symbol).Msg("Cooldown lookup failed")
			continue
		}
		if recent {
			s.logger.Debug().Str("instrument", inst.Symbol).Msg("Cooldown active, skipping")
			continue
		}

		data, err := s.fetcher.FetchAll(ctx, inst.Symbol)
		if err != nil {
			s.logger.Error().Err(err).Str("instrument", inst.Symbol).Msg("Fetch failed")
			continue
		}

		for _, strat := range s.registry.All() {
			result, err := strat.Analyze(ctx, data)
			if err != nil {
				s.logger.Error().Err(err).
					Str("instrument", inst.Symbol).
					Str("strategy", strat.Name()).
					Msg("Strategy failed")
				continue
			}
			pending = append(pending, result.Pending...)
			if result.Signal == nil {
				continue
			}
			if result.Signal.Confidence < s.cfg.MinConfidence {
				s.logger.Debug().
					Str("instrument", inst.Symbol).
					Int("confidence", result.Signal.Confidence).
					Msg("Signal below confidence floor")
				continue
			}
			candidates = append(candidates, result.Signal)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > s.cfg.MaxSignalsPerCycle {
		candidates = candidates[:s.cfg.MaxSignalsPerCycle]
	}

	var dispatched []*models.Signal
	for _, sig := range candidates {
		if verdict := s.validateSignal(ctx, sig); verdict != nil {
			if verdict.Recommendation == models.RecommendationSkip {
				s.logger.Info().
					Str("instrument", sig.Instrument).
					Str("reason", verdict.Reasoning).
					Msg("Validator rejected signal")
				continue
			}
			adjusted := sig.Confidence + verdict.ConfidenceAdjustment
			if adjusted < 0 {
				adjusted = 0
			}
			if adjusted > 100 {
				adjusted = 100
			}
			s.logger.Info().
				Str("instrument", sig.Instrument).
				Str("recommendation", verdict.Recommendation).
				Int("adjustment", verdict.ConfidenceAdjustment).
				Int("confidence", adjusted).
				Msg("Validator verdict")
			sig.Confidence = adjusted
		}
		if err := s.store.SaveSignal(ctx, sig); err != nil {
			s.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Save failed")
			continue
		}
		if err := s.notifier.SendSignal(ctx, sig); err != nil {
			// Persisted already; losing the notification is recoverable.
			s.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Notify failed")
		}
		dispatched = append(dispatched, sig)
	}

	watchlisted := 0
	for _, sig := range pending {
		if err := s.store.SaveSignal(ctx, sig); err != nil {
			s.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Watchlist save failed")
			continue
		}
		watchlisted++
		s.logger.Info().
			Str("instrument", sig.Instrument).
			Int("confidence", sig.Confidence).
			Msg("Added to watchlist")
	}

	s.logger.Info().Int("signals", len(dispatched)).Int("watchlist", watchlisted).Msg("Scan complete")
	return dispatched
}

// validateSignal runs the optional pre-persistence review. Review failures
// never block a signal; the error is logged and the signal proceeds
// unvalidated.
func (s *Scanner) validateSignal(ctx context.Context, sig *models.Signal) *models.SignalValidation {
	if s.validator == nil {
		return nil
	}
	verdict, err := s.validator.Validate(ctx, sig)
	if err != nil {
		s.logger.Error().Err(err).Str("instrument", sig.Instrument).Msg("Validation failed")
		return nil
	}
	return verdict
}
