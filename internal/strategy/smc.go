package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"signal-scanner/internal/analysis/clarity"
	"signal-scanner/internal/analysis/entry"
	"signal-scanner/internal/analysis/market"
	"signal-scanner/internal/analysis/zone"
	"signal-scanner/models"
)

const smcName = "smc"

// SMCConfig tunes the SMC strategy. DefaultSMCConfig covers normal use.
type SMCConfig struct {
	Entry                  entry.Config
	MinConfidence          int
	WatchlistMinConfidence int
	MinRiskReward          float64
	SignalExpiry           time.Duration
}

// DefaultSMCConfig returns the stock strategy thresholds.
func DefaultSMCConfig() SMCConfig {
	return SMCConfig{
		Entry:                  entry.DefaultConfig(),
		MinConfidence:          60,
		WatchlistMinConfidence: 40,
		MinRiskReward:          1.5,
		SignalExpiry:           4 * time.Hour,
	}
}

// SMCStrategy trades supply and demand structure: the slow timeframe picks
// a side, the fast timeframe times the entry against the nearest fresh zone.
type SMCStrategy struct {
	cfg    SMCConfig
	logger zerolog.Logger
}

// NewSMC creates the SMC strategy.
func NewSMC(cfg SMCConfig) *SMCStrategy {
	return &SMCStrategy{
		cfg:    cfg,
		logger: log.With().Str("component", "strategy").Str("strategy", smcName).Logger(),
	}
}

func (s *SMCStrategy) Name() string { return smcName }

// Analyze runs the full pipeline for one instrument. A declined setup is a
// normal outcome: the result carries a nil Signal and the reasoning trail.
func (s *SMCStrategy) Analyze(ctx context.Context, data *models.MultiTimeframeData) (*models.StrategyResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &models.StrategyResult{Strategy: smcName}

	selection := clarity.SelectTimeframes(data)
	result.Reasoning = append(result.Reasoning, fmt.Sprintf("timeframes: context %s, entry %s, refine %s",
		selection.Context, selection.Entry, selection.Refine))

	marketCtx := market.AnalyzeContext(data.ByTimeframe(selection.Context), data.CurrentPrice, selection.Context)
	result.Reasoning = append(result.Reasoning, marketCtx.Reasoning...)

	direction, target, opposing, note := tradePlan(marketCtx)
	if note != "" {
		result.Reasoning = append(result.Reasoning, note)
	}
	if target == nil {
		return result, nil
	}
	result.Reasoning = append(result.Reasoning, fmt.Sprintf("%s bias toward %s zone [%.5f, %.5f]",
		direction, target.Type, target.Bottom, target.Top))

	targetZone := *target
	if refined, ok := zone.RefineZone(targetZone, data.ByTimeframe(selection.Refine)); ok {
		targetZone = refined
		result.Reasoning = append(result.Reasoning, fmt.Sprintf("zone refined on %s to [%.5f, %.5f]",
			selection.Refine, refined.Bottom, refined.Top))
	}

	allZones := append(append([]models.Zone(nil), marketCtx.UnmitigatedSupply...), marketCtx.UnmitigatedDemand...)
	entryResult := entry.DetectEntry(data.ByTimeframe(selection.Entry), targetZone, direction, opposing, allZones, s.cfg.Entry)
	result.Reasoning = append(result.Reasoning, entryResult.Reasoning...)
	if !entryResult.HasValidEntry {
		return result, nil
	}

	setup := entryResult.Setup
	if setup.Confidence < s.cfg.MinConfidence {
		result.Reasoning = append(result.Reasoning, fmt.Sprintf("confidence %d below minimum %d",
			setup.Confidence, s.cfg.MinConfidence))
		if setup.Confidence >= s.cfg.WatchlistMinConfidence {
			result.Reasoning = append(result.Reasoning, "near-miss setup added to the watchlist")
			result.Pending = append(result.Pending, s.buildSignal(data.Instrument, setup, selection, result.Reasoning, models.StatusWatchlist))
			s.logger.Info().
				Str("instrument", data.Instrument).
				Str("direction", string(setup.Direction)).
				Int("confidence", setup.Confidence).
				Msg("Pending setup added to watchlist")
		}
		return result, nil
	}
	if setup.RiskRewardRatio < s.cfg.MinRiskReward {
		result.Reasoning = append(result.Reasoning, fmt.Sprintf("risk/reward %.1f below minimum %.1f",
			setup.RiskRewardRatio, s.cfg.MinRiskReward))
		return result, nil
	}

	result.Signal = s.buildSignal(data.Instrument, setup, selection, result.Reasoning, models.StatusActive)

	s.logger.Info().
		Str("instrument", data.Instrument).
		Str("direction", string(setup.Direction)).
		Str("entry_type", string(setup.EntryType)).
		Int("confidence", setup.Confidence).
		Msg("Signal generated")

	return result, nil
}

// buildSignal stamps a setup into a persistable signal.
func (s *SMCStrategy) buildSignal(instrument string, setup *models.EntrySetup, selection models.TimeframeSelection, reasoning []string, status models.SignalStatus) *models.Signal {
	now := time.Now()
	return &models.Signal{
		ID:              uuid.NewString(),
		Instrument:      instrument,
		Strategy:        smcName,
		Direction:       setup.Direction,
		EntryType:       setup.EntryType,
		EntryPrice:      setup.EntryPrice,
		StopLoss:        setup.StopLoss,
		TakeProfit:      setup.TakeProfit,
		RiskRewardRatio: setup.RiskRewardRatio,
		Confidence:      setup.Confidence,
		Confirmations:   setup.Confirmations,
		Reasoning:       reasoning,
		Timeframes:      selection,
		Status:          status,
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.cfg.SignalExpiry),
	}
}

// tradePlan maps the context verdict to a trade direction, target zone and
// opposing zone. A nil target means no trade; the note says why.
func tradePlan(marketCtx *models.MarketContext) (models.Direction, *models.Zone, *models.Zone, string) {
	switch marketCtx.Control {
	case models.ControlDemand:
		if marketCtx.NearestDemandTarget == nil {
			return "", nil, nil, "demand in control but no fresh demand zone below price"
		}
		return models.DirectionBuy, marketCtx.NearestDemandTarget, marketCtx.NearestSupplyTarget, ""
	case models.ControlSupply:
		if marketCtx.NearestSupplyTarget == nil {
			return "", nil, nil, "supply in control but no fresh supply zone above price"
		}
		return models.DirectionSell, marketCtx.NearestSupplyTarget, marketCtx.NearestDemandTarget, ""
	}
	return "", nil, nil, "no directional control, standing aside"
}
