package market

import (
	"fmt"

	"signal-scanner/internal/analysis/structure"
	"signal-scanner/internal/analysis/zone"
	"signal-scanner/models"
)

// minContextCandles is the floor below which the verdict is always neutral.
const minContextCandles = 10

// controlScoreMargin is how far the structure score must lead before one
// side is declared in control without a broken zone.
const controlScoreMargin = 2

// AnalyzeContext reads the higher timeframe: zones, swing structure and
// trend, then a market-control verdict plus the nearest unmitigated targets
// on each side of price. Fewer than ten candles yields a neutral context,
// never an error.
func AnalyzeContext(candles []models.Candle, currentPrice float64, timeframe string) *models.MarketContext {
	if len(candles) < minContextCandles {
		return &models.MarketContext{
			Control:   models.ControlNeutral,
			Trend:     models.TrendSideways,
			Reasoning: []string{fmt.Sprintf("insufficient candles for context: %d, need %d", len(candles), minContextCandles)},
		}
	}

	var reasoning []string

	zones := zone.DetectZones(candles, timeframe)
	supply := zone.ZonesByType(zones, models.ZoneSupply)
	demand := zone.ZonesByType(zones, models.ZoneDemand)
	freshSupply := zone.UnmitigatedZones(supply)
	freshDemand := zone.UnmitigatedZones(demand)

	reasoning = append(reasoning, fmt.Sprintf("found %d zones: %d supply (%d fresh), %d demand (%d fresh)",
		len(zones), len(supply), len(freshSupply), len(demand), len(freshDemand)))

	swings := structure.DetectSwingPoints(candles, structure.DefaultSwingLookback, 0)
	trend := structure.DetectTrendFromSwings(swings)
	reasoning = append(reasoning, fmt.Sprintf("%d swing points, trend %s", len(swings), trend))

	control, controlNote := determineMarketControl(swings, freshSupply, freshDemand, currentPrice)
	reasoning = append(reasoning, controlNote)

	return &models.MarketContext{
		Control:             control,
		Trend:               trend,
		UnmitigatedSupply:   freshSupply,
		UnmitigatedDemand:   freshDemand,
		NearestSupplyTarget: zone.NearestZone(freshSupply, currentPrice, zone.Above),
		NearestDemandTarget: zone.NearestZone(freshDemand, currentPrice, zone.Below),
		SwingPoints:         swings,
		Reasoning:           reasoning,
	}
}

// determineMarketControl weighs swing structure against broken zones. A
// close beyond an unmitigated zone outranks the structure score.
func determineMarketControl(swings []models.SwingPoint, freshSupply, freshDemand []models.Zone, currentPrice float64) (models.MarketControl, string) {
	for _, z := range freshSupply {
		if currentPrice > z.Top {
			return models.ControlDemand, fmt.Sprintf("demand in control: price %.5f closed above unmitigated supply top %.5f", currentPrice, z.Top)
		}
	}
	for _, z := range freshDemand {
		if currentPrice < z.Bottom {
			return models.ControlSupply, fmt.Sprintf("supply in control: price %.5f closed below unmitigated demand bottom %.5f", currentPrice, z.Bottom)
		}
	}

	recent := swings
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	var bullishScore, bearishScore int
	for _, p := range recent {
		switch p.Type {
		case models.SwingHH:
			bullishScore += 2
		case models.SwingHL:
			bullishScore++
		case models.SwingLL:
			bearishScore += 2
		case models.SwingLH:
			bearishScore++
		}
	}

	note := fmt.Sprintf("structure score bullish %d vs bearish %d", bullishScore, bearishScore)
	switch {
	case bullishScore > bearishScore+controlScoreMargin:
		return models.ControlDemand, "demand in control: " + note
	case bearishScore > bullishScore+controlScoreMargin:
		return models.ControlSupply, "supply in control: " + note
	default:
		return models.ControlNeutral, "neutral: " + note
	}
}
