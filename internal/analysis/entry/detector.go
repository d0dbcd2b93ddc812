package entry

import (
	"fmt"
	"math"

	"signal-scanner/internal/analysis/candle"
	"signal-scanner/internal/analysis/structure"
	"signal-scanner/models"
)

// Defaults mirror the configuration layer so the detector can run standalone.
const (
	DefaultCHoCHConfidence            = 60
	DefaultFlipConfidence             = 55
	DefaultContinuationConfidence     = 50
	DefaultStrongZoneBonus            = 10
	DefaultMultipleConfirmationsBonus = 10
	DefaultRiskReward                 = 2.5
	DefaultSwingLookback              = 2
)

const (
	minEntryCandles = 10
	maxConfidence   = 95

	// Fixed pattern bonuses. The configurable knobs are the three base
	// confidences plus the zone-strength and confluence bonuses.
	zoneNowBonus         = 20
	zoneRecentBonus      = 15
	chochReactionBonus   = 10
	rejectionBonus       = 10
	flipReactionBonus    = 15
	contReactionBonus    = 10
	minConfluenceEntries = 3
	reactionBodyRatio    = 0.5
	reactionWindow       = 3
	zonePresenceWindow   = 5
	rejectionWindow      = 5
	chochSwingWindow     = 8
	contSwingWindow      = 4
	minCHoCHSwings       = 4
	minTrendEvidence     = 2
	flipDistanceMultiple = 3.0
	entryEdgeBias        = 0.25
	stopZoneBuffer       = 0.5
)

// Config carries the detector thresholds. It is immutable for the duration
// of a call, so one instance can serve concurrent scans.
type Config struct {
	CHoCHConfidence            int
	FlipConfidence             int
	ContinuationConfidence     int
	StrongZoneBonus            int
	MultipleConfirmationsBonus int
	DefaultRiskReward          float64
	SwingLookback              int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		CHoCHConfidence:            DefaultCHoCHConfidence,
		FlipConfidence:             DefaultFlipConfidence,
		ContinuationConfidence:     DefaultContinuationConfidence,
		StrongZoneBonus:            DefaultStrongZoneBonus,
		MultipleConfirmationsBonus: DefaultMultipleConfirmationsBonus,
		DefaultRiskReward:          DefaultRiskReward,
		SwingLookback:              DefaultSwingLookback,
	}
}

// patternMatch is one matched variant of the priority chain, carrying the
// pattern's own confidence and audit trail before setup-level bonuses.
type patternMatch struct {
	entryType     models.EntryType
	confidence    int
	confirmations []string
	reasoning     []string
}

// DetectEntry scans the fast timeframe for a trigger into targetZone. The
// three patterns are tried in fixed priority order and the first match wins:
// change of character, then zone flip, then continuation. opposing may be
// nil when no take-profit zone exists on the far side.
func DetectEntry(fastCandles []models.Candle, targetZone models.Zone, direction models.Direction, opposing *models.Zone, allZones []models.Zone, cfg Config) models.EntryResult {
	if len(fastCandles) < minEntryCandles {
		return models.EntryResult{
			Reasoning: []string{fmt.Sprintf("insufficient data: %d fast candles, need %d", len(fastCandles), minEntryCandles)},
		}
	}

	swings := structure.DetectSwingPoints(fastCandles, cfg.SwingLookback, 0)
	currentPrice := fastCandles[len(fastCandles)-1].Close

	var reasoning []string

	m, note := matchCHoCH(fastCandles, swings, targetZone, direction, currentPrice, cfg)
	if m == nil {
		reasoning = append(reasoning, note)
		m, note = matchZoneFlip(fastCandles, targetZone, direction, currentPrice, allZones, cfg)
	}
	if m == nil {
		reasoning = append(reasoning, note)
		m, note = matchContinuation(fastCandles, swings, targetZone, direction, cfg)
	}
	if m == nil {
		reasoning = append(reasoning, note, "no entry pattern matched")
		return models.EntryResult{Reasoning: reasoning}
	}

	return assembleSetup(targetZone, direction, opposing, m, reasoning, cfg)
}

// matchCHoCH looks for a change of character: prior trend evidence against
// the trade direction plus a break of structure back in its favor.
func matchCHoCH(candles []models.Candle, swings []models.SwingPoint, targetZone models.Zone, direction models.Direction, currentPrice float64, cfg Config) (*patternMatch, string) {
	if len(swings) < minCHoCHSwings {
		return nil, fmt.Sprintf("no change of character: %d swing points, need %d", len(swings), minCHoCHSwings)
	}

	recent := swings
	if len(recent) > chochSwingWindow {
		recent = recent[len(recent)-chochSwingWindow:]
	}
	bos := structure.FindBrokenStructure(swings, currentPrice)

	m := &patternMatch{entryType: models.EntryCHoCH, confidence: cfg.CHoCHConfidence}

	if direction == models.DirectionBuy {
		evidence := countSwingTypes(recent, models.SwingLL, models.SwingLH)
		if evidence < minTrendEvidence {
			return nil, "no change of character: missing prior downtrend evidence"
		}
		broke := bos.Bullish
		if !broke {
			if hh, ok := lastSwingOfType(swings, models.SwingHH); ok && currentPrice > hh.Price {
				broke = true
			}
		}
		if !broke {
			return nil, "no change of character: bearish structure still intact"
		}
		m.confirmations = append(m.confirmations,
			fmt.Sprintf("prior downtrend: %d bearish swing points", evidence),
			"bullish break of structure")
		m.reasoning = append(m.reasoning, "change of character: downtrend structure broken upward")
	} else {
		evidence := countSwingTypes(recent, models.SwingHH, models.SwingHL)
		if evidence < minTrendEvidence {
			return nil, "no change of character: missing prior uptrend evidence"
		}
		broke := bos.Bearish
		if !broke {
			if ll, ok := lastSwingOfType(swings, models.SwingLL); ok && currentPrice < ll.Price {
				broke = true
			}
		}
		if !broke {
			return nil, "no change of character: bullish structure still intact"
		}
		m.confirmations = append(m.confirmations,
			fmt.Sprintf("prior uptrend: %d bullish swing points", evidence),
			"bearish break of structure")
		m.reasoning = append(m.reasoning, "change of character: uptrend structure broken downward")
	}

	inNow, inRecently := zonePresence(candles, targetZone)
	switch {
	case inNow:
		m.confidence += zoneNowBonus
		m.confirmations = append(m.confirmations, "price inside the entry zone")
	case inRecently:
		m.confidence += zoneRecentBonus
		m.confirmations = append(m.confirmations, "price tagged the entry zone recently")
	}
	if hasReactionCandle(candles, direction) {
		m.confidence += chochReactionBonus
		m.confirmations = append(m.confirmations, "impulsive reaction candle")
	}
	if hasRejectionFromZone(candles, targetZone) {
		m.confidence += rejectionBonus
		m.confirmations = append(m.confirmations, "rejection wick from inside the zone")
	}
	return m, ""
}

// matchZoneFlip looks for a former opposite zone close enough to the target
// that the level has flipped roles, with price already in the target. The
// trigger is the current price itself, not a wick tag of the zone.
func matchZoneFlip(candles []models.Candle, targetZone models.Zone, direction models.Direction, currentPrice float64, allZones []models.Zone, cfg Config) (*patternMatch, string) {
	if !targetZone.Contains(currentPrice) {
		return nil, "no zone flip: price not inside the target zone"
	}

	reach := flipDistanceMultiple * targetZone.Size()
	found := false
	for _, z := range allZones {
		if z.Type != targetZone.Type.Opposite() {
			continue
		}
		if math.Abs(z.Mid()-targetZone.Mid()) <= reach {
			found = true
			break
		}
	}
	if !found {
		return nil, "no zone flip: no opposite zone near the target"
	}

	m := &patternMatch{entryType: models.EntryZoneFlip, confidence: cfg.FlipConfidence}
	m.confirmations = append(m.confirmations,
		"opposite zone flipped within reach of the target",
		"price inside the flipped zone")
	m.reasoning = append(m.reasoning, "zone flip: prior opposite zone now acting as the entry level")

	if hasReactionCandle(candles, direction) {
		m.confidence += flipReactionBonus
		m.confirmations = append(m.confirmations, "impulsive reaction candle")
	}
	return m, ""
}

// matchContinuation looks for intact trend structure in the trade direction
// with price back at the target zone.
func matchContinuation(candles []models.Candle, swings []models.SwingPoint, targetZone models.Zone, direction models.Direction, cfg Config) (*patternMatch, string) {
	recent := swings
	if len(recent) > contSwingWindow {
		recent = recent[len(recent)-contSwingWindow:]
	}

	var aligned bool
	if direction == models.DirectionBuy {
		aligned = countSwingTypes(recent, models.SwingHL) > 0 && countSwingTypes(recent, models.SwingHH) > 0
	} else {
		aligned = countSwingTypes(recent, models.SwingLH) > 0 && countSwingTypes(recent, models.SwingLL) > 0
	}
	if !aligned {
		return nil, "no continuation: trend structure not aligned with the trade direction"
	}

	inNow, inRecently := zonePresence(candles, targetZone)
	if !inNow && !inRecently {
		return nil, "no continuation: price away from the target zone"
	}

	m := &patternMatch{entryType: models.EntryContinuation, confidence: cfg.ContinuationConfidence}
	m.confirmations = append(m.confirmations,
		"trend structure intact in the trade direction",
		"price at the target zone")
	m.reasoning = append(m.reasoning, "continuation: pullback into the zone with structure intact")

	if hasReactionCandle(candles, direction) {
		m.confidence += contReactionBonus
		m.confirmations = append(m.confirmations, "impulsive reaction candle")
	}
	return m, ""
}

// assembleSetup turns a matched pattern into a priced setup. Degenerate
// zero-risk geometry is rejected here, before any setup is constructed.
func assembleSetup(targetZone models.Zone, direction models.Direction, opposing *models.Zone, m *patternMatch, reasoning []string, cfg Config) models.EntryResult {
	reasoning = append(reasoning, m.reasoning...)

	size := targetZone.Size()
	var entryPrice, stopLoss float64
	if direction == models.DirectionBuy {
		entryPrice = targetZone.Top - entryEdgeBias*size
		stopLoss = targetZone.Bottom - stopZoneBuffer*size
	} else {
		entryPrice = targetZone.Bottom + entryEdgeBias*size
		stopLoss = targetZone.Top + stopZoneBuffer*size
	}

	risk := math.Abs(entryPrice - stopLoss)
	if risk == 0 {
		reasoning = append(reasoning, "rejected: zone has no height, zero-risk setup")
		return models.EntryResult{Reasoning: reasoning}
	}

	var takeProfit float64
	if direction == models.DirectionBuy {
		takeProfit = entryPrice + risk*cfg.DefaultRiskReward
		if opposing != nil && opposing.Bottom > entryPrice {
			takeProfit = opposing.Bottom
			reasoning = append(reasoning, fmt.Sprintf("take profit at opposing zone edge %.5f", takeProfit))
		}
	} else {
		takeProfit = entryPrice - risk*cfg.DefaultRiskReward
		if opposing != nil && opposing.Top < entryPrice {
			takeProfit = opposing.Top
			reasoning = append(reasoning, fmt.Sprintf("take profit at opposing zone edge %.5f", takeProfit))
		}
	}

	reward := math.Abs(takeProfit - entryPrice)
	rr := math.Round(reward/risk*10) / 10

	confidence := m.confidence
	confirmations := m.confirmations
	if targetZone.Strength == models.ZoneStrong {
		confidence += cfg.StrongZoneBonus
		confirmations = append(confirmations, "strong origin zone")
	}
	if len(confirmations) >= minConfluenceEntries {
		confidence += cfg.MultipleConfirmationsBonus
		confirmations = append(confirmations, "multiple confirmations aligned")
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	if confidence < 0 {
		confidence = 0
	}

	reasoning = append(reasoning, fmt.Sprintf("entry %.5f stop %.5f target %.5f rr %.1f", entryPrice, stopLoss, takeProfit, rr))

	setup := models.EntrySetup{
		EntryType:       m.entryType,
		Direction:       direction,
		EntryZone:       targetZone,
		EntryPrice:      entryPrice,
		StopLoss:        stopLoss,
		TakeProfit:      takeProfit,
		RiskRewardRatio: rr,
		Confidence:      confidence,
		Confirmations:   confirmations,
		Reasoning:       reasoning,
	}
	return models.EntryResult{
		HasValidEntry: true,
		EntryType:     m.entryType,
		Setup:         &setup,
		Reasoning:     reasoning,
	}
}

// zonePresence reports whether the last candle's range overlaps the zone and
// whether any candle in the presence window did.
func zonePresence(candles []models.Candle, z models.Zone) (inNow, inRecently bool) {
	last := candles[len(candles)-1]
	inNow = candleOverlapsZone(last, z)

	start := len(candles) - zonePresenceWindow
	if start < 0 {
		start = 0
	}
	for _, c := range candles[start:] {
		if candleOverlapsZone(c, z) {
			inRecently = true
			break
		}
	}
	return inNow, inRecently
}

func candleOverlapsZone(c models.Candle, z models.Zone) bool {
	return c.Low <= z.Top && c.High >= z.Bottom
}

// hasReactionCandle reports a decisive body in the trade direction within
// the reaction window.
func hasReactionCandle(candles []models.Candle, direction models.Direction) bool {
	start := len(candles) - reactionWindow
	if start < 0 {
		start = 0
	}
	for _, c := range candles[start:] {
		if !candle.IsImpulse(c, reactionBodyRatio) {
			continue
		}
		if direction == models.DirectionBuy && c.IsBullish() {
			return true
		}
		if direction == models.DirectionSell && c.IsBearish() {
			return true
		}
	}
	return false
}

// hasRejectionFromZone reports a rejection candle whose range overlaps the
// zone within the rejection window.
func hasRejectionFromZone(candles []models.Candle, z models.Zone) bool {
	start := len(candles) - rejectionWindow
	if start < 0 {
		start = 0
	}
	for _, c := range candles[start:] {
		if candle.IsRejection(c, candle.DefaultRejectionThreshold) && candleOverlapsZone(c, z) {
			return true
		}
	}
	return false
}

func countSwingTypes(points []models.SwingPoint, types ...models.SwingType) int {
	n := 0
	for _, p := range points {
		for _, t := range types {
			if p.Type == t {
				n++
				break
			}
		}
	}
	return n
}

// lastSwingOfType walks backward for the most recent point of the given type.
func lastSwingOfType(points []models.SwingPoint, t models.SwingType) (models.SwingPoint, bool) {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Type == t {
			return points[i], true
		}
	}
	return models.SwingPoint{}, false
}
