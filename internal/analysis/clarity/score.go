package clarity

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"

	"signal-scanner/internal/analysis/structure"
	"signal-scanner/models"
)

// Scoring weights. The four components sum to 100.
const (
	bodyPointsFull    = 25
	bodyPointsPartial = 15
	wickLeanPoints    = 15
	trendPoints       = 35
	volPointsFull     = 25
	volPointsPartial  = 10
)

const (
	minClarityCandles = 20
	clearThreshold    = 60
	atrPeriod         = 14
	swingLookback     = 3
	decisiveBodyRatio = 0.5
	mixedBodyRatio    = 0.35
	wickLeanShare     = 0.65
	driftShare        = 0.5
	steadyVolShare    = 0.5
	tolerableVolShare = 0.8
)

// Score grades how readable a timeframe's tape is: decisive bodies, wick
// lean, a visible trend and steady volatility each add points. A score of
// 60 or more counts as clear.
func Score(candles []models.Candle) models.ClarityScore {
	if len(candles) < minClarityCandles {
		return models.ClarityScore{
			Reasons: []string{fmt.Sprintf("insufficient candles for clarity: %d, need %d", len(candles), minClarityCandles)},
		}
	}

	var score int
	var reasons []string

	// Decisive bodies.
	var ratioSum float64
	for _, c := range candles {
		ratioSum += c.BodyRatio()
	}
	avgRatio := ratioSum / float64(len(candles))
	switch {
	case avgRatio >= decisiveBodyRatio:
		score += bodyPointsFull
		reasons = append(reasons, fmt.Sprintf("decisive bodies: average ratio %.2f", avgRatio))
	case avgRatio >= mixedBodyRatio:
		score += bodyPointsPartial
		reasons = append(reasons, fmt.Sprintf("mixed bodies: average ratio %.2f", avgRatio))
	default:
		reasons = append(reasons, fmt.Sprintf("indecisive bodies: average ratio %.2f", avgRatio))
	}

	// Wick lean: rejection wicks stacked on one side read cleaner than
	// wicks split both ways.
	var upperSum, lowerSum float64
	for _, c := range candles {
		upperSum += c.UpperWick()
		lowerSum += c.LowerWick()
	}
	if total := upperSum + lowerSum; total > 0 {
		lean := math.Max(upperSum, lowerSum) / total
		if lean >= wickLeanShare {
			score += wickLeanPoints
			reasons = append(reasons, fmt.Sprintf("wicks lean one way: %.0f%%", lean*100))
		}
	}

	// Visible trend: swing classification first, net drift as the fallback
	// for a monotone tape that never prints a swing point.
	swings := structure.DetectSwingPoints(candles, swingLookback, 0)
	trend := structure.DetectTrendFromSwings(swings)
	if trend != models.TrendSideways {
		score += trendPoints
		reasons = append(reasons, fmt.Sprintf("%s swing structure", trend))
	} else if drift := netDriftShare(candles); drift >= driftShare {
		score += trendPoints
		reasons = append(reasons, fmt.Sprintf("directional drift across %.0f%% of the envelope", drift*100))
	} else {
		reasons = append(reasons, "sideways structure")
	}

	// Steady volatility: true-range dispersion against ATR.
	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	closes := make([]float64, len(candles))
	for i, c := range candles {
		high[i] = c.High
		low[i] = c.Low
		closes[i] = c.Close
	}
	atr := talib.Atr(high, low, closes, atrPeriod)
	tr := talib.TRange(high, low, closes)
	dev := talib.StdDev(tr, atrPeriod, 1.0)
	lastATR := atr[len(atr)-1]
	lastDev := dev[len(dev)-1]
	if lastATR > 0 {
		share := lastDev / lastATR
		switch {
		case share <= steadyVolShare:
			score += volPointsFull
			reasons = append(reasons, fmt.Sprintf("steady volatility: deviation %.0f%% of ATR", share*100))
		case share <= tolerableVolShare:
			score += volPointsPartial
			reasons = append(reasons, fmt.Sprintf("uneven volatility: deviation %.0f%% of ATR", share*100))
		default:
			reasons = append(reasons, fmt.Sprintf("erratic volatility: deviation %.0f%% of ATR", share*100))
		}
	} else {
		reasons = append(reasons, "volatility unreadable: flat ATR")
	}

	if score > 100 {
		score = 100
	}
	return models.ClarityScore{Score: score, IsClear: score >= clearThreshold, Reasons: reasons}
}

// netDriftShare is the one-way close-to-close move relative to the full
// high-low envelope of the window.
func netDriftShare(candles []models.Candle) float64 {
	maxHigh := candles[0].High
	minLow := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > maxHigh {
			maxHigh = c.High
		}
		if c.Low < minLow {
			minLow = c.Low
		}
	}
	envelope := maxHigh - minLow
	if envelope == 0 {
		return 0
	}
	return math.Abs(candles[len(candles)-1].Close-candles[0].Close) / envelope
}

// SelectTimeframes walks down from the preferred frames until one reads
// clearly, with the lowest frame as the unconditional fallback.
func SelectTimeframes(data *models.MultiTimeframeData) models.TimeframeSelection {
	sel := models.TimeframeSelection{
		Context: models.Interval4H,
		Entry:   models.Interval15Min,
		Refine:  models.Interval5Min,
	}

	sel.ContextClarity = Score(data.H4)
	if !sel.ContextClarity.IsClear {
		if s := Score(data.H2); s.IsClear {
			sel.Context, sel.ContextClarity = models.Interval2H, s
		} else {
			sel.Context, sel.ContextClarity = models.Interval1H, Score(data.H1)
		}
	}

	sel.EntryClarity = Score(data.M15)
	if !sel.EntryClarity.IsClear {
		sel.Entry, sel.EntryClarity = models.Interval30Min, Score(data.M30)
	}

	if !Score(data.M5).IsClear {
		sel.Refine = models.Interval3Min
	}
	return sel
}
