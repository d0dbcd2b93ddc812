package candle

import (
	"math"

	"signal-scanner/models"
)

// Default thresholds for the single-candle classifiers.
const (
	DefaultImpulseThreshold   = 0.6
	DefaultDojiThreshold      = 0.1
	DefaultPinBarThreshold    = 0.3
	DefaultRejectionThreshold = 0.4

	DefaultInstitutionalLookback = 20
	DefaultMomentumLookback      = 5
)

// Bias is the polarity a two-sided classifier resolves to.
type Bias string

const (
	BiasBullish Bias = "bullish"
	BiasBearish Bias = "bearish"
	BiasNone    Bias = "none"
)

// IsImpulse reports a decisive candle: body takes at least threshold of the
// full range.
func IsImpulse(c models.Candle, threshold float64) bool {
	return c.BodyRatio() >= threshold
}

// IsDoji reports an indecision candle: tiny body inside a real range. A
// zero-range candle is not a doji.
func IsDoji(c models.Candle, threshold float64) bool {
	return c.Range() > 0 && c.BodyRatio() <= threshold
}

// PinBar classifies a single-sided rejection candle: small body, one wick
// taking at least 60% of the range, the opposite wick under 20%. A long
// lower wick is bullish, a long upper wick bearish.
func PinBar(c models.Candle, threshold float64) Bias {
	r := c.Range()
	if r == 0 || c.BodyRatio() > threshold {
		return BiasNone
	}

	upper := c.UpperWick()
	lower := c.LowerWick()

	if lower >= r*0.6 && upper < r*0.2 {
		return BiasBullish
	}
	if upper >= r*0.6 && lower < r*0.2 {
		return BiasBearish
	}
	return BiasNone
}

// IsRejection reports a candle whose longer wick covers at least half the
// range with a small body, regardless of which side rejected.
func IsRejection(c models.Candle, threshold float64) bool {
	r := c.Range()
	if r == 0 || c.BodyRatio() > threshold {
		return false
	}
	return math.Max(c.UpperWick(), c.LowerWick()) >= r*0.5
}

// Engulfing detects the classic two-candle engulfing pattern: the current
// body fully contains the previous body and is strictly larger, with
// opposite polarity.
func Engulfing(prev, curr models.Candle) Bias {
	prevTop := math.Max(prev.Open, prev.Close)
	prevBottom := math.Min(prev.Open, prev.Close)
	currTop := math.Max(curr.Open, curr.Close)
	currBottom := math.Min(curr.Open, curr.Close)

	contains := currTop >= prevTop && currBottom <= prevBottom
	larger := curr.BodySize() > prev.BodySize()
	if !contains || !larger {
		return BiasNone
	}

	if curr.IsBullish() && prev.IsBearish() {
		return BiasBullish
	}
	if curr.IsBearish() && prev.IsBullish() {
		return BiasBearish
	}
	return BiasNone
}

// DetectInstitutionalCandle scans the most recent lookback candles backward
// and returns the most recent one whose range exceeds 1.5x the lookback
// average with a dominant body. Returns false when fewer than lookback
// candles are available or none qualifies.
func DetectInstitutionalCandle(candles []models.Candle, lookback int) (models.Candle, bool) {
	if lookback <= 0 || len(candles) < lookback {
		return models.Candle{}, false
	}

	window := candles[len(candles)-lookback:]

	avgRange := 0.0
	for _, c := range window {
		avgRange += c.Range()
	}
	avgRange /= float64(lookback)

	for i := len(window) - 1; i >= 0; i-- {
		c := window[i]
		if c.Range() > avgRange*1.5 && c.BodyRatio() > 0.6 {
			return c, true
		}
	}
	return models.Candle{}, false
}

// DetectMomentumShift compares candle polarity counts in the last lookback
// candles against the lookback-sized window immediately before it. A shift
// fires when the prior window was leaning one way (>=2 candles) and the
// recent window leans the opposite way (>=3 candles).
func DetectMomentumShift(candles []models.Candle, lookback int) Bias {
	if lookback <= 0 || len(candles) < lookback*2 {
		return BiasNone
	}

	recent := candles[len(candles)-lookback:]
	prior := candles[len(candles)-lookback*2 : len(candles)-lookback]

	var priorBull, priorBear, recentBull, recentBear int
	for _, c := range prior {
		if c.IsBullish() {
			priorBull++
		} else if c.IsBearish() {
			priorBear++
		}
	}
	for _, c := range recent {
		if c.IsBullish() {
			recentBull++
		} else if c.IsBearish() {
			recentBear++
		}
	}

	if priorBear >= 2 && recentBull >= 3 {
		return BiasBullish
	}
	if priorBull >= 2 && recentBear >= 3 {
		return BiasBearish
	}
	return BiasNone
}
