package structure

import (
	"math"

	"signal-scanner/models"
)

// DefaultSwingLookback is the window used for higher-timeframe structure.
const DefaultSwingLookback = 5

// IsSwingHigh reports whether candle i's high is strictly greater than every
// high within lookback candles on both sides. Candles within lookback of
// either end never qualify.
func IsSwingHigh(candles []models.Candle, i, lookback int) bool {
	if i < lookback || i >= len(candles)-lookback {
		return false
	}
	for j := 1; j <= lookback; j++ {
		if candles[i-j].High >= candles[i].High || candles[i+j].High >= candles[i].High {
			return false
		}
	}
	return true
}

// IsSwingLow is the mirror of IsSwingHigh for lows.
func IsSwingLow(candles []models.Candle, i, lookback int) bool {
	if i < lookback || i >= len(candles)-lookback {
		return false
	}
	for j := 1; j <= lookback; j++ {
		if candles[i-j].Low <= candles[i].Low || candles[i+j].Low <= candles[i].Low {
			return false
		}
	}
	return true
}

type rawExtreme struct {
	price     float64
	index     int
	timestamp int64
	isHigh    bool
}

// DetectSwingPoints collects every qualifying swing high and low in index
// order and labels each in a single left-to-right pass against four running
// extremes. Every extremum is labeled exactly once, in original order, with
// no backtracking. minSwingSize > 0 drops extrema closer than that to the
// previously kept one.
func DetectSwingPoints(candles []models.Candle, lookback int, minSwingSize float64) []models.SwingPoint {
	if lookback <= 0 || len(candles) < lookback*2+1 {
		return nil
	}

	var raw []rawExtreme
	for i := lookback; i < len(candles)-lookback; i++ {
		isHigh := IsSwingHigh(candles, i, lookback)
		isLow := IsSwingLow(candles, i, lookback)
		if isHigh && isLow {
			// Outside bar qualifying on both sides keeps only the side
			// price rejected from, so indexes stay strictly increasing.
			if candles[i].IsBearish() {
				isLow = false
			} else {
				isHigh = false
			}
		}
		if isHigh {
			raw = append(raw, rawExtreme{
				price:     candles[i].High,
				index:     i,
				timestamp: candles[i].Timestamp,
				isHigh:    true,
			})
		}
		if isLow {
			raw = append(raw, rawExtreme{
				price:     candles[i].Low,
				index:     i,
				timestamp: candles[i].Timestamp,
				isHigh:    false,
			})
		}
	}

	if minSwingSize > 0 {
		filtered := raw[:0]
		for _, e := range raw {
			if len(filtered) > 0 && math.Abs(e.price-filtered[len(filtered)-1].price) < minSwingSize {
				continue
			}
			filtered = append(filtered, e)
		}
		raw = filtered
	}

	lastHigherHigh := math.Inf(-1)
	lastLowerLow := math.Inf(1)
	lastHigherLow := math.Inf(-1)
	lastLowerHigh := math.Inf(1)

	points := make([]models.SwingPoint, 0, len(raw))
	for _, e := range raw {
		var label models.SwingType
		if e.isHigh {
			switch {
			case e.price > lastHigherHigh:
				label = models.SwingHH
				lastHigherHigh = e.price
				lastLowerHigh = e.price
			case e.price < lastLowerHigh:
				label = models.SwingLH
				lastLowerHigh = e.price
			default:
				// Plateau: the high sits exactly on a prior level. Falls
				// back to LH without moving the running extremes.
				label = models.SwingLH
			}
		} else {
			switch {
			case e.price < lastLowerLow:
				label = models.SwingLL
				lastLowerLow = e.price
				lastHigherLow = e.price
			case e.price > lastHigherLow:
				label = models.SwingHL
				lastHigherLow = e.price
			default:
				// Plateau fallback for lows, mirror of the high side.
				label = models.SwingHL
			}
		}

		points = append(points, models.SwingPoint{
			Type:      label,
			Price:     e.price,
			Index:     e.index,
			Timestamp: e.timestamp,
		})
	}

	return points
}

// DetectTrendFromSwings derives the structural bias from the last six swing
// points. A bullish call needs the bullish labels to outnumber the bearish
// ones with at least one HH and one HL present; bearish mirrors. Fewer than
// four points is always sideways.
func DetectTrendFromSwings(points []models.SwingPoint) models.Trend {
	if len(points) < 4 {
		return models.TrendSideways
	}

	recent := points
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}

	var hh, hl, lh, ll int
	for _, p := range recent {
		switch p.Type {
		case models.SwingHH:
			hh++
		case models.SwingHL:
			hl++
		case models.SwingLH:
			lh++
		case models.SwingLL:
			ll++
		}
	}

	if hh+hl > lh+ll && hh >= 1 && hl >= 1 {
		return models.TrendBullish
	}
	if lh+ll > hh+hl && ll >= 1 && lh >= 1 {
		return models.TrendBearish
	}
	return models.TrendSideways
}

// BOS flags which side of the most recent structure price has traded
// through. Only the single most recent high and most recent low are
// checked, not every historical level.
type BOS struct {
	Bullish    bool    `json:"bullish"`
	BrokenHigh float64 `json:"broken_high,omitempty"`
	Bearish    bool    `json:"bearish"`
	BrokenLow  float64 `json:"broken_low,omitempty"`
}

// FindBrokenStructure compares the current price against the most recent
// swing high and the most recent swing low.
func FindBrokenStructure(points []models.SwingPoint, currentPrice float64) BOS {
	var bos BOS

	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Type.IsHigh() {
			if currentPrice > points[i].Price {
				bos.Bullish = true
				bos.BrokenHigh = points[i].Price
			}
			break
		}
	}

	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Type.IsLow() {
			if currentPrice < points[i].Price {
				bos.Bearish = true
				bos.BrokenLow = points[i].Price
			}
			break
		}
	}

	return bos
}
