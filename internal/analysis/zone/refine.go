package zone

import (
	"math"

	"signal-scanner/models"
)

const (
	minRefineCandles = 3
	minRefineShrink  = 0.1
)

// RefineZone tightens a zone using faster-timeframe candles. It applies
// only when at least three fast candles opened or closed inside the zone
// and the refined height shrinks by at least 10%; otherwise the original
// zone is returned unchanged. A refined zone never widens.
func RefineZone(z models.Zone, fastCandles []models.Candle) (models.Zone, bool) {
	if z.Size() <= 0 {
		return z, false
	}

	var inside []models.Candle
	for _, c := range fastCandles {
		if z.Contains(c.Close) || z.Contains(c.Open) {
			inside = append(inside, c)
		}
	}
	if len(inside) < minRefineCandles {
		return z, false
	}

	last3 := inside[len(inside)-3:]

	var top, bottom float64
	if z.Type == models.ZoneDemand {
		bottom = inside[0].Low
		for _, c := range inside[1:] {
			bottom = math.Min(bottom, c.Low)
		}
		top = last3[0].High
		for _, c := range last3[1:] {
			top = math.Min(top, c.High)
		}
	} else {
		top = inside[0].High
		for _, c := range inside[1:] {
			top = math.Max(top, c.High)
		}
		bottom = last3[0].Low
		for _, c := range last3[1:] {
			bottom = math.Max(bottom, c.Low)
		}
	}

	if top < bottom {
		top, bottom = bottom, top
	}

	shrink := 1 - (top-bottom)/z.Size()
	if shrink < minRefineShrink {
		return z, false
	}

	refined := z
	refined.Top = top
	refined.Bottom = bottom
	return refined, true
}
