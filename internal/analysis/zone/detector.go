package zone

import (
	"math"

	"signal-scanner/models"
)

// Impulse thresholds for zone formation. A zone is anchored at the candle
// before an impulsive move: dominant body and at least 1.5x the previous
// candle's body.
const (
	impulseBodyRatio    = 0.6
	impulseBodyMultiple = 1.5

	strongBodyRatio   = 0.75
	moderateBodyRatio = 0.65
	strongRangeFactor = 2.0

	minCandles = 10
)

// Direction selects which side of price NearestZone searches.
type Direction int

const (
	Above Direction = iota
	Below
)

// DetectZones derives supply and demand zones from impulsive moves on one
// timeframe. A bullish impulse anchors a demand zone at the previous
// candle, a bearish impulse a supply zone. Each zone is then scanned
// forward for mitigation: the first later candle whose range overlaps the
// zone flags it, and the flag is never cleared within the pass.
func DetectZones(candles []models.Candle, timeframe string) []models.Zone {
	if len(candles) < minCandles {
		return nil
	}

	avgRange := 0.0
	for _, c := range candles {
		avgRange += c.Range()
	}
	avgRange /= float64(len(candles))

	var zones []models.Zone
	for i := 2; i < len(candles)-1; i++ {
		c := candles[i]
		prev := candles[i-1]

		if c.BodyRatio() < impulseBodyRatio {
			continue
		}
		if c.BodySize() <= prev.BodySize()*impulseBodyMultiple {
			continue
		}

		var z models.Zone
		if c.IsBullish() {
			z = models.Zone{
				Type:        models.ZoneDemand,
				Top:         prev.High,
				Bottom:      math.Min(prev.Low, candles[i-2].Low),
				Strength:    gradeStrength(c, avgRange),
				Timeframe:   timeframe,
				OriginIndex: i - 1,
			}
		} else {
			z = models.Zone{
				Type:        models.ZoneSupply,
				Top:         math.Max(prev.High, candles[i-2].High),
				Bottom:      prev.Low,
				Strength:    gradeStrength(c, avgRange),
				Timeframe:   timeframe,
				OriginIndex: i - 1,
			}
		}

		for j := i + 1; j < len(candles); j++ {
			if candles[j].Low <= z.Top && candles[j].High >= z.Bottom {
				z.Mitigated = true
				break
			}
		}

		zones = append(zones, z)
	}

	return zones
}

func gradeStrength(impulse models.Candle, avgRange float64) models.ZoneStrength {
	if impulse.BodyRatio() >= strongBodyRatio || (avgRange > 0 && impulse.Range() >= avgRange*strongRangeFactor) {
		return models.ZoneStrong
	}
	if impulse.BodyRatio() >= moderateBodyRatio {
		return models.ZoneModerate
	}
	return models.ZoneWeak
}

// UnmitigatedZones filters out zones price has already traded through.
func UnmitigatedZones(zones []models.Zone) []models.Zone {
	var fresh []models.Zone
	for _, z := range zones {
		if !z.Mitigated {
			fresh = append(fresh, z)
		}
	}
	return fresh
}

// ZonesByType keeps only supply or only demand zones.
func ZonesByType(zones []models.Zone, typ models.ZoneType) []models.Zone {
	var out []models.Zone
	for _, z := range zones {
		if z.Type == typ {
			out = append(out, z)
		}
	}
	return out
}

// NearestZone returns the zone closest to price whose full range sits
// strictly above or strictly below it, nil when no zone is on that side.
func NearestZone(zones []models.Zone, price float64, dir Direction) *models.Zone {
	var nearest *models.Zone
	for i := range zones {
		z := zones[i]
		switch dir {
		case Above:
			if z.Bottom <= price {
				continue
			}
			if nearest == nil || z.Bottom < nearest.Bottom {
				nearest = &zones[i]
			}
		case Below:
			if z.Top >= price {
				continue
			}
			if nearest == nil || z.Top > nearest.Top {
				nearest = &zones[i]
			}
		}
	}
	return nearest
}

// PriceInZone reports whether price sits inside the zone, inclusive on
// both bounds.
func PriceInZone(price float64, z models.Zone) bool {
	return z.Contains(price)
}
