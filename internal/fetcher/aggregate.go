package fetcher

import "signal-scanner/models"

// AggregateCandles rolls consecutive candles up into bars of groupSize.
// Grouping is anchored at the newest candle so the most recent bar is always
// complete; a partial group at the old end of the series is discarded. Each
// bar takes the first candle's open and timestamp, the last candle's close,
// the extreme high/low and the summed volume.
func AggregateCandles(candles []models.Candle, groupSize int) []models.Candle {
	if groupSize <= 1 {
		return candles
	}
	if len(candles) < groupSize {
		return nil
	}

	start := len(candles) % groupSize
	out := make([]models.Candle, 0, (len(candles)-start)/groupSize)
	for i := start; i+groupSize <= len(candles); i += groupSize {
		group := candles[i : i+groupSize]
		bar := models.Candle{
			Timestamp: group[0].Timestamp,
			Open:      group[0].Open,
			Close:     group[len(group)-1].Close,
			High:      group[0].High,
			Low:       group[0].Low,
		}
		for _, c := range group {
			if c.High > bar.High {
				bar.High = c.High
			}
			if c.Low < bar.Low {
				bar.Low = c.Low
			}
			bar.Volume += c.Volume
		}
		out = append(out, bar)
	}
	return out
}
