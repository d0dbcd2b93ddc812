package fetcher

import (
	"testing"

	"signal-scanner/models"
)

func hourlyCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: int64(i) * 3_600_000,
			Open:      float64(10 + i),
			High:      float64(20 + i),
			Low:       float64(5 + i),
			Close:     float64(15 + i),
			Volume:    100,
		}
	}
	return candles
}

func TestAggregateCandlesDropsPartialOldestGroup(t *testing.T) {
	// Nine hourly bars grouped by four: the oldest bar cannot fill a
	// group, so aggregation starts at index 1.
	got := AggregateCandles(hourlyCandles(9), 4)
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}

	first := got[0]
	if first.Timestamp != 3_600_000 {
		t.Errorf("first bar timestamp = %d, want 3600000", first.Timestamp)
	}
	if first.Open != 11 || first.Close != 19 {
		t.Errorf("first bar open/close = %v/%v, want 11/19", first.Open, first.Close)
	}
	if first.High != 24 || first.Low != 6 {
		t.Errorf("first bar high/low = %v/%v, want 24/6", first.High, first.Low)
	}
	if first.Volume != 400 {
		t.Errorf("first bar volume = %v, want 400", first.Volume)
	}

	second := got[1]
	if second.Timestamp != 18_000_000 {
		t.Errorf("second bar timestamp = %d, want 18000000", second.Timestamp)
	}
	if second.Open != 15 || second.Close != 23 || second.High != 28 || second.Low != 10 {
		t.Errorf("second bar OHLC = %v/%v/%v/%v, want 15/28/10/23",
			second.Open, second.High, second.Low, second.Close)
	}
}

func TestAggregateCandlesExactMultiple(t *testing.T) {
	got := AggregateCandles(hourlyCandles(6), 3)
	if len(got) != 2 {
		t.Fatalf("got %d bars, want 2", len(got))
	}
	if got[0].Timestamp != 0 || got[0].Open != 10 || got[0].Close != 17 {
		t.Errorf("first bar = %+v, want open 10 close 17 at timestamp 0", got[0])
	}
	if got[1].Open != 13 || got[1].Close != 20 {
		t.Errorf("second bar open/close = %v/%v, want 13/20", got[1].Open, got[1].Close)
	}
}

func TestAggregateCandlesEdges(t *testing.T) {
	candles := hourlyCandles(5)

	if got := AggregateCandles(candles, 1); len(got) != 5 {
		t.Errorf("group size 1 returned %d bars, want the input unchanged", len(got))
	}
	if got := AggregateCandles(candles, 6); got != nil {
		t.Errorf("group size beyond input returned %d bars, want nil", len(got))
	}
	if got := AggregateCandles(nil, 4); got != nil {
		t.Errorf("nil input returned %d bars, want nil", len(got))
	}
}
