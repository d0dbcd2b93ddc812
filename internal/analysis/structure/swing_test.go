package structure

import (
	"reflect"
	"testing"

	"signal-scanner/models"
)

// zigzagCandles builds an alternating peak/valley series whose extrema are
// unambiguous with lookback 1.
func zigzagCandles() []models.Candle {
	bars := []struct{ high, low float64 }{
		{105, 101},
		{110, 102}, // swing high 110
		{104, 100}, // swing low 100
		{108, 103.5}, // swing high 108
		{105, 103}, // swing low 103
		{112, 104}, // swing high 112
		{106, 98}, // swing low 98
		{107, 99},
	}
	candles := make([]models.Candle, len(bars))
	for i, b := range bars {
		candles[i] = models.Candle{
			Timestamp: int64(i) * 60_000,
			Open:      b.low + 0.1,
			High:      b.high,
			Low:       b.low,
			Close:     b.high - 0.1,
		}
	}
	return candles
}

func TestDetectSwingPointsClassification(t *testing.T) {
	points := DetectSwingPoints(zigzagCandles(), 1, 0)

	expected := []struct {
		typ   models.SwingType
		price float64
		index int
	}{
		{models.SwingHH, 110, 1},
		{models.SwingLL, 100, 2},
		{models.SwingLH, 108, 3},
		{models.SwingHL, 103, 4},
		{models.SwingHH, 112, 5},
		{models.SwingLL, 98, 6},
	}

	if len(points) != len(expected) {
		t.Fatalf("DetectSwingPoints() returned %d points, want %d: %+v", len(points), len(expected), points)
	}
	for i, want := range expected {
		got := points[i]
		if got.Type != want.typ || got.Price != want.price || got.Index != want.index {
			t.Errorf("point %d = {%s %.1f @%d}, want {%s %.1f @%d}",
				i, got.Type, got.Price, got.Index, want.typ, want.price, want.index)
		}
	}
}

func TestDetectSwingPointsPlateauFallback(t *testing.T) {
	bars := []struct{ high, low float64 }{
		{105, 101},
		{110, 102}, // swing high 110 -> HH
		{104, 100}, // swing low 100 -> LL
		{110, 103}, // equal high 110 -> neither new HH nor lower high
		{106, 104},
	}
	candles := make([]models.Candle, len(bars))
	for i, b := range bars {
		candles[i] = models.Candle{Open: b.low + 0.1, High: b.high, Low: b.low, Close: b.high - 0.1}
	}

	points := DetectSwingPoints(candles, 1, 0)
	if len(points) != 3 {
		t.Fatalf("DetectSwingPoints() returned %d points, want 3: %+v", len(points), points)
	}
	if points[2].Type != models.SwingLH {
		t.Errorf("plateau high labeled %s, want LH fallback", points[2].Type)
	}
}

func TestDetectSwingPointsProperties(t *testing.T) {
	candles := zigzagCandles()
	lookback := 1

	points := DetectSwingPoints(candles, lookback, 0)

	for i, p := range points {
		if p.Index < lookback || p.Index >= len(candles)-lookback {
			t.Errorf("point %d at index %d violates boundary exclusion (lookback %d, len %d)",
				i, p.Index, lookback, len(candles))
		}
		if i > 0 && p.Index <= points[i-1].Index {
			t.Errorf("indexes not strictly increasing: %d after %d", p.Index, points[i-1].Index)
		}
		switch p.Type {
		case models.SwingHH, models.SwingHL, models.SwingLH, models.SwingLL:
		default:
			t.Errorf("point %d has unknown type %q", i, p.Type)
		}
	}

	again := DetectSwingPoints(candles, lookback, 0)
	if !reflect.DeepEqual(points, again) {
		t.Error("DetectSwingPoints() is not deterministic for identical input")
	}
}

func TestDetectSwingPointsOutsideBar(t *testing.T) {
	bars := []models.Candle{
		{Open: 101.5, High: 105, Low: 101, Close: 104},
		{Open: 100.5, High: 106, Low: 100, Close: 105},
		{Open: 115, High: 120, Low: 90, Close: 95}, // bearish outside bar
		{Open: 100, High: 107, Low: 99, Close: 106},
		{Open: 101.5, High: 105, Low: 101, Close: 104},
	}

	points := DetectSwingPoints(bars, 1, 0)
	if len(points) != 1 {
		t.Fatalf("DetectSwingPoints() returned %d points, want 1: %+v", len(points), points)
	}
	if points[0].Index != 2 || points[0].Price != 120 || !points[0].Type.IsHigh() {
		t.Errorf("outside bar kept %+v, want the rejected high at index 2", points[0])
	}
}

func TestDetectSwingPointsInsufficientData(t *testing.T) {
	candles := zigzagCandles()[:5]
	if points := DetectSwingPoints(candles, 5, 0); points != nil {
		t.Errorf("DetectSwingPoints() = %+v for short series, want nil", points)
	}
}

func TestDetectTrendFromSwings(t *testing.T) {
	mk := func(types ...models.SwingType) []models.SwingPoint {
		points := make([]models.SwingPoint, len(types))
		for i, typ := range types {
			points[i] = models.SwingPoint{Type: typ, Index: i}
		}
		return points
	}

	tests := []struct {
		name     string
		points   []models.SwingPoint
		expected models.Trend
	}{
		{
			name:     "higher highs and higher lows",
			points:   mk(models.SwingHH, models.SwingHL, models.SwingHH, models.SwingHL),
			expected: models.TrendBullish,
		},
		{
			name:     "lower lows and lower highs",
			points:   mk(models.SwingLL, models.SwingLH, models.SwingLL, models.SwingLH),
			expected: models.TrendBearish,
		},
		{
			name:     "too few points",
			points:   mk(models.SwingHH, models.SwingHL, models.SwingHH),
			expected: models.TrendSideways,
		},
		{
			name:     "balanced structure",
			points:   mk(models.SwingHH, models.SwingLL, models.SwingLH, models.SwingHL),
			expected: models.TrendSideways,
		},
		{
			name:     "majority without a higher high",
			points:   mk(models.SwingHL, models.SwingHL, models.SwingHL, models.SwingHL),
			expected: models.TrendSideways,
		},
		{
			name: "only the last six points count",
			points: mk(models.SwingLL, models.SwingLH,
				models.SwingHH, models.SwingHL, models.SwingHH, models.SwingHL, models.SwingHH, models.SwingHL),
			expected: models.TrendBullish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectTrendFromSwings(tt.points); got != tt.expected {
				t.Errorf("DetectTrendFromSwings() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFindBrokenStructure(t *testing.T) {
	points := []models.SwingPoint{
		{Type: models.SwingHH, Price: 110, Index: 1},
		{Type: models.SwingLL, Price: 100, Index: 2},
		{Type: models.SwingLH, Price: 108, Index: 3},
		{Type: models.SwingHL, Price: 103, Index: 4},
	}

	tests := []struct {
		name            string
		price           float64
		bullish, bearish bool
	}{
		{name: "break above recent high", price: 109, bullish: true},
		{name: "break below recent low", price: 102, bearish: true},
		{name: "inside structure", price: 105},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bos := FindBrokenStructure(points, tt.price)
			if bos.Bullish != tt.bullish || bos.Bearish != tt.bearish {
				t.Errorf("FindBrokenStructure(%v) = %+v, want bullish=%v bearish=%v",
					tt.price, bos, tt.bullish, tt.bearish)
			}
		})
	}

	t.Run("only the most recent levels count", func(t *testing.T) {
		// 109 is above the older HH at 110? No: it only beats the recent LH at 108.
		bos := FindBrokenStructure(points, 109)
		if !bos.Bullish || bos.BrokenHigh != 108 {
			t.Errorf("FindBrokenStructure(109) = %+v, want break of the most recent high 108", bos)
		}
	})

	t.Run("no points", func(t *testing.T) {
		bos := FindBrokenStructure(nil, 100)
		if bos.Bullish || bos.Bearish {
			t.Errorf("FindBrokenStructure(nil) = %+v, want no breaks", bos)
		}
	})
}
