package clarity

import (
	"strings"
	"testing"

	"signal-scanner/models"
)

// trendingCandles prints a clean one-way tape: decisive bodies, wicks
// leaning down, steady ranges.
func trendingCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		open := 100 + 0.5*float64(i)
		candles[i] = models.Candle{
			Open:      open,
			Close:     open + 0.8,
			High:      open + 0.9,
			Low:       open - 0.05,
			Timestamp: int64(i) * 3600_000,
		}
	}
	return candles
}

// choppyCandles prints near-doji bars with equal highs and lows.
func choppyCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		c := models.Candle{Open: 100, Close: 100.05, High: 101, Low: 99, Timestamp: int64(i) * 3600_000}
		if i%2 == 1 {
			c.Open, c.Close = c.Close, c.Open
		}
		candles[i] = c
	}
	return candles
}

func TestScoreTrendingTape(t *testing.T) {
	got := Score(trendingCandles(40))

	if got.Score != 100 {
		t.Errorf("score = %d, want 100 for a clean one-way tape: %v", got.Score, got.Reasons)
	}
	if !got.IsClear {
		t.Error("IsClear = false, want true")
	}
}

func TestScoreChoppyTape(t *testing.T) {
	got := Score(choppyCandles(40))

	// Only the steady-volatility component applies to uniform doji bars.
	if got.Score != 25 {
		t.Errorf("score = %d, want 25: %v", got.Score, got.Reasons)
	}
	if got.IsClear {
		t.Errorf("IsClear = true for a choppy tape: %v", got.Reasons)
	}
}

func TestScoreInsufficientData(t *testing.T) {
	got := Score(trendingCandles(10))

	if got.Score != 0 || got.IsClear {
		t.Errorf("Score() = %d clear=%v for 10 candles, want 0 and not clear", got.Score, got.IsClear)
	}
	if len(got.Reasons) == 0 || !strings.Contains(got.Reasons[0], "insufficient") {
		t.Errorf("reasons = %v, want an insufficient-data note", got.Reasons)
	}
}

func TestSelectTimeframesPreferred(t *testing.T) {
	data := &models.MultiTimeframeData{
		H4:  trendingCandles(40),
		H2:  choppyCandles(40),
		H1:  choppyCandles(40),
		M30: choppyCandles(40),
		M15: trendingCandles(40),
		M5:  choppyCandles(40),
	}

	sel := SelectTimeframes(data)

	if sel.Context != models.Interval4H {
		t.Errorf("context = %s, want %s when the 4h tape is clear", sel.Context, models.Interval4H)
	}
	if sel.Entry != models.Interval15Min {
		t.Errorf("entry = %s, want %s", sel.Entry, models.Interval15Min)
	}
	if sel.Refine != models.Interval3Min {
		t.Errorf("refine = %s, want %s when the 5m tape is unclear", sel.Refine, models.Interval3Min)
	}
	if !sel.ContextClarity.IsClear || !sel.EntryClarity.IsClear {
		t.Error("chosen frames must carry their clarity scores")
	}
}

func TestSelectTimeframesFallback(t *testing.T) {
	data := &models.MultiTimeframeData{
		H4:  choppyCandles(40),
		H2:  choppyCandles(40),
		H1:  choppyCandles(40),
		M30: choppyCandles(40),
		M15: choppyCandles(40),
		M5:  trendingCandles(40),
	}

	sel := SelectTimeframes(data)

	if sel.Context != models.Interval1H {
		t.Errorf("context = %s, want the %s fallback", sel.Context, models.Interval1H)
	}
	if sel.Entry != models.Interval30Min {
		t.Errorf("entry = %s, want %s when 15m is unclear", sel.Entry, models.Interval30Min)
	}
	if sel.Refine != models.Interval5Min {
		t.Errorf("refine = %s, want %s when the 5m tape is clear", sel.Refine, models.Interval5Min)
	}
}
