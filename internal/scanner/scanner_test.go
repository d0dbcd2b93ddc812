package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"signal-scanner/internal/instruments"
	"signal-scanner/internal/strategy"
	"signal-scanner/models"
)

type stubSource struct {
	fetched  []string
	fetchErr map[string]error
}

func (s *stubSource) GetCandles(ctx context.Context, symbol, interval string, count int) ([]models.Candle, error) {
	return nil, nil
}

func (s *stubSource) GetPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}

func (s *stubSource) FetchAll(ctx context.Context, symbol string) (*models.MultiTimeframeData, error) {
	s.fetched = append(s.fetched, symbol)
	if err := s.fetchErr[symbol]; err != nil {
		return nil, err
	}
	return &models.MultiTimeframeData{Instrument: symbol}, nil
}

type stubStore struct {
	saved     []*models.Signal
	recentFor map[string]bool
}

func (s *stubStore) SaveSignal(ctx context.Context, sig *models.Signal) error {
	s.saved = append(s.saved, sig)
	return nil
}

func (s *stubStore) RecentSignalExists(ctx context.Context, instrument string, since time.Time) (bool, error) {
	return s.recentFor[instrument], nil
}

type stubNotifier struct {
	sent    []*models.Signal
	sendErr error
}

func (s *stubNotifier) SendSignal(ctx context.Context, sig *models.Signal) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, sig)
	return nil
}

// stubValidator replays a canned verdict per instrument. A nil verdict
// with no error mimics a disabled review.
type stubValidator struct {
	verdicts map[string]*models.SignalValidation
	err      error
	reviewed []string
}

func (s *stubValidator) Validate(ctx context.Context, sig *models.Signal) (*models.SignalValidation, error) {
	s.reviewed = append(s.reviewed, sig.Instrument)
	if s.err != nil {
		return nil, s.err
	}
	return s.verdicts[sig.Instrument], nil
}

// stubStrategy signals with a fixed confidence for the symbols it knows and
// declines everything else. Symbols in pending come back as watchlist
// candidates instead.
type stubStrategy struct {
	confidences map[string]int
	pending     map[string]int
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Analyze(ctx context.Context, data *models.MultiTimeframeData) (*models.StrategyResult, error) {
	if conf, ok := s.pending[data.Instrument]; ok {
		return &models.StrategyResult{
			Strategy: "stub",
			Pending: []*models.Signal{{
				ID:         data.Instrument + "-pending",
				Instrument: data.Instrument,
				Strategy:   "stub",
				Confidence: conf,
				Status:     models.StatusWatchlist,
			}},
		}, nil
	}
	conf, ok := s.confidences[data.Instrument]
	if !ok {
		return &models.StrategyResult{Strategy: "stub", Reasoning: []string{"no setup"}}, nil
	}
	return &models.StrategyResult{
		Strategy: "stub",
		Signal: &models.Signal{
			ID:         data.Instrument + "-sig",
			Instrument: data.Instrument,
			Strategy:   "stub",
			Confidence: conf,
			Status:     models.StatusActive,
		},
	}, nil
}

func newTestScanner(src *stubSource, store *stubStore, notifier *stubNotifier, confidences map[string]int) *Scanner {
	return newTestScannerWith(src, store, notifier, nil, &stubStrategy{confidences: confidences})
}

func newTestScannerWith(src *stubSource, store *stubStore, notifier *stubNotifier, validator models.SignalValidator, strat *stubStrategy) *Scanner {
	reg := strategy.NewRegistry()
	reg.Register(strat)
	sc := New(src, reg, store, notifier, validator, Config{
		Interval:           time.Hour,
		Cooldown:           2 * time.Hour,
		MinConfidence:      60,
		MaxSignalsPerCycle: 3,
	})
	// Wednesday noon UTC, forex open.
	sc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }
	return sc
}

func TestScanOnceKeepsTopSignalsByConfidence(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	sc := newTestScanner(src, store, notifier, map[string]int{
		"EUR/USD": 80,
		"GBP/USD": 90,
		"XAU/USD": 70,
		"BTC/USD": 95,
	})

	got := sc.ScanOnce(context.Background())
	if len(got) != 3 {
		t.Fatalf("dispatched %d signals, want 3", len(got))
	}
	wantOrder := []string{"BTC/USD", "GBP/USD", "EUR/USD"}
	for i, want := range wantOrder {
		if got[i].Instrument != want {
			t.Errorf("signal %d = %s, want %s", i, got[i].Instrument, want)
		}
	}
	if len(store.saved) != 3 || len(notifier.sent) != 3 {
		t.Errorf("saved %d, notified %d, want 3 and 3", len(store.saved), len(notifier.sent))
	}
}

func TestScanOnceHonorsCooldown(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{recentFor: map[string]bool{"EUR/USD": true}}
	notifier := &stubNotifier{}
	sc := newTestScanner(src, store, notifier, map[string]int{"EUR/USD": 80, "GBP/USD": 75})

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Instrument != "GBP/USD" {
		t.Fatalf("dispatched = %+v, want only GBP/USD", got)
	}
	for _, sym := range src.fetched {
		if sym == "EUR/USD" {
			t.Error("fetched EUR/USD despite active cooldown")
		}
	}
}

func TestScanOnceSkipsClosedForex(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	sc := newTestScanner(src, store, notifier, map[string]int{"EUR/USD": 80, "BTC/USD": 70})
	// Saturday, forex closed.
	sc.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Instrument != "BTC/USD" {
		t.Fatalf("dispatched = %+v, want only BTC/USD", got)
	}
	for _, sym := range src.fetched {
		if inst, ok := instruments.Get(sym); !ok || !inst.IsCrypto() {
			t.Errorf("fetched %s while forex closed", sym)
		}
	}
}

func TestScanOnceFiltersAndSurvivesErrors(t *testing.T) {
	src := &stubSource{fetchErr: map[string]error{"GBP/USD": errors.New("provider down")}}
	store := &stubStore{}
	notifier := &stubNotifier{sendErr: errors.New("telegram down")}
	sc := newTestScanner(src, store, notifier, map[string]int{
		"EUR/USD": 50,
		"GBP/USD": 90,
		"XAU/USD": 65,
	})

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Instrument != "XAU/USD" {
		t.Fatalf("dispatched = %+v, want only XAU/USD", got)
	}
	if len(store.saved) != 1 {
		t.Errorf("saved %d signals, want 1", len(store.saved))
	}
	if len(notifier.sent) != 0 {
		t.Errorf("notified %d signals, want 0 with a failing notifier", len(notifier.sent))
	}
}

func TestScanOnceSavesWatchlistWithoutNotifying(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	strat := &stubStrategy{
		confidences: map[string]int{"EUR/USD": 80},
		pending:     map[string]int{"GBP/USD": 45},
	}
	sc := newTestScannerWith(src, store, notifier, nil, strat)

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Instrument != "EUR/USD" {
		t.Fatalf("dispatched = %+v, want only the active EUR/USD signal", got)
	}

	if len(store.saved) != 2 {
		t.Fatalf("saved %d signals, want the active one plus the watchlist entry", len(store.saved))
	}
	var watchlist *models.Signal
	for _, sig := range store.saved {
		if sig.Status == models.StatusWatchlist {
			watchlist = sig
		}
	}
	if watchlist == nil || watchlist.Instrument != "GBP/USD" || watchlist.Confidence != 45 {
		t.Fatalf("watchlist entry = %+v, want GBP/USD at 45", watchlist)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].Instrument != "EUR/USD" {
		t.Errorf("notified = %+v, watchlist entries must never be notified", notifier.sent)
	}
}

func TestScanOnceValidatorSkipBlocksSaveAndNotify(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	validator := &stubValidator{verdicts: map[string]*models.SignalValidation{
		"EUR/USD": {Recommendation: models.RecommendationSkip, Reasoning: "choppy market"},
	}}
	strat := &stubStrategy{confidences: map[string]int{"EUR/USD": 80, "GBP/USD": 75}}
	sc := newTestScannerWith(src, store, notifier, validator, strat)

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Instrument != "GBP/USD" {
		t.Fatalf("dispatched = %+v, want only GBP/USD after the skip verdict", got)
	}
	for _, sig := range store.saved {
		if sig.Instrument == "EUR/USD" {
			t.Error("skipped signal was persisted")
		}
	}
	for _, sig := range notifier.sent {
		if sig.Instrument == "EUR/USD" {
			t.Error("skipped signal was notified")
		}
	}
	if len(validator.reviewed) != 2 {
		t.Errorf("validator reviewed %d signals, want 2", len(validator.reviewed))
	}
}

func TestScanOnceValidatorAdjustsConfidence(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	validator := &stubValidator{verdicts: map[string]*models.SignalValidation{
		"EUR/USD": {Validated: true, Recommendation: models.RecommendationProceed, ConfidenceAdjustment: 15},
		"GBP/USD": {Recommendation: models.RecommendationCaution, ConfidenceAdjustment: -10},
	}}
	strat := &stubStrategy{confidences: map[string]int{"EUR/USD": 90, "GBP/USD": 70}}
	sc := newTestScannerWith(src, store, notifier, validator, strat)

	got := sc.ScanOnce(context.Background())
	if len(got) != 2 {
		t.Fatalf("dispatched %d signals, want 2", len(got))
	}
	byInstrument := map[string]int{}
	for _, sig := range store.saved {
		byInstrument[sig.Instrument] = sig.Confidence
	}
	// 90 + 15 stays within the post-review 100 ceiling, 70 - 10 drops.
	if byInstrument["EUR/USD"] != 100 {
		t.Errorf("EUR/USD confidence = %d, want 100 after a +15 capped adjustment", byInstrument["EUR/USD"])
	}
	if byInstrument["GBP/USD"] != 60 {
		t.Errorf("GBP/USD confidence = %d, want 60 after a -10 adjustment", byInstrument["GBP/USD"])
	}
}

func TestScanOnceValidatorFailureIsFailOpen(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	validator := &stubValidator{err: errors.New("validator down")}
	strat := &stubStrategy{confidences: map[string]int{"EUR/USD": 80}}
	sc := newTestScannerWith(src, store, notifier, validator, strat)

	got := sc.ScanOnce(context.Background())
	if len(got) != 1 || got[0].Confidence != 80 {
		t.Fatalf("dispatched = %+v, want EUR/USD untouched when the review fails", got)
	}
	if len(store.saved) != 1 || len(notifier.sent) != 1 {
		t.Errorf("saved %d, notified %d, want 1 and 1", len(store.saved), len(notifier.sent))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &stubSource{}
	store := &stubStore{}
	notifier := &stubNotifier{}
	sc := newTestScanner(src, store, notifier, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sc.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
