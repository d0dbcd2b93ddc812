package models

import (
	"context"
	"time"
)

// CandleSource supplies candles and live prices for one instrument at a
// time. Implementations must return candles ordered ascending by timestamp.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol, interval string, count int) ([]Candle, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
	FetchAll(ctx context.Context, symbol string) (*MultiTimeframeData, error)
}

// SignalStore persists signals and answers cooldown queries.
type SignalStore interface {
	SaveSignal(ctx context.Context, sig *Signal) error
	RecentSignalExists(ctx context.Context, instrument string, since time.Time) (bool, error)
}

// SignalNotifier pushes a signal to the outside world.
type SignalNotifier interface {
	SendSignal(ctx context.Context, sig *Signal) error
}

// SignalValidator reviews a signal before it is persisted. A nil verdict
// with a nil error means validation was unavailable and the signal proceeds
// as-is.
type SignalValidator interface {
	Validate(ctx context.Context, sig *Signal) (*SignalValidation, error)
}
