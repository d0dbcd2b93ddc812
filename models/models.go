package models

import (
	"math"
	"time"
)

// Candle represents a single OHLCV price candle. Timestamp is epoch
// milliseconds of the candle open. Candles arrive ordered ascending by
// Timestamp from the fetcher and are never mutated after that.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume,omitempty"`
}

// BodySize returns the absolute distance between open and close.
func (c Candle) BodySize() float64 {
	return math.Abs(c.Close - c.Open)
}

// Range returns the full high-low span of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// UpperWick returns the distance from the body top to the high.
func (c Candle) UpperWick() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerWick returns the distance from the low to the body bottom.
func (c Candle) LowerWick() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// BodyRatio returns body size relative to the full range. A zero-range
// candle yields 0, never NaN.
func (c Candle) BodyRatio() float64 {
	r := c.Range()
	if r == 0 {
		return 0
	}
	return c.BodySize() / r
}

// IsBullish reports a strictly rising candle. A candle with close == open
// is neither bullish nor bearish.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports a strictly falling candle.
func (c Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Time returns the candle open time.
func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// SwingType labels a swing point relative to the prior structure.
type SwingType string

const (
	SwingHH SwingType = "HH" // higher high
	SwingHL SwingType = "HL" // higher low
	SwingLH SwingType = "LH" // lower high
	SwingLL SwingType = "LL" // lower low
)

// IsHigh reports whether the label marks a swing high.
func (s SwingType) IsHigh() bool {
	return s == SwingHH || s == SwingLH
}

// IsLow reports whether the label marks a swing low.
func (s SwingType) IsLow() bool {
	return s == SwingHL || s == SwingLL
}

// SwingPoint is a classified local extremum in a candle series. Index is
// the position in the series the point was detected on; points are always
// ordered ascending by Index.
type SwingPoint struct {
	Type      SwingType `json:"type"`
	Price     float64   `json:"price"`
	Index     int       `json:"index"`
	Timestamp int64     `json:"timestamp"`
}

// ZoneType distinguishes supply from demand zones.
type ZoneType string

const (
	ZoneSupply ZoneType = "supply"
	ZoneDemand ZoneType = "demand"
)

// Opposite returns the other zone type.
func (z ZoneType) Opposite() ZoneType {
	if z == ZoneSupply {
		return ZoneDemand
	}
	return ZoneSupply
}

// ZoneStrength grades how impulsive the move that created a zone was.
type ZoneStrength string

const (
	ZoneWeak     ZoneStrength = "weak"
	ZoneModerate ZoneStrength = "moderate"
	ZoneStrong   ZoneStrength = "strong"
)

// Zone is a supply or demand area anchored at the origin of an impulsive
// move. Top >= Bottom always. Mitigated is monotonic within one detection
// pass: once price has traded through the zone it stays mitigated.
type Zone struct {
	Type        ZoneType     `json:"type"`
	Top         float64      `json:"top"`
	Bottom      float64      `json:"bottom"`
	Strength    ZoneStrength `json:"strength"`
	Mitigated   bool         `json:"mitigated"`
	Timeframe   string       `json:"timeframe"`
	OriginIndex int          `json:"origin_index"`
}

// Mid returns the zone midpoint.
func (z Zone) Mid() float64 {
	return (z.Top + z.Bottom) / 2
}

// Size returns the zone height.
func (z Zone) Size() float64 {
	return z.Top - z.Bottom
}

// Contains reports whether price sits inside the zone, inclusive on both
// bounds.
func (z Zone) Contains(price float64) bool {
	return price >= z.Bottom && price <= z.Top
}

// Direction of a trade setup.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// EntryType tags which trigger pattern produced a setup.
type EntryType string

const (
	EntryCHoCH        EntryType = "choch"
	EntryZoneFlip     EntryType = "ds_sd_flip"
	EntryContinuation EntryType = "continuation"
)

// EntrySetup is a fully assembled trade setup. Immutable once constructed;
// Confirmations and Reasoning record every rule that fired, in firing order.
type EntrySetup struct {
	EntryType       EntryType `json:"entry_type"`
	Direction       Direction `json:"direction"`
	EntryZone       Zone      `json:"entry_zone"`
	EntryPrice      float64   `json:"entry_price"`
	StopLoss        float64   `json:"stop_loss"`
	TakeProfit      float64   `json:"take_profit"`
	RiskRewardRatio float64   `json:"risk_reward_ratio"`
	Confidence      int       `json:"confidence"`
	Confirmations   []string  `json:"confirmations"`
	Reasoning       []string  `json:"reasoning"`
}

// EntryResult wraps the outcome of entry detection. A negative result
// carries a nil Setup plus the reasoning that rejected it.
type EntryResult struct {
	HasValidEntry bool        `json:"has_valid_entry"`
	EntryType     EntryType   `json:"entry_type,omitempty"`
	Setup         *EntrySetup `json:"setup,omitempty"`
	Reasoning     []string    `json:"reasoning"`
}

// MarketControl is the higher-timeframe verdict on who drives price.
type MarketControl string

const (
	ControlDemand  MarketControl = "demand"
	ControlSupply  MarketControl = "supply"
	ControlNeutral MarketControl = "neutral"
)

// Trend is the swing-structure bias of a timeframe.
type Trend string

const (
	TrendBullish  Trend = "bullish"
	TrendBearish  Trend = "bearish"
	TrendSideways Trend = "sideways"
)

// MarketContext is the higher-timeframe analysis product: market control,
// trend, the unmitigated zones on each side and the nearest targets.
type MarketContext struct {
	Control             MarketControl `json:"control"`
	Trend               Trend         `json:"trend"`
	UnmitigatedSupply   []Zone        `json:"unmitigated_supply"`
	UnmitigatedDemand   []Zone        `json:"unmitigated_demand"`
	NearestSupplyTarget *Zone         `json:"nearest_supply_target,omitempty"`
	NearestDemandTarget *Zone         `json:"nearest_demand_target,omitempty"`
	SwingPoints         []SwingPoint  `json:"swing_points"`
	Reasoning           []string      `json:"reasoning"`
}

// ClarityScore grades how readable a timeframe's structure is, 0-100.
type ClarityScore struct {
	Score   int      `json:"score"`
	IsClear bool     `json:"is_clear"`
	Reasons []string `json:"reasons"`
}

// TimeframeSelection is the adaptive choice of context, entry and
// refinement timeframes for one analysis run.
type TimeframeSelection struct {
	Context        string       `json:"context"`
	Entry          string       `json:"entry"`
	Refine         string       `json:"refine"`
	ContextClarity ClarityScore `json:"context_clarity"`
	EntryClarity   ClarityScore `json:"entry_clarity"`
}

// MultiTimeframeData holds one instrument's candles across every timeframe
// the engine may select, plus the live price at fetch time.
type MultiTimeframeData struct {
	Instrument   string    `json:"instrument"`
	D1           []Candle  `json:"d1"`
	H4           []Candle  `json:"h4"`
	H2           []Candle  `json:"h2"`
	H1           []Candle  `json:"h1"`
	M30          []Candle  `json:"m30"`
	M15          []Candle  `json:"m15"`
	M5           []Candle  `json:"m5"`
	M3           []Candle  `json:"m3"`
	M1           []Candle  `json:"m1"`
	CurrentPrice float64   `json:"current_price"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// ByTimeframe returns the candle slice for an interval code, nil for an
// unknown code.
func (m *MultiTimeframeData) ByTimeframe(interval string) []Candle {
	switch interval {
	case Interval1Day:
		return m.D1
	case Interval4H:
		return m.H4
	case Interval2H:
		return m.H2
	case Interval1H:
		return m.H1
	case Interval30Min:
		return m.M30
	case Interval15Min:
		return m.M15
	case Interval5Min:
		return m.M5
	case Interval3Min:
		return m.M3
	case Interval1Min:
		return m.M1
	}
	return nil
}

// SignalStatus is the lifecycle state of a persisted signal. Watchlist
// signals are stored for monitoring but never notified.
type SignalStatus string

const (
	StatusActive    SignalStatus = "active"
	StatusWatchlist SignalStatus = "watchlist"
	StatusExpired   SignalStatus = "expired"
)

// Signal is the persisted and notified record wrapping an EntrySetup.
type Signal struct {
	ID              string             `json:"id"`
	Instrument      string             `json:"instrument"`
	Strategy        string             `json:"strategy"`
	Direction       Direction          `json:"direction"`
	EntryType       EntryType          `json:"entry_type"`
	EntryPrice      float64            `json:"entry_price"`
	StopLoss        float64            `json:"stop_loss"`
	TakeProfit      float64            `json:"take_profit"`
	RiskRewardRatio float64            `json:"risk_reward_ratio"`
	Confidence      int                `json:"confidence"`
	Confirmations   []string           `json:"confirmations"`
	Reasoning       []string           `json:"reasoning"`
	Timeframes      TimeframeSelection `json:"timeframes"`
	Status          SignalStatus       `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	ExpiresAt       time.Time          `json:"expires_at"`
}

// StrategyResult is what one strategy returns for one instrument. Signal is
// nil when the strategy declined; Reasoning explains either way. Pending
// carries near-miss setups destined for the watchlist.
type StrategyResult struct {
	Strategy  string    `json:"strategy"`
	Signal    *Signal   `json:"signal,omitempty"`
	Pending   []*Signal `json:"pending,omitempty"`
	Reasoning []string  `json:"reasoning"`
}

// Validation recommendation verdicts, strongest objection last.
const (
	RecommendationProceed = "proceed"
	RecommendationCaution = "caution"
	RecommendationSkip    = "skip"
)

// SignalValidation is an external verdict on a signal before it is
// persisted. ConfidenceAdjustment is bounded to [-20, 20] by the parser.
type SignalValidation struct {
	Validated            bool     `json:"validated"`
	ConfidenceAdjustment int      `json:"confidence_adjustment"`
	Concerns             []string `json:"concerns"`
	Strengths            []string `json:"strengths"`
	Recommendation       string   `json:"recommendation"`
	Reasoning            string   `json:"reasoning"`
}
