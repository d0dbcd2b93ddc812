package instruments

// AssetClass groups instruments for market-hours gating and pip math.
type AssetClass string

const (
	AssetForex  AssetClass = "forex"
	AssetMetal  AssetClass = "metal"
	AssetIndex  AssetClass = "index"
	AssetCrypto AssetClass = "crypto"
)

// Instrument is one tradable symbol in the data provider's notation.
type Instrument struct {
	Symbol  string     `json:"symbol"`
	Name    string     `json:"name"`
	Class   AssetClass `json:"class"`
	PipSize float64    `json:"pip_size"`
	Watch   bool       `json:"watch"`
}

// IsCrypto reports whether the instrument trades around the clock.
func (i Instrument) IsCrypto() bool {
	return i.Class == AssetCrypto
}

// catalog is ordered; Watchlist preserves this order. Pip sizes follow the
// usual conventions: 0.0001 for forex, 0.01 for JPY quotes.
var catalog = []Instrument{
	{Symbol: "EUR/USD", Name: "Euro / US Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "GBP/USD", Name: "British Pound / US Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "USD/JPY", Name: "US Dollar / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "USD/CHF", Name: "US Dollar / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "AUD/USD", Name: "Australian Dollar / US Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "USD/CAD", Name: "US Dollar / Canadian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "NZD/USD", Name: "New Zealand Dollar / US Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "EUR/GBP", Name: "Euro / British Pound", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "EUR/JPY", Name: "Euro / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "GBP/JPY", Name: "British Pound / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "AUD/JPY", Name: "Australian Dollar / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "CAD/JPY", Name: "Canadian Dollar / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "CHF/JPY", Name: "Swiss Franc / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "NZD/JPY", Name: "New Zealand Dollar / Japanese Yen", Class: AssetForex, PipSize: 0.01, Watch: true},
	{Symbol: "EUR/AUD", Name: "Euro / Australian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "EUR/CAD", Name: "Euro / Canadian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "EUR/CHF", Name: "Euro / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "EUR/NZD", Name: "Euro / New Zealand Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "GBP/AUD", Name: "British Pound / Australian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "GBP/CAD", Name: "British Pound / Canadian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "GBP/CHF", Name: "British Pound / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "GBP/NZD", Name: "British Pound / New Zealand Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "AUD/CAD", Name: "Australian Dollar / Canadian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "AUD/CHF", Name: "Australian Dollar / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "AUD/NZD", Name: "Australian Dollar / New Zealand Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "CAD/CHF", Name: "Canadian Dollar / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "NZD/CAD", Name: "New Zealand Dollar / Canadian Dollar", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "NZD/CHF", Name: "New Zealand Dollar / Swiss Franc", Class: AssetForex, PipSize: 0.0001, Watch: true},
	{Symbol: "XAU/USD", Name: "Gold / US Dollar", Class: AssetMetal, PipSize: 0.1, Watch: true},
	{Symbol: "XAG/USD", Name: "Silver / US Dollar", Class: AssetMetal, PipSize: 0.01, Watch: true},
	{Symbol: "SPX", Name: "S&P 500 Index", Class: AssetIndex, PipSize: 1.0, Watch: true},
	{Symbol: "NDX", Name: "Nasdaq 100 Index", Class: AssetIndex, PipSize: 1.0, Watch: true},
	{Symbol: "DJI", Name: "Dow Jones Industrial Average", Class: AssetIndex, PipSize: 1.0, Watch: true},
	{Symbol: "DAX", Name: "DAX 40 Index", Class: AssetIndex, PipSize: 1.0, Watch: true},
	{Symbol: "BTC/USD", Name: "Bitcoin / US Dollar", Class: AssetCrypto, PipSize: 1.0, Watch: true},
	{Symbol: "ETH/USD", Name: "Ethereum / US Dollar", Class: AssetCrypto, PipSize: 0.1, Watch: true},
	{Symbol: "SOL/USD", Name: "Solana / US Dollar", Class: AssetCrypto, PipSize: 0.01, Watch: true},
	{Symbol: "XRP/USD", Name: "Ripple / US Dollar", Class: AssetCrypto, PipSize: 0.0001, Watch: true},
	{Symbol: "ADA/USD", Name: "Cardano / US Dollar", Class: AssetCrypto, PipSize: 0.0001, Watch: true},
	{Symbol: "DOGE/USD", Name: "Dogecoin / US Dollar", Class: AssetCrypto, PipSize: 0.0001, Watch: true},
	{Symbol: "BNB/USD", Name: "BNB / US Dollar", Class: AssetCrypto, PipSize: 0.01, Watch: true},
	{Symbol: "LTC/USD", Name: "Litecoin / US Dollar", Class: AssetCrypto, PipSize: 0.01, Watch: false},
	{Symbol: "DOT/USD", Name: "Polkadot / US Dollar", Class: AssetCrypto, PipSize: 0.001, Watch: false},
	{Symbol: "USD/SEK", Name: "US Dollar / Swedish Krona", Class: AssetForex, PipSize: 0.0001, Watch: false},
	{Symbol: "USD/NOK", Name: "US Dollar / Norwegian Krone", Class: AssetForex, PipSize: 0.0001, Watch: false},
	{Symbol: "USD/MXN", Name: "US Dollar / Mexican Peso", Class: AssetForex, PipSize: 0.0001, Watch: false},
}

var bySymbol = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, inst := range catalog {
		m[inst.Symbol] = i
	}
	return m
}()

// All returns the full catalog in order.
func All() []Instrument {
	out := make([]Instrument, len(catalog))
	copy(out, catalog)
	return out
}

// Watchlist returns the instruments the scanner polls.
func Watchlist() []Instrument {
	out := make([]Instrument, 0, len(catalog))
	for _, inst := range catalog {
		if inst.Watch {
			out = append(out, inst)
		}
	}
	return out
}

// Get looks up one instrument by provider symbol.
func Get(symbol string) (Instrument, bool) {
	i, ok := bySymbol[symbol]
	if !ok {
		return Instrument{}, false
	}
	return catalog[i], true
}

// PipSize returns the price increment of one pip, 0.0001 for symbols not in
// the catalog.
func PipSize(symbol string) float64 {
	if inst, ok := Get(symbol); ok {
		return inst.PipSize
	}
	return 0.0001
}
