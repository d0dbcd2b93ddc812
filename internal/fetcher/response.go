package fetcher

import (
	"fmt"
	"time"
)

// timeSeriesResponse is the provider's time_series payload. Prices arrive as
// JSON strings.
type timeSeriesResponse struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Interval string `json:"interval"`
	} `json:"meta"`
	Values []timeSeriesValue `json:"values"`
	Status string            `json:"status"`
}

type timeSeriesValue struct {
	Datetime string  `json:"datetime"`
	Open     float64 `json:"open,string"`
	High     float64 `json:"high,string"`
	Low      float64 `json:"low,string"`
	Close    float64 `json:"close,string"`
	Volume   float64 `json:"volume,string,omitempty"`
}

// priceResponse is the provider's /price payload.
type priceResponse struct {
	Price float64 `json:"price,string"`
}

// Intraday rows carry a full timestamp, daily rows a bare date.
var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDatetime converts a provider datetime string to epoch milliseconds UTC.
func parseDatetime(s string) (int64, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized datetime %q", s)
}
