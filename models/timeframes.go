package models

// Interval codes follow the data provider's naming. H4, H2 and M3 are not
// served natively and are aggregated by the fetcher from H1 and M1.
const (
	Interval1Day  = "1day"
	Interval4H    = "4h"
	Interval2H    = "2h"
	Interval1H    = "1h"
	Interval30Min = "30min"
	Interval15Min = "15min"
	Interval5Min  = "5min"
	Interval3Min  = "3min"
	Interval1Min  = "1min"
)

// IntervalMinutes returns the candle duration in minutes for an interval
// code, 0 for an unknown code.
func IntervalMinutes(interval string) int {
	switch interval {
	case Interval1Min:
		return 1
	case Interval3Min:
		return 3
	case Interval5Min:
		return 5
	case Interval15Min:
		return 15
	case Interval30Min:
		return 30
	case Interval1H:
		return 60
	case Interval2H:
		return 2 * 60
	case Interval4H:
		return 4 * 60
	case Interval1Day:
		return 24 * 60
	}
	return 0
}
