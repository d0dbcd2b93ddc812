package markethours

import "time"

// Session is a trading session window in whole UTC hours. Close may be
// smaller than Open for windows that wrap midnight.
type Session struct {
	Name  string
	Open  int
	Close int
}

// Approximate UTC session windows, ignoring daylight-saving drift.
var sessions = []Session{
	{Name: "Sydney", Open: 21, Close: 6},
	{Name: "Tokyo", Open: 0, Close: 9},
	{Name: "London", Open: 7, Close: 16},
	{Name: "New York", Open: 12, Close: 21},
}

// The forex week runs Sunday 22:00 UTC through Friday 22:00 UTC.
const (
	weekOpenHour  = 22
	weekCloseHour = 22
)

func (s Session) contains(hour int) bool {
	if s.Open < s.Close {
		return hour >= s.Open && hour < s.Close
	}
	return hour >= s.Open || hour < s.Close
}

// ActiveSessions names the sessions whose window covers t. It ignores the
// weekend gap; combine with IsForexOpen for tradability.
func ActiveSessions(t time.Time) []string {
	hour := t.UTC().Hour()
	var names []string
	for _, s := range sessions {
		if s.contains(hour) {
			names = append(names, s.Name)
		}
	}
	return names
}

// IsForexOpen reports whether the 24/5 forex market is trading at t.
// Metals and index CFDs follow the same gate.
func IsForexOpen(t time.Time) bool {
	u := t.UTC()
	switch u.Weekday() {
	case time.Saturday:
		return false
	case time.Friday:
		return u.Hour() < weekCloseHour
	case time.Sunday:
		return u.Hour() >= weekOpenHour
	default:
		return true
	}
}

// IsCryptoOpen exists for symmetry; crypto never closes.
func IsCryptoOpen(time.Time) bool {
	return true
}
