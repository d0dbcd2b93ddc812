package zone

import (
	"testing"

	"signal-scanner/models"
)

func TestRefineZoneDemand(t *testing.T) {
	z := models.Zone{Type: models.ZoneDemand, Top: 102, Bottom: 100, Strength: models.ZoneStrong}
	fast := []models.Candle{
		{Open: 101.5, High: 102.5, Low: 100.9, Close: 101.8},
		{Open: 101.2, High: 101.6, Low: 100.4, Close: 100.8},
		{Open: 100.9, High: 101.4, Low: 100.6, Close: 101.1},
		{Open: 101.0, High: 101.5, Low: 100.7, Close: 101.3},
	}

	refined, ok := RefineZone(z, fast)
	if !ok {
		t.Fatal("RefineZone() did not refine although four candles sat inside the zone")
	}
	if refined.Bottom != 100.4 || refined.Top != 101.4 {
		t.Errorf("refined bounds = [%v, %v], want [100.4, 101.4]", refined.Bottom, refined.Top)
	}
	if refined.Top > z.Top || refined.Bottom < z.Bottom {
		t.Errorf("refined zone [%v, %v] widened beyond the original [%v, %v]",
			refined.Bottom, refined.Top, z.Bottom, z.Top)
	}
	if refined.Type != z.Type || refined.Strength != z.Strength {
		t.Error("refinement must not change zone type or strength")
	}
}

func TestRefineZoneSupply(t *testing.T) {
	z := models.Zone{Type: models.ZoneSupply, Top: 102, Bottom: 100}
	fast := []models.Candle{
		{Open: 101.5, High: 101.8, Low: 100.9, Close: 101.2},
		{Open: 101.0, High: 101.3, Low: 100.5, Close: 100.7},
		{Open: 100.8, High: 101.0, Low: 100.45, Close: 100.6},
	}

	refined, ok := RefineZone(z, fast)
	if !ok {
		t.Fatal("RefineZone() did not refine the supply zone")
	}
	if refined.Top != 101.8 || refined.Bottom != 100.9 {
		t.Errorf("refined bounds = [%v, %v], want [100.9, 101.8]", refined.Bottom, refined.Top)
	}
}

func TestRefineZoneTooFewCandles(t *testing.T) {
	z := models.Zone{Type: models.ZoneDemand, Top: 102, Bottom: 100}
	fast := []models.Candle{
		{Open: 101.5, High: 102.5, Low: 100.9, Close: 101.8},
		{Open: 101.2, High: 101.6, Low: 100.4, Close: 100.8},
		{Open: 99.0, High: 99.5, Low: 98.5, Close: 99.2}, // outside the zone
	}

	refined, ok := RefineZone(z, fast)
	if ok {
		t.Error("RefineZone() refined with fewer than three candles inside the zone")
	}
	if refined != z {
		t.Errorf("RefineZone() altered the zone without refining: %+v", refined)
	}
}

func TestRefineZoneInsignificantShrink(t *testing.T) {
	z := models.Zone{Type: models.ZoneDemand, Top: 102, Bottom: 100}
	fast := []models.Candle{
		{Open: 100.5, High: 101.99, Low: 100.01, Close: 101.5},
		{Open: 100.6, High: 101.98, Low: 100.02, Close: 101.4},
		{Open: 100.7, High: 101.99, Low: 100.00, Close: 101.3},
	}

	if _, ok := RefineZone(z, fast); ok {
		t.Error("RefineZone() refined although the height barely changed")
	}
}

func TestRefineZoneDegenerateZone(t *testing.T) {
	z := models.Zone{Type: models.ZoneDemand, Top: 100, Bottom: 100}
	fast := []models.Candle{
		{Open: 100, High: 100.5, Low: 99.5, Close: 100},
		{Open: 100, High: 100.5, Low: 99.5, Close: 100},
		{Open: 100, High: 100.5, Low: 99.5, Close: 100},
	}

	if _, ok := RefineZone(z, fast); ok {
		t.Error("RefineZone() refined a zero-height zone")
	}
}
