package calc

import (
	"math"
	"testing"
)

func TestParseDistanceKm(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"5.8km", 5.8, true},
		{"5800m", 5.8, true},
		{"5800", 5.8, true},
		{"80", 80, true},
		{"100", 100, true},
		{"101", 0.1, true},
		{" 21.0975KM ", 21.1, true},
		{"400M", 0.4, true},
		{"", 0, false},
		{"abc", 0, false},
		{"5.8.1km", 0, false},
		{"-5km", 0, false},
		{"5 km", 0, false},
		{"5mi", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDistanceKm(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseDistanceKm(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseDistanceKm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHasExplicitUnit(t *testing.T) {
	if !HasExplicitUnit("5.8km") || !HasExplicitUnit("5800M") {
		t.Error("expected km and m suffixes to count as explicit units")
	}
	if HasExplicitUnit("5800") || HasExplicitUnit("") || HasExplicitUnit("fast km") {
		t.Error("expected bare or malformed distances to have no explicit unit")
	}
}

func TestTimeToSeconds(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"15:30", 930, true},
		{"1:05:10", 3910, true},
		{"3:09.5", 189.5, true},
		{"0:00", 0, true},
		{"930", 0, false},
		{"1:2:3:4", 0, false},
		{"ab:cd", 0, false},
		{"-1:30", 0, false},
		{"", 0, false},
		{"0x1p4:00", 0, false},
		{"1e1:00", 0, false},
		{"Inf:00", 0, false},
		{"+1:30", 0, false},
		{" 1 : 30 ", 90, true},
	}

	for _, tt := range tests {
		got, ok := TimeToSeconds(tt.in)
		if ok != tt.wantOK {
			t.Errorf("TimeToSeconds(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("TimeToSeconds(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCalcPace(t *testing.T) {
	tests := []struct {
		time, dist string
		want       string
		wantOK     bool
	}{
		{"20:00", "5km", "4:00", true},
		{"20:00", "5000m", "4:00", true},
		{"20:00", "5000", "4:00", true},
		{"15:10", "5km", "3:02", true},
		{"18:20", "5.8km", "3:09", true}, // 189.65 s/km floors to 3:09
		{"1:10:00", "21.0975km", "3:19", true},
		{"0:00", "5km", "", false},
		{"20:00", "", "", false},
		{"20:00", "0km", "", false},
		{"bad", "5km", "", false},
	}

	for _, tt := range tests {
		got, ok := CalcPace(tt.time, tt.dist)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CalcPace(%q, %q) = %q, %v; want %q, %v", tt.time, tt.dist, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCalcPace_UnitInvariant(t *testing.T) {
	times := []string{"14:59", "15:30", "31:07", "1:02:45", "9:58.7"}
	for _, tm := range times {
		a, okA := CalcPace(tm, "5000m")
		b, okB := CalcPace(tm, "5km")
		if a != b || okA != okB {
			t.Errorf("CalcPace(%q) differs by unit: %q vs %q", tm, a, b)
		}
	}
}

func TestCalcAvgTimeDisplay(t *testing.T) {
	tests := []struct {
		secs   float64
		want   string
		wantOK bool
	}{
		{189.5, "3:09.5", true},
		{189.46, "3:09.5", true},
		{180, "3:00.0", true},
		{239.94, "3:59.9", true},
		{239.95, "4:00.0", true},
		{239.99, "4:00.0", true},
		{0, "", false},
		{-3, "", false},
		{math.NaN(), "", false},
	}

	for _, tt := range tests {
		got, ok := CalcAvgTimeDisplay(tt.secs)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CalcAvgTimeDisplay(%v) = %q, %v; want %q, %v", tt.secs, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormattersDiffer(t *testing.T) {
	// 18:59.8 over 5km is 227.96 s/km
	pace, _ := CalcPace("18:59.8", "5km")
	if pace != "3:47" {
		t.Errorf("CalcPace floor = %q, want 3:47", pace)
	}
	avg, _ := CalcAvgTimeDisplay(227.96)
	if avg != "3:48.0" {
		t.Errorf("CalcAvgTimeDisplay = %q, want 3:48.0", avg)
	}
}

func TestAverageSeconds(t *testing.T) {
	got, ok := AverageSeconds([]string{"10:00", "bad", "12:00", "0:00"})
	if !ok || got != 660 {
		t.Errorf("AverageSeconds = %v, %v; want 660, true", got, ok)
	}
	if _, ok := AverageSeconds([]string{"", "x"}); ok {
		t.Error("expected no average for unparseable input")
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := map[float64]string{
		0:      "0:00",
		59.9:   "0:59",
		930:    "15:30",
		3910:   "1:05:10",
		-10:    "0:00",
		7322.4: "2:02:02",
	}
	for in, want := range tests {
		if got := FormatSeconds(in); got != want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}
