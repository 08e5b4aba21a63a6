package utils

import "testing"

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:15", 555, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:15am", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, clock := range []string{"00:00", "09:05", "13:45", "23:59"} {
		minutes, err := ParseClock(clock)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", clock, err)
		}
		if got := FormatClock(minutes); got != clock {
			t.Errorf("FormatClock(ParseClock(%q)) = %q", clock, got)
		}
	}
}

func TestOverlaps(t *testing.T) {
	// [09:00,09:15) vs [09:10,09:25) intersect; touching boundaries do not.
	if !Overlaps(540, 555, 550, 565) {
		t.Error("expected [540,555) and [550,565) to overlap")
	}
	if Overlaps(540, 555, 555, 570) {
		t.Error("expected [540,555) and [555,570) not to overlap")
	}
	if !Overlaps(540, 555, 540, 555) {
		t.Error("expected identical intervals to overlap")
	}
	if Overlaps(555, 570, 540, 555) {
		t.Error("expected [555,570) and [540,555) not to overlap")
	}
}

func TestCombineDateTime(t *testing.T) {
	at, err := CombineDateTime("2026-03-02", "14:30")
	if err != nil {
		t.Fatalf("CombineDateTime: %v", err)
	}
	if at.Hour() != 14 || at.Minute() != 30 || at.Day() != 2 {
		t.Errorf("unexpected time: %v", at)
	}

	if _, err := CombineDateTime("02/03/2026", "14:30"); err == nil {
		t.Error("expected error for malformed date")
	}
}
