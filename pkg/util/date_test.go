package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-10-10T10:10:10Z", ts, true},
		{"2024-10-10", time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC), true},
		{strconv.FormatInt(ts.Unix(), 10), ts, true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"-5", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.in)
		if ok != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("ParseTime(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTradingDay(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	got := TradingDay(time.Date(2024, 3, 1, 7, 30, 0, 0, loc))
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestSplitNonEmpty(t *testing.T) {
	got := SplitNonEmpty(" ma_golden_cross, ,rsi_oversold,", ",")
	if len(got) != 2 || got[0] != "ma_golden_cross" || got[1] != "rsi_oversold" {
		t.Fatalf("unexpected split %q", got)
	}
	if SplitNonEmpty("", ",") != nil {
		t.Fatalf("empty input should give nil")
	}
	if ParseIntDefault(" 7 ", 1) != 7 || ParseIntDefault("x", 3) != 3 {
		t.Fatalf("ParseIntDefault")
	}
}
