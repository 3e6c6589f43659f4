package dateformat

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 9, 7, 3, 45*int(time.Millisecond), time.UTC)

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{"date with padding", "yyyy-MM-dd", "2024-03-05"},
		{"short tokens", "yy-M-d", "24-3-5"},
		{"default pattern", "", "2024-03-05 09:07:03.45"},
		{"time of day", "HH:mm:ss", "09:07:03"},
		{"unpadded time", "H:m:s", "9:7:3"},
		{"quarter", "yyyy Qq", "2024 Q1"},
		{"padded quarter", "qq", "01"},
		{"single year digit", "y", "4"},
		{"three year digits", "yyy", "024"},
		{"year run longer than four", "yyyyy", "4"},
		{"long run still pads to two", "MMMM", "03"},
		{"milliseconds", "S", "45"},
		{"only first S is replaced", "SSS", "45SS"},
		{"only first run is replaced", "dd/dd", "05/dd"},
		{"letters inside words are tokens", "day d of month M", "5a4 d of 7onth 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(ts, tt.pattern); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestFormat_Quarters(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "1"},
		{time.March, "1"},
		{time.April, "2"},
		{time.June, "2"},
		{time.July, "3"},
		{time.September, "3"},
		{time.October, "4"},
		{time.December, "4"},
	}

	for _, tt := range tests {
		ts := time.Date(2023, tt.month, 15, 0, 0, 0, 0, time.UTC)
		if got := Format(ts, "q"); got != tt.want {
			t.Errorf("Format(%s, q) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestFormat_UsesTimeLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	ts := time.Date(2024, time.December, 31, 20, 0, 0, 0, time.UTC).In(loc)

	if got := Format(ts, "yyyy-MM-dd HH"); got != "2025-01-01 04" {
		t.Errorf("Format() = %q, want %q", got, "2025-01-01 04")
	}
}

func TestDateFormat(t *testing.T) {
	d := Date(time.Date(2022, time.August, 20, 23, 40, 0, 0, time.UTC))
	if got := d.Format("yyyy/MM/dd HH:mm"); got != "2022/08/20 23:40" {
		t.Errorf("Date.Format() = %q, want %q", got, "2022/08/20 23:40")
	}
}
