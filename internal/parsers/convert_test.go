package parsers

import "testing"

func TestSafeFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"$228.02", 228.02},
		{"1,234.5", 1234.5},
		{228.02, 228.02},
		{42, 42},
		{int64(7), 7},
		{"garbage", 0},
		{nil, 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := SafeFloat(c.in); got != c.want {
			t.Errorf("SafeFloat(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSafeInt(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{"1,234,567", 1234567},
		{float64(42), 42},
		{"nope", 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := SafeInt(c.in); got != c.want {
			t.Errorf("SafeInt(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePercentage(t *testing.T) {
	if got := ParsePercentage("1.25%"); got != 1.25 {
		t.Errorf("ParsePercentage(1.25%%) = %v, want 1.25", got)
	}
	if got := ParsePercentage("N/A"); got != 0 {
		t.Errorf("ParsePercentage(N/A) = %v, want 0", got)
	}
}

func TestParseRange(t *testing.T) {
	low, high := ParseRange("100 - 200")
	if low != 100 || high != 200 {
		t.Errorf("ParseRange(100 - 200) = (%v, %v), want (100, 200)", low, high)
	}

	low, high = ParseRange("$224.27 - $228.87")
	if low != 224.27 || high != 228.87 {
		t.Errorf("ParseRange dollar form = (%v, %v), want (224.27, 228.87)", low, high)
	}

	low, high = ParseRange("garbage")
	if low != 0 || high != 0 {
		t.Errorf("ParseRange(garbage) = (%v, %v), want (0, 0)", low, high)
	}
}
