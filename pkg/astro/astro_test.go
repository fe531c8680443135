package astro

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestChineseZodiac_SpringBoundary(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"day before spring 2024", date(2024, time.February, 3), "兔"},
		{"spring begin 2024", date(2024, time.February, 4), "龙"},
		{"january 2024", date(2024, time.January, 20), "兔"},
		{"spring begin 2025 on feb 3", date(2025, time.February, 3), "蛇"},
		{"before spring 2025", date(2025, time.February, 2), "龙"},
		{"outside table uses feb 4", date(2050, time.February, 3), "蛇"},
		{"outside table on feb 4", date(2050, time.February, 4), "马"},
		{"base year", date(1900, time.June, 1), "鼠"},
		{"before base year", date(1899, time.June, 1), "猪"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ChineseZodiac(tc.in); got != tc.want {
				t.Fatalf("ChineseZodiac(%s) = %q, want %q", tc.in.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestZodiacYear(t *testing.T) {
	if got := ZodiacYear(date(2024, time.February, 3)); got != 2023 {
		t.Fatalf("expected 2023, got %d", got)
	}
	if got := ZodiacYear(date(2024, time.February, 4)); got != 2024 {
		t.Fatalf("expected 2024, got %d", got)
	}
}

func TestSpringBegin_ReportsTableHit(t *testing.T) {
	if m, d, ok := SpringBegin(2021); !ok || m != time.February || d != 3 {
		t.Fatalf("expected table entry Feb 3 for 2021, got %v %d %v", m, d, ok)
	}
	if _, _, ok := SpringBegin(1999); ok {
		t.Fatalf("1999 is outside the table")
	}
}

func TestFiveElement(t *testing.T) {
	cases := map[int]string{2020: "金", 2021: "木", 2022: "水", 2023: "火", 2024: "土", 2025: "金"}
	for year, want := range cases {
		if got := FiveElement(year); got != want {
			t.Errorf("FiveElement(%d) = %q, want %q", year, got, want)
		}
	}
}

func TestWesternZodiac(t *testing.T) {
	cases := []struct {
		month time.Month
		day   int
		want  string
	}{
		{time.January, 1, "摩羯座"},
		{time.January, 19, "摩羯座"},
		{time.January, 20, "水瓶座"},
		{time.March, 20, "双鱼座"},
		{time.March, 21, "白羊座"},
		{time.July, 23, "狮子座"},
		{time.December, 21, "射手座"},
		{time.December, 22, "摩羯座"},
		{time.December, 31, "摩羯座"},
	}
	for _, tc := range cases {
		if got := WesternZodiac(tc.month, tc.day); got != tc.want {
			t.Errorf("WesternZodiac(%d, %d) = %q, want %q", tc.month, tc.day, got, tc.want)
		}
	}
}

func TestDerive(t *testing.T) {
	p := Derive(date(2024, time.February, 3))
	want := Profile{Zodiac: "兔", ZodiacYear: 2023, Element: "土", WesternZodiac: "水瓶座"}
	if p != want {
		t.Fatalf("Derive = %+v, want %+v", p, want)
	}
}
