package stats

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

const epsilon = 1e-9

var jan1 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func alternating(n int, a, b float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = a
		} else {
			out[i] = b
		}
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize(nil, jan1)
	if got == nil {
		t.Fatal("expected non-nil empty result")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 days, got %d", len(got))
	}

	got = Summarize([]float64{}, jan1)
	if len(got) != 0 {
		t.Errorf("expected 0 days, got %d", len(got))
	}
}

func TestSummarizeAlternatingTwoDays(t *testing.T) {
	got := Summarize(alternating(48, 10.0, 20.0), jan1)

	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}

	wantDates := []string{"2024-01-01", "2024-01-02"}
	for i, d := range got {
		if d.Day() != wantDates[i] {
			t.Errorf("day %d: expected date %s, got %s", i, wantDates[i], d.Day())
		}
		if d.Min != 10.0 || d.Max != 20.0 || d.Mean != 15.0 {
			t.Errorf("day %d: expected min=10 max=20 mean=15, got min=%v max=%v mean=%v",
				i, d.Min, d.Max, d.Mean)
		}
		if d.Samples != 24 {
			t.Errorf("day %d: expected 24 samples, got %d", i, d.Samples)
		}
	}
}

func TestSummarizeBucketCounts(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		start       time.Time
		wantDays    int
		wantLastLen int
	}{
		{name: "single sample", length: 1, start: jan1, wantDays: 1, wantLastLen: 1},
		{name: "exactly one day", length: 24, start: jan1, wantDays: 1, wantLastLen: 24},
		{name: "one day plus one", length: 25, start: jan1, wantDays: 2, wantLastLen: 1},
		{name: "partial final", length: 50, start: jan1, wantDays: 3, wantLastLen: 2},
		{name: "full january", length: 31 * 24, start: jan1, wantDays: 31, wantLastLen: 24},
		{name: "more than a month is capped", length: 40 * 24, start: jan1, wantDays: 31, wantLastLen: 24},
		{
			name:        "leap february caps at 29",
			length:      31 * 24,
			start:       time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantDays:    29,
			wantLastLen: 24,
		},
		{
			name:        "april caps at 30",
			length:      31*24 + 5,
			start:       time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantDays:    30,
			wantLastLen: 24,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := make([]float64, tt.length)
			for i := range series {
				series[i] = float64(i % 7)
			}

			got := Summarize(series, tt.start)
			if len(got) != tt.wantDays {
				t.Fatalf("expected %d days, got %d", tt.wantDays, len(got))
			}
			if last := got[len(got)-1]; last.Samples != tt.wantLastLen {
				t.Errorf("expected last bucket of %d samples, got %d", tt.wantLastLen, last.Samples)
			}
			for i, d := range got {
				want := tt.start.AddDate(0, 0, i)
				if !d.Date.Equal(want) {
					t.Errorf("bucket %d: expected %s, got %s", i, want.Format(DateLayout), d.Day())
				}
			}
		})
	}
}

func TestSummarizeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		length := 1 + rng.Intn(31*24)
		series := make([]float64, length)
		for i := range series {
			series[i] = rng.Float64()*80 - 30
		}

		got := Summarize(series, jan1)

		wantDays := int(math.Ceil(float64(length) / HoursPerDay))
		if len(got) != wantDays {
			t.Fatalf("length %d: expected %d days, got %d", length, wantDays, len(got))
		}

		for i, d := range got {
			lo := i * HoursPerDay
			hi := lo + HoursPerDay
			if hi > length {
				hi = length
			}

			var sum float64
			for _, v := range series[lo:hi] {
				sum += v
			}
			mean := sum / float64(hi-lo)

			if math.Abs(d.Mean-mean) > epsilon {
				t.Errorf("length %d day %d: expected mean %v, got %v", length, i, mean, d.Mean)
			}
			if d.Min > d.Mean+epsilon || d.Mean > d.Max+epsilon {
				t.Errorf("length %d day %d: expected min <= mean <= max, got %v/%v/%v",
					length, i, d.Min, d.Mean, d.Max)
			}
		}
	}
}

func TestSummarizeNormalizesStartToMidnight(t *testing.T) {
	start := time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)
	got := Summarize([]float64{1, 2, 3}, start)

	if !got[0].Date.Equal(jan1) {
		t.Errorf("expected bucket at midnight, got %s", got[0].Date)
	}
}

func TestDailyClone(t *testing.T) {
	daily := Summarize(alternating(48, 1, 3), jan1)

	if daily[0].Day() != "2024-01-01" || daily[1].Day() != "2024-01-02" {
		t.Errorf("unexpected days %s, %s", daily[0].Day(), daily[1].Day())
	}

	clone := daily.Clone()
	clone[0].Mean = 99
	if daily[0].Mean == 99 {
		t.Error("clone should not share backing array")
	}

	var nilDaily Daily
	if nilDaily.Clone() != nil {
		t.Error("clone of nil should be nil")
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 31},
		{time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.date); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.date.Format(DateLayout), tt.want, got)
		}
	}
}

func BenchmarkSummarizeMonth(b *testing.B) {
	series := alternating(31*24, 18.5, 31.2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Summarize(series, jan1)
	}
}
