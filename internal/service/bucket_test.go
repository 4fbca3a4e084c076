package service

import (
	"testing"
	"time"
)

func TestDateBucketShiftsSixHoursBack(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "midday stays on the same day",
			in:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
			want: "2025-03-10",
		},
		{
			name: "just before 06:00 UTC belongs to the previous day",
			in:   time.Date(2025, 3, 10, 5, 59, 59, 0, time.UTC),
			want: "2025-03-09",
		},
		{
			name: "exactly 06:00 UTC starts the new day",
			in:   time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC),
			want: "2025-03-10",
		},
		{
			name: "non-UTC input is converted first",
			in:   time.Date(2025, 3, 10, 23, 30, 0, 0, time.FixedZone("UTC-6", -6*3600)),
			want: "2025-03-10",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DateBucket(tc.in); got != tc.want {
				t.Errorf("DateBucket(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
