package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		from   time.Time
		months int
		want   time.Time
	}{
		{"plain", day(2024, 3, 15), 6, day(2024, 9, 15)},
		{"clamps to leap february", day(2024, 1, 31), 1, day(2024, 2, 29)},
		{"clamps to february", day(2023, 1, 31), 1, day(2023, 2, 28)},
		{"crosses year", day(2024, 11, 30), 3, day(2025, 2, 28)},
		{"thirty day month", day(2024, 5, 31), 1, day(2024, 6, 30)},
		{"zero", day(2024, 5, 31), 0, day(2024, 5, 31)},
		{"drops clock", time.Date(2024, 4, 10, 23, 59, 0, 0, time.UTC), 12, day(2025, 4, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.from, tt.months))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day(2024, 5, 1), time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, 31, DaysBetween(day(2024, 5, 1), day(2024, 6, 1)))
	assert.Equal(t, -1, DaysBetween(day(2024, 5, 2), day(2024, 5, 1)))
}

func TestWithinWindow(t *testing.T) {
	purchase := day(2024, 1, 31)

	assert.True(t, WithinWindow(purchase, 1, day(2024, 2, 29)))
	assert.False(t, WithinWindow(purchase, 1, day(2024, 3, 1)))
	assert.False(t, WithinWindow(purchase, 0, day(2024, 2, 1)))
}
