package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		minutes int
		ok      bool
	}{
		{name: "24h morning", raw: "09:00", minutes: 9 * 60, ok: true},
		{name: "24h afternoon", raw: "14:30", minutes: 14*60 + 30, ok: true},
		{name: "am", raw: "10:00am", minutes: 10 * 60, ok: true},
		{name: "pm", raw: "2:30pm", minutes: 14*60 + 30, ok: true},
		{name: "pm with space and caps", raw: "2:30 PM", minutes: 14*60 + 30, ok: true},
		{name: "noon", raw: "12:00pm", minutes: 12 * 60, ok: true},
		{name: "midnight", raw: "12:00am", minutes: 0, ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "tba", raw: "TBA", ok: false},
		{name: "garbage", raw: "25:99", ok: false},
		{name: "missing minutes", raw: "9am", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minutes, ok := parseClockTime(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.minutes, minutes)
			}
		})
	}
}

func TestNormalizeDay(t *testing.T) {
	assert.Equal(t, "M", NormalizeDay("Monday"))
	assert.Equal(t, "Tu", NormalizeDay("tue"))
	assert.Equal(t, "Th", NormalizeDay("Th"))
	assert.Equal(t, "F", NormalizeDay(" friday "))
	assert.Equal(t, "X", NormalizeDay("X"))
}

func TestDaysIntersect(t *testing.T) {
	assert.True(t, daysIntersect([]string{"M", "W", "F"}, []string{"Wednesday"}))
	assert.False(t, daysIntersect([]string{"M", "W"}, []string{"Tu", "Th"}))
	assert.False(t, daysIntersect(nil, []string{"M"}))
	assert.False(t, daysIntersect([]string{"M"}, nil))
}
