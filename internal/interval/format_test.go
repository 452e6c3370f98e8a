package interval

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h", FormatDuration(60))
	assert.Equal(t, "1h 30m", FormatDuration(90))
	assert.Equal(t, "0h 30m", FormatDuration(30))
	assert.Equal(t, "12h", FormatDuration(720))
}

func TestSerialize(t *testing.T) {
	got, err := Validate(june1(), tod("22:00"), tod("01:30"), true, overnight)
	require.NoError(t, err)

	start, end := Serialize(got)
	assert.Equal(t, "2025-06-01T22:00", start)
	assert.Equal(t, "2025-06-02T01:30", end)
}

func TestSerialize_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		slot       Slot
		start, end string
		nextDay    bool
	}{
		{dayShift, "09:00", "17:00", false},
		{dayShift, "09:30", "09:30", true},
		{overnight, "23:30", "02:00", true},
	} {
		slot := tc.slot
		if tc.nextDay && !slot.CrossesMidnight {
			slot = Slot{StartTime: tod("00:00"), EndTime: tod("23:30"), CrossesMidnight: true}
		}
		got, err := Validate(june1(), tod(tc.start), tod(tc.end), tc.nextDay, slot)
		require.NoError(t, err)

		startWire, endWire := Serialize(got)
		startAt, err := ParseWire(startWire, time.UTC)
		require.NoError(t, err)
		endAt, err := ParseWire(endWire, time.UTC)
		require.NoError(t, err)

		back, err := FromInstants(startAt, endAt)
		require.NoError(t, err)
		assert.True(t, back.Equal(got))
		assert.Equal(t, got.Start, back.Start)
		assert.Equal(t, got.End, back.End)
		assert.Equal(t, got.EndsNextDay, back.EndsNextDay)
		assert.Equal(t, got.DurationMinutes, back.DurationMinutes)
	}
}

func TestParseWire_Invalid(t *testing.T) {
	_, err := ParseWire("2025-06-01 10:00", time.UTC)
	assert.ErrorContains(t, err, "YYYY-MM-DDTHH:MM")
}

func TestFromInstants_Errors(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	_, err := FromInstants(start, start)
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	_, err = FromInstants(start, start.AddDate(0, 0, 2))
	assert.ErrorIs(t, err, ErrSpansTooManyDays)
}

func TestCalculateDuration(t *testing.T) {
	start := time.Date(2026, 1, 30, 20, 0, 0, 0, time.UTC)

	d := CalculateDuration(start, start.Add(10*time.Hour+30*time.Minute))
	assert.Equal(t, 630, d.TotalMinutes)
	assert.Equal(t, 10.5, d.TotalHours)
	assert.Equal(t, "10h 30m", d.Display)
	assert.Equal(t, "10:30", d.Compact)

	d = CalculateDuration(start, start.Add(20*time.Minute))
	assert.Equal(t, 0.33, d.TotalHours)
	assert.Equal(t, "0:20", d.Compact)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2026-01-30", "30 Jan 2026", "30.01.2026"} {
		got, err := ParseDate(s, time.UTC)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
	_, err := ParseDate("30/01/2026", time.UTC)
	assert.Error(t, err)
}

func TestTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, 7*60+5, got.Minutes())
	assert.Equal(t, "07:05", got.String())

	unset, err := ParseTimeOfDay("")
	require.NoError(t, err)
	assert.False(t, unset.IsSet())

	for _, bad := range []string{"7", "24:00", "12:60", "aa:10", "12:5"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
	assert.Panics(t, func() { NewTimeOfDay(25, 0) })
}

func TestSlot_JSON(t *testing.T) {
	raw := `{"start_time":"22:00","end_time":"02:00","start_date":"30 Jan 2026","end_date":"31 Jan 2026","crosses_midnight":true}`

	var slot Slot
	require.NoError(t, json.Unmarshal([]byte(raw), &slot))
	assert.Equal(t, tod("22:00"), slot.StartTime)
	assert.True(t, slot.CrossesMidnight)

	out, err := json.Marshal(slot)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestSelectSlot(t *testing.T) {
	morning := Slot{StartTime: tod("06:00"), EndTime: tod("10:00")}
	evening := Slot{StartTime: tod("18:00"), EndTime: tod("23:00")}
	slots := []Slot{morning, evening}

	got, ok := SelectSlot(june1(), tod("19:00"), slots)
	assert.True(t, ok)
	assert.Equal(t, evening, got)

	got, ok = SelectSlot(june1(), tod("12:00"), slots)
	assert.True(t, ok)
	assert.Equal(t, morning, got)

	_, ok = SelectSlot(june1(), tod("12:00"), nil)
	assert.False(t, ok)
}
