package interval

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func times(seq func(func(TimeOption) bool)) []string {
	var out []string
	for o := range seq {
		s := o.Time.String()
		if o.NextDay {
			s += "+1"
		}
		out = append(out, s)
	}
	return out
}

func TestHalfHours(t *testing.T) {
	all := slices.Collect(halfHours())
	assert.Len(t, all, 48)
	assert.Equal(t, "00:00", all[0].String())
	assert.Equal(t, "23:30", all[47].String())
}

func TestStartOptions_DayShift(t *testing.T) {
	got := times(StartOptions(Slot{StartTime: tod("15:00"), EndTime: tod("17:00")}))
	assert.Equal(t, []string{"15:00", "15:30", "16:00", "16:30"}, got)
}

func TestEndOptions_DayShift(t *testing.T) {
	got := times(EndOptions(Slot{StartTime: tod("15:00"), EndTime: tod("17:00")}))
	assert.Equal(t, []string{"15:30", "16:00", "16:30", "17:00"}, got)
}

func TestOptions_NonCrossingStayInsideWindow(t *testing.T) {
	slot := dayShift
	for o := range StartOptions(slot) {
		assert.False(t, o.Time.Before(slot.StartTime))
		assert.True(t, o.Time.Before(slot.EndTime))
		assert.Equal(t, RoleStart, o.Role)
	}
	for o := range EndOptions(slot) {
		assert.True(t, o.Time.After(slot.StartTime))
		assert.False(t, o.Time.After(slot.EndTime))
		assert.False(t, o.NextDay)
		assert.Equal(t, RoleEnd, o.Role)
	}
}

func TestOptions_Overnight(t *testing.T) {
	assert.Equal(t, []string{"22:00", "22:30", "23:00", "23:30"}, times(StartOptions(overnight)))
	assert.Equal(t,
		[]string{"22:30", "23:00", "23:30", "00:00+1", "00:30+1", "01:00+1", "01:30+1", "02:00+1"},
		times(EndOptions(overnight)))
}

func TestDeriveTimeOptions_Restartable(t *testing.T) {
	seq := DeriveTimeOptions(dayShift)

	first := times(seq)
	second := times(seq)
	assert.Equal(t, first, second)
	assert.Len(t, first, 16+16)
}

func TestDeriveTimeOptions_EarlyStop(t *testing.T) {
	n := 0
	for range DeriveTimeOptions(overnight) {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestOptions_MalformedSlotYieldsNothing(t *testing.T) {
	slot := Slot{StartTime: tod("17:00"), EndTime: tod("09:00")}
	assert.Empty(t, times(DeriveTimeOptions(slot)))
}
