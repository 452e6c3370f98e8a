package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestListFilter_Match(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	future := today.AddDate(0, 0, 20).Add(18 * time.Hour)
	past := today.AddDate(0, 0, -3).Add(18 * time.Hour)

	pendingFuture := Booking{Status: BookingStatusPending, StartAt: future}
	approvedFuture := Booking{Status: BookingStatusApproved, StartAt: future}
	approvedToday := Booking{Status: BookingStatusApproved, StartAt: today.Add(9 * time.Hour)}
	approvedPast := Booking{Status: BookingStatusApproved, StartAt: past}

	assert.True(t, FilterAll.Match(approvedPast, today))

	assert.True(t, FilterPending.Match(pendingFuture, today))
	assert.False(t, FilterPending.Match(approvedFuture, today))

	assert.True(t, FilterApproved.Match(approvedPast, today))

	assert.True(t, FilterActive.Match(approvedFuture, today))
	assert.True(t, FilterActive.Match(approvedToday, today))
	assert.False(t, FilterActive.Match(approvedPast, today))
	assert.False(t, FilterActive.Match(pendingFuture, today))

	assert.True(t, FilterPast.Match(approvedPast, today))
	assert.False(t, FilterPast.Match(approvedToday, today))
}

func TestParseListFilter(t *testing.T) {
	f, ok := ParseListFilter("")
	assert.True(t, ok)
	assert.Equal(t, FilterAll, f)

	f, ok = ParseListFilter("active")
	assert.True(t, ok)
	assert.Equal(t, FilterActive, f)

	_, ok = ParseListFilter("archived")
	assert.False(t, ok)
}

func TestBookingStatus_Blocks(t *testing.T) {
	assert.True(t, BookingStatusPending.Blocks())
	assert.True(t, BookingStatusApproved.Blocks())
	assert.False(t, BookingStatusRejected.Blocks())
	assert.False(t, BookingStatusCancelled.Blocks())
}
