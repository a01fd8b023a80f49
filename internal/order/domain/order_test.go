package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusPending, StatusShipped, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	n := NewOrderNumber(now)

	assert.True(t, strings.HasPrefix(n, "VG20260828150405-"), "got %s", n)
	assert.Len(t, n, len("VG20260828150405-")+6)
}

func TestNewOrderNumber_UniqueWithinSameSecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[NewOrderNumber(now)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1, "random suffix must vary within one second")
}

func TestItemCount(t *testing.T) {
	o := Order{Lines: []Line{{Quantity: 2}, {Quantity: 3}}}
	assert.Equal(t, 5, o.ItemCount())
}
