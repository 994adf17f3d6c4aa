package ws

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/mammothos/mamoart-backend/internal/mocks"
)

func TestOriginRegistry_ConnectionLimit(t *testing.T) {
	r := newOriginRegistry(nil, 2, 15)

	assert.True(t, r.Acquire("1.1.1.1"))
	assert.True(t, r.Acquire("1.1.1.1"))
	assert.False(t, r.Acquire("1.1.1.1"))
	assert.True(t, r.Acquire("2.2.2.2"))
	assert.Equal(t, 2, r.Connections("1.1.1.1"))

	r.Release("1.1.1.1")
	assert.True(t, r.Acquire("1.1.1.1"))

	r.Release("1.1.1.1")
	r.Release("1.1.1.1")
	assert.Equal(t, 0, r.Connections("1.1.1.1"))
	assert.NotContains(t, r.records, "1.1.1.1")

	// Releasing an unknown origin is a no-op
	r.Release("9.9.9.9")
}

func TestOriginRegistry_SlidingWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	clock := mocks.NewMockClock(ctrl)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r := newOriginRegistry(clock, 5, 3)
	assert.True(t, r.Acquire("1.1.1.1"))

	gomock.InOrder(
		clock.EXPECT().Now().Return(start),
		clock.EXPECT().Now().Return(start.Add(10*time.Second)),
		clock.EXPECT().Now().Return(start.Add(20*time.Second)),
		// Fourth message inside the window exceeds the budget
		clock.EXPECT().Now().Return(start.Add(30*time.Second)),
		// Messages older than a minute have left the window
		clock.EXPECT().Now().Return(start.Add(75*time.Second)),
	)

	assert.True(t, r.Allow("1.1.1.1"))
	assert.True(t, r.Allow("1.1.1.1"))
	assert.True(t, r.Allow("1.1.1.1"))
	assert.False(t, r.Allow("1.1.1.1"))
	assert.True(t, r.Allow("1.1.1.1"))
}

func TestOriginRegistry_AllowUntrackedOrigin(t *testing.T) {
	r := newOriginRegistry(nil, 5, 1)
	assert.True(t, r.Allow("3.3.3.3"))
	assert.True(t, r.Allow("3.3.3.3"))
}
