package testutil

import (
	"time"

	"github.com/light-bringer/mealprice-service/internal/pkg/clock"
)

// EvalTime is the evaluation instant shared by fixtures. Fixture rules are
// valid around it.
var EvalTime = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// NewFixedClock creates a mock clock fixed at the given time.
func NewFixedClock(t time.Time) clock.Clock {
	return clock.NewMockClock(t)
}

// NewMockClock creates a mock clock starting at EvalTime.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(EvalTime)
}
