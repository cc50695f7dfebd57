// Package tracker implements the daily metric trackers: calories and water
// (limit based, additive events), activity (steps & workout) and weight.
//
// Trackers hold no state of their own. Every call resolves "today" from the
// injected clock and location and works directly against the store.
package tracker

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/quiterx/selfrealization-bot/internal/models"
	"github.com/quiterx/selfrealization-bot/internal/utils"
)

const (
	DefaultHistoryDays       = 7
	DefaultWeightHistoryDays = 14
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidDays   = errors.New("days must be positive")
)

// Recorder receives statistics deltas. Implementations must not block.
type Recorder interface {
	Record(delta models.StatsDelta)
}

// Calendar resolves the current day for trackers.
type Calendar struct {
	Clock    clockwork.Clock
	Location *time.Location
}

// NewCalendar returns a Calendar on the real clock; nil loc means time.Local.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Clock: clockwork.NewRealClock(), Location: loc}
}

func (c Calendar) Now() time.Time {
	return c.Clock.Now()
}

func (c Calendar) Today() string {
	return utils.DayKey(c.Clock.Now(), c.Location)
}

// LastDays returns the n most recent day keys, today first.
func (c Calendar) LastDays(n int) []string {
	return utils.LastDays(c.Clock.Now(), c.Location, n)
}

func intp(v int) *int { return &v }
