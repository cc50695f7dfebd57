package utils

import (
	"time"

	"github.com/quiterx/selfrealization-bot/internal/logger"
)

// DayLayout is the calendar-day key stored in every dated table.
const DayLayout = "2006-01-02"

func Must(e error) {
	if e != nil {
		logger.Fatal("fatal", "err", e)
	}
}

// DayKey formats t as a calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// LastDays returns the n most recent day keys ending with the day of now,
// newest first.
func LastDays(now time.Time, loc *time.Location, n int) []string {
	if n <= 0 {
		return nil
	}
	local := now.In(loc)
	base := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, loc)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = base.AddDate(0, 0, -i).Format(DayLayout)
	}
	return days
}
