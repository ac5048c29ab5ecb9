package services

import (
	"fmt"
	"time"
)

// BusinessHours is the daily window in which consultations may start: [Open, Close).
type BusinessHours struct {
	Location *time.Location
	Open     int
	Close    int
}

// DefaultBusinessHours is 08:00 to 18:00 UTC.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{Location: time.UTC, Open: 8, Close: 18}
}

// Contains reports whether t falls inside the window, in the configured location.
func (b BusinessHours) Contains(t time.Time) bool {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	return minutes >= b.Open*60 && minutes < b.Close*60
}

func (b BusinessHours) String() string {
	return fmt.Sprintf("%02d:00 and %02d:00", b.Open, b.Close)
}
