package domain

import "time"

// Assignment associates a person with a location for a dated term.
// DateReleased nil means the assignment is open-ended.
type Assignment struct {
	ID           int64
	PersonID     int64
	PersonName   string
	LocationID   int64
	LocationName string
	Type         string
	Term         int64
	DateAssigned time.Time
	DateReleased *time.Time
}

// ActiveOn reports whether the assignment window covers the given day.
// The comparison is date-granular: an assignment released today is still
// active today.
func (a Assignment) ActiveOn(today time.Time) bool {
	day := truncateToDay(today)
	if truncateToDay(a.DateAssigned).After(day) {
		return false
	}
	if a.DateReleased == nil {
		return true
	}
	return !truncateToDay(*a.DateReleased).Before(day)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
