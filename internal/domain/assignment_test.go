package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAssignmentActiveOn(t *testing.T) {
	released := date(2020, 6, 1)

	tests := []struct {
		name   string
		assign Assignment
		today  time.Time
		want   bool
	}{
		{
			name:   "open ended after start",
			assign: Assignment{DateAssigned: date(2020, 1, 1)},
			today:  date(2024, 3, 15),
			want:   true,
		},
		{
			name:   "open ended on start day",
			assign: Assignment{DateAssigned: date(2020, 1, 1)},
			today:  date(2020, 1, 1),
			want:   true,
		},
		{
			name:   "not yet assigned",
			assign: Assignment{DateAssigned: date(2020, 1, 1)},
			today:  date(2019, 12, 31),
			want:   false,
		},
		{
			name:   "released in the past",
			assign: Assignment{DateAssigned: date(2020, 1, 1), DateReleased: &released},
			today:  date(2020, 6, 2),
			want:   false,
		},
		{
			name:   "release day still active",
			assign: Assignment{DateAssigned: date(2020, 1, 1), DateReleased: &released},
			today:  date(2020, 6, 1),
			want:   true,
		},
		{
			name:   "within window",
			assign: Assignment{DateAssigned: date(2020, 1, 1), DateReleased: &released},
			today:  date(2020, 3, 10),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.assign.ActiveOn(tt.today))
		})
	}
}

func TestAssignmentActiveOnIgnoresTimeOfDay(t *testing.T) {
	a := Assignment{DateAssigned: date(2020, 1, 1)}
	today := time.Date(2020, 1, 1, 23, 59, 0, 0, time.UTC)
	assert.True(t, a.ActiveOn(today))
}
