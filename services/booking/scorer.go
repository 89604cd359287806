package booking

import (
	"fmt"
	"time"

	"fitbook/models"
	"fitbook/utils"
)

// Preference score weights. Totals are never clamped: a candidate can score
// negative (manual-review territory) or beyond 100.
const (
	MaxDatePoints       = 50.0
	PreferredTimePoints = 40.0
	AvoidTimePoints     = -50.0
	NeutralTimePoints   = 20.0
	WeekendBonusPoints  = 5.0
	EveningBonusPoints  = 5.0
)

// Evening window for the evening bonus, half-open [17:00, 21:00).
const (
	eveningStartMinute = 17 * 60
	eveningEndMinute   = 21 * 60
)

// ScoreCandidate computes the preference-match score for a candidate
// reservation on the given date over [start, end) minutes. It is a pure
// function: identical inputs always yield an identical total and breakdown.
// Multi-slot sequences are scored once against the sequence's overall start
// and span, not per slot.
func ScoreCandidate(prefs models.SchedulePreferences, date string, start, end int) (float64, models.ScoreBreakdown, error) {
	var breakdown models.ScoreBreakdown

	day, err := utils.ParseDate(date)
	if err != nil {
		return 0, breakdown, err
	}

	dateMatch, err := scoreDateMatch(prefs, date)
	if err != nil {
		return 0, breakdown, err
	}
	breakdown.DateMatch = dateMatch

	preferred, err := overlapsAnyWindow(prefs.PreferredTimes, start, end)
	if err != nil {
		return 0, breakdown, fmt.Errorf("bad preferred time window: %w", err)
	}
	avoided, err := overlapsAnyWindow(prefs.AvoidTimes, start, end)
	if err != nil {
		return 0, breakdown, fmt.Errorf("bad avoid time window: %w", err)
	}

	switch {
	case preferred:
		breakdown.TimeOfDayMatch = PreferredTimePoints
	case avoided:
		breakdown.TimeOfDayMatch = AvoidTimePoints
	default:
		breakdown.TimeOfDayMatch = NeutralTimePoints
	}
	if avoided {
		breakdown.AvoidPenalty = AvoidTimePoints
	}

	if prefs.AllowWeekends && isWeekend(day) {
		breakdown.WeekendEveningBonus += WeekendBonusPoints
	}
	if prefs.AllowEvenings && start >= eveningStartMinute && start < eveningEndMinute {
		breakdown.WeekendEveningBonus += EveningBonusPoints
	}

	total := breakdown.DateMatch + breakdown.TimeOfDayMatch + breakdown.AvoidPenalty + breakdown.WeekendEveningBonus
	return total, breakdown, nil
}

// scoreDateMatch decays linearly across the preferred date range: the range
// start scores full points, the range end scores zero. Dates outside the
// range score zero; the resolver's date filter normally excludes them before
// scoring.
func scoreDateMatch(prefs models.SchedulePreferences, date string) (float64, error) {
	span, err := utils.DaysBetween(prefs.StartDate, prefs.EndDate)
	if err != nil {
		return 0, err
	}
	offset, err := utils.DaysBetween(prefs.StartDate, date)
	if err != nil {
		return 0, err
	}
	if offset < 0 || offset > span {
		return 0, nil
	}
	if span == 0 {
		return MaxDatePoints, nil
	}
	return MaxDatePoints * (1 - float64(offset)/float64(span)), nil
}

// overlapsAnyWindow checks half-open interval intersection on time of day
// only, ignoring the date.
func overlapsAnyWindow(windows []string, start, end int) (bool, error) {
	for _, w := range windows {
		wStart, wEnd, err := utils.ParseWindow(w)
		if err != nil {
			return false, err
		}
		if start < wEnd && wStart < end {
			return true, nil
		}
	}
	return false, nil
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
