// Package streak tracks consecutive calendar days with at least one completed log.
package streak

import "github.com/sadopc/lifelog/internal/model"

// Advance records a completion on today (2006-01-02) and reports whether the
// state changed. Several completions on the same day advance the streak once.
// A today earlier than the last active date, or one that is not a valid
// date, leaves the state untouched.
func Advance(state model.StreakState, today string) (model.StreakState, bool) {
	if _, err := model.ParseDate(today); err != nil {
		return state, false
	}
	next := state
	if state.LastActiveDate == "" {
		next.Current = 1
	} else {
		diff, err := model.DaysBetween(state.LastActiveDate, today)
		switch {
		case err != nil:
			next.Current = 1
		case diff == 0, diff < 0:
			return state, false
		case diff == 1:
			next.Current = state.Current + 1
		default:
			next.Current = 1
		}
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastActiveDate = today
	return next, true
}

// Status is the streak to display on today: the stored streak while it is
// still alive (last active today or yesterday), 0 once a day was missed.
func Status(state model.StreakState, today string) int {
	if state.LastActiveDate == "" {
		return 0
	}
	diff, err := model.DaysBetween(state.LastActiveDate, today)
	if err != nil || diff < 0 || diff > 1 {
		return 0
	}
	return state.Current
}
