package tui

import (
	"time"

	"github.com/sadopc/lifelog/internal/model"
)

// timerModel keeps the live elapsed time of the running logs, separate from
// display. The logs themselves live in the store; this only mirrors them.
type timerModel struct {
	active  []model.LogEntry
	elapsed map[string]time.Duration
	now     time.Time
}

func newTimerModel() timerModel {
	return timerModel{elapsed: make(map[string]time.Duration)}
}

// set replaces the running logs, e.g. after a refresh from the store.
func (t *timerModel) set(active []model.LogEntry, now time.Time) {
	t.active = active
	t.tick(now)
}

func (t *timerModel) tick(now time.Time) {
	t.now = now
	elapsed := make(map[string]time.Duration, len(t.active))
	for _, l := range t.active {
		elapsed[l.ID] = l.Elapsed(now)
	}
	t.elapsed = elapsed
}

func (t timerModel) running() bool {
	return len(t.active) > 0
}

func (t timerModel) count() int {
	return len(t.active)
}

func (t timerModel) elapsedFor(id string) time.Duration {
	return t.elapsed[id]
}

// longest returns the log that has been running the longest.
func (t timerModel) longest() (model.LogEntry, time.Duration, bool) {
	var best model.LogEntry
	var bestD time.Duration
	found := false
	for _, l := range t.active {
		if d := t.elapsed[l.ID]; !found || d > bestD {
			best, bestD, found = l, d, true
		}
	}
	return best, bestD, found
}
