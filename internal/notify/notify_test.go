package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/lifelog/internal/model"
)

type recorder struct {
	messages []string
	err      error
}

func (r *recorder) Notify(title, message string) error {
	r.messages = append(r.messages, title+": "+message)
	return r.err
}

func active(id string, start time.Time) model.LogEntry {
	return model.LogEntry{ID: id, StartTime: start, Description: "deep work"}
}

func TestCheckFiresOncePerLog(t *testing.T) {
	rec := &recorder{}
	c := NewLongTaskChecker(rec, nil)
	start := time.Date(2025, 11, 8, 8, 0, 0, 0, time.UTC)
	logs := []model.LogEntry{active("a", start)}

	assert.Empty(t, c.Check(logs, 6*time.Hour, start.Add(5*time.Hour)))
	assert.Equal(t, []string{"a"}, c.Check(logs, 6*time.Hour, start.Add(6*time.Hour)))
	assert.Empty(t, c.Check(logs, 6*time.Hour, start.Add(7*time.Hour)))

	require.Len(t, rec.messages, 1)
	assert.Contains(t, rec.messages[0], `"deep work" has been running for 6h 0m`)
}

func TestCheckForgetsEndedLogs(t *testing.T) {
	rec := &recorder{}
	c := NewLongTaskChecker(rec, nil)
	start := time.Date(2025, 11, 8, 8, 0, 0, 0, time.UTC)
	now := start.Add(2 * time.Hour)

	c.Check([]model.LogEntry{active("a", start)}, time.Hour, now)
	c.Check(nil, time.Hour, now)
	fired := c.Check([]model.LogEntry{active("a", start)}, time.Hour, now)

	assert.Equal(t, []string{"a"}, fired)
	assert.Len(t, rec.messages, 2)
}

func TestCheckSkipsCompletedAndSurvivesErrors(t *testing.T) {
	rec := &recorder{err: errors.New("no dbus")}
	c := NewLongTaskChecker(rec, nil)
	start := time.Date(2025, 11, 8, 8, 0, 0, 0, time.UTC)
	end := start.Add(10 * time.Hour)

	done := active("done", start)
	done.EndTime = &end
	fired := c.Check([]model.LogEntry{done, active("b", start)}, time.Hour, start.Add(11*time.Hour))

	assert.Equal(t, []string{"b"}, fired)
	assert.Len(t, rec.messages, 1)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "45m", formatElapsed(45*time.Minute))
	assert.Equal(t, "2h 5m", formatElapsed(125*time.Minute))
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify("t", "m"))
}
