package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sadopc/lifelog/internal/model"
)

func TestAdvance(t *testing.T) {
	base := model.StreakState{Current: 5, Longest: 7, LastActiveDate: "2025-11-01"}

	tests := []struct {
		name        string
		state       model.StreakState
		today       string
		want        model.StreakState
		wantChanged bool
	}{
		{
			name:        "first completion",
			state:       model.StreakState{},
			today:       "2025-11-01",
			want:        model.StreakState{Current: 1, Longest: 1, LastActiveDate: "2025-11-01"},
			wantChanged: true,
		},
		{
			name:        "same day is a no-op",
			state:       base,
			today:       "2025-11-01",
			want:        base,
			wantChanged: false,
		},
		{
			name:        "next day extends",
			state:       base,
			today:       "2025-11-02",
			want:        model.StreakState{Current: 6, Longest: 7, LastActiveDate: "2025-11-02"},
			wantChanged: true,
		},
		{
			name:        "gap resets",
			state:       base,
			today:       "2025-11-03",
			want:        model.StreakState{Current: 1, Longest: 7, LastActiveDate: "2025-11-03"},
			wantChanged: true,
		},
		{
			name:        "new record raises longest",
			state:       model.StreakState{Current: 7, Longest: 7, LastActiveDate: "2025-11-01"},
			today:       "2025-11-02",
			want:        model.StreakState{Current: 8, Longest: 8, LastActiveDate: "2025-11-02"},
			wantChanged: true,
		},
		{
			name:        "clock moved back",
			state:       base,
			today:       "2025-10-30",
			want:        base,
			wantChanged: false,
		},
		{
			name:        "across month end",
			state:       model.StreakState{Current: 2, Longest: 2, LastActiveDate: "2025-10-31"},
			today:       "2025-11-01",
			want:        model.StreakState{Current: 3, Longest: 3, LastActiveDate: "2025-11-01"},
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := Advance(tt.state, tt.today)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestAdvanceTwiceSameDay(t *testing.T) {
	s, _ := Advance(model.StreakState{Current: 5, Longest: 5, LastActiveDate: "2025-11-01"}, "2025-11-02")
	s, changed := Advance(s, "2025-11-02")
	assert.False(t, changed)
	assert.Equal(t, 6, s.Current)
}

func TestAdvanceIgnoresMalformedToday(t *testing.T) {
	st := model.StreakState{Current: 4, Longest: 9, LastActiveDate: "2025-11-01"}
	for _, today := range []string{"", "2025-13-01", "11/02/2025"} {
		got, changed := Advance(st, today)
		assert.False(t, changed, today)
		assert.Equal(t, st, got, today)
	}
}

func TestStatus(t *testing.T) {
	s := model.StreakState{Current: 5, Longest: 9, LastActiveDate: "2025-11-01"}

	assert.Equal(t, 5, Status(s, "2025-11-01"))
	assert.Equal(t, 5, Status(s, "2025-11-02"))
	assert.Equal(t, 0, Status(s, "2025-11-03"))
	assert.Equal(t, 0, Status(model.StreakState{}, "2025-11-03"))
}
