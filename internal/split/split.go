// Package split cuts a completed log that spans several calendar days into
// one segment per day.
package split

import (
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/lifelog/internal/model"
)

// namespace seeds the name-based segment ids.
var namespace = uuid.MustParse("6f1c2a4e-8b7d-4c3e-9a51-2d0f7e6b3c18")

// SegmentID returns the stable id of the segment of parentID on date.
func SegmentID(parentID, date string) string {
	return uuid.NewSHA1(namespace, []byte(parentID+"/"+date)).String()
}

// Spans reports whether the completed entry touches more than one calendar day in loc.
// The end instant is exclusive, so a log ending exactly at midnight stays on its start day.
func Spans(entry model.LogEntry, loc *time.Location) bool {
	if entry.EndTime == nil || !entry.EndTime.After(entry.StartTime) {
		return false
	}
	last := lastDay(*entry.EndTime, loc)
	return last.After(model.Civil(entry.StartTime, loc))
}

// lastDay is the civil date holding the final second of an interval ending at end.
func lastDay(end time.Time, loc *time.Location) time.Time {
	d := model.Civil(end, loc)
	if model.DayStart(d, loc).Equal(end) {
		return d.AddDate(0, 0, -1)
	}
	return d
}

// Split returns the per-day segments of a completed log. Active logs and logs
// contained in a single day yield nil.
func Split(entry model.LogEntry, loc *time.Location) []model.Segment {
	if !Spans(entry, loc) {
		return nil
	}
	end := *entry.EndTime
	first := model.Civil(entry.StartTime, loc)
	last := lastDay(end, loc)

	var segs []model.Segment
	for d := first; !d.After(last); d = model.NextDay(d) {
		segStart := model.DayStart(d, loc)
		if d.Equal(first) {
			segStart = entry.StartTime
		}
		segEnd := model.DayStart(model.NextDay(d), loc)
		if d.Equal(last) {
			segEnd = end
		}
		date := d.Format(model.DateLayout)
		segs = append(segs, model.Segment{
			ID:          SegmentID(entry.ID, date),
			ParentID:    entry.ID,
			Date:        date,
			StartTime:   segStart,
			EndTime:     segEnd,
			Duration:    int64(segEnd.Sub(segStart) / time.Second),
			CategoryIDs: append([]string(nil), entry.CategoryIDs...),
			Description: entry.Description,
			Location:    entry.Location,
			IsFirst:     d.Equal(first),
			IsLast:      d.Equal(last),
		})
	}
	return segs
}

// Clip returns the part of entry falling on date, or false when it does not
// touch that day. Used when no stored segment exists for a spanning log.
func Clip(entry model.LogEntry, date string, loc *time.Location) (model.Segment, bool) {
	for _, s := range Split(entry, loc) {
		if s.Date == date {
			return s, true
		}
	}
	return model.Segment{}, false
}
