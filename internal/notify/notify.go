// Package notify reminds the user about logs that have been running too long.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/hashicorp/go-hclog"

	"github.com/sadopc/lifelog/internal/model"
)

// Notifier delivers one desktop notification.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct{}

func NewDesktop() Desktop {
	beeep.AppName = "lifelog"
	return Desktop{}
}

func (Desktop) Notify(title, message string) error {
	return beeep.Alert(title, message, "")
}

// Nop discards notifications; used when they are disabled in config.
type Nop struct{}

func (Nop) Notify(string, string) error { return nil }

// LongTaskChecker fires once per active log that exceeds the threshold.
type LongTaskChecker struct {
	mu       sync.Mutex
	notifier Notifier
	logger   hclog.Logger
	notified map[string]bool
}

func NewLongTaskChecker(n Notifier, logger hclog.Logger) *LongTaskChecker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LongTaskChecker{
		notifier: n,
		logger:   logger.Named("notify"),
		notified: make(map[string]bool),
	}
}

// Check notifies about newly overdue logs and returns their ids. Ids of logs
// no longer active are forgotten, so a reopened log can alert again.
func (c *LongTaskChecker) Check(active []model.LogEntry, threshold time.Duration, now time.Time) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	alive := make(map[string]bool, len(active))
	var fired []string
	for _, l := range active {
		if l.Completed() {
			continue
		}
		alive[l.ID] = true
		if c.notified[l.ID] || l.Elapsed(now) < threshold {
			continue
		}
		c.notified[l.ID] = true
		fired = append(fired, l.ID)

		msg := fmt.Sprintf("%q has been running for %s", l.Description, formatElapsed(l.Elapsed(now)))
		if err := c.notifier.Notify("Long-running activity", msg); err != nil {
			c.logger.Warn("notification failed", "log", l.ID, "error", err)
		} else {
			c.logger.Info("long task reminder sent", "log", l.ID)
		}
	}
	for id := range c.notified {
		if !alive[id] {
			delete(c.notified, id)
		}
	}
	return fired
}

func formatElapsed(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
