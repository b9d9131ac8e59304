package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/workshop-maintenance/internal/schedule"
)

const runTimeout = 30 * time.Second

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Source lists the tasks that need attention.
type Source interface {
	Notifications(ctx context.Context) ([]schedule.DueNotification, error)
}

// Message is the published digest payload.
type Message struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Overdue     int                        `json:"overdue"`
	Upcoming    int                        `json:"upcoming"`
	Items       []schedule.DueNotification `json:"items"`
}

// Digest collects due tasks and publishes them as one message.
type Digest struct {
	source    Source
	publisher Publisher
	now       func() time.Time
	log       log.FieldLogger
}

// NewDigest creates a digest job.
func NewDigest(source Source, publisher Publisher, logger log.FieldLogger) *Digest {
	return &Digest{source: source, publisher: publisher, now: time.Now, log: logger}
}

// Run builds and publishes a digest. Nothing is published when no task is due.
func (d *Digest) Run(ctx context.Context) (*Message, error) {
	items, err := d.source.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect notifications: %w", err)
	}
	msg := &Message{GeneratedAt: d.now().UTC(), Items: items}
	for _, n := range items {
		if n.Status == schedule.StatusOverdue {
			msg.Overdue++
		} else {
			msg.Upcoming++
		}
	}
	if len(items) == 0 {
		d.log.Debug("No maintenance due, digest skipped")
		return msg, nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal digest: %w", err)
	}
	if err := d.publisher.Publish(ctx, payload); err != nil {
		return nil, fmt.Errorf("publish digest: %w", err)
	}
	d.log.WithFields(log.Fields{"overdue": msg.Overdue, "upcoming": msg.Upcoming}).Info("Published maintenance digest")
	return msg, nil
}

// ValidateSchedule reports whether expr is a usable 5-field cron expression.
func ValidateSchedule(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// Schedule registers the digest on a cron evaluated in loc. The caller starts
// and stops the returned scheduler.
func Schedule(expr string, loc *time.Location, d *Digest) (*cron.Cron, error) {
	c := cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))
	_, err := c.AddFunc(expr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := d.Run(ctx); err != nil {
			d.log.WithError(err).Error("Scheduled digest failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return c, nil
}
