package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EssayEvent announces a finished analysis to downstream consumers
// (notification fan-out, profile retraining triggers). Delivery is
// fire-and-forget; the pipeline never waits on it.
type EssayEvent struct {
	EssayID    uint      `json:"essay_id"`
	TeacherID  uint      `json:"teacher_id"`
	SchoolID   uint      `json:"school_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publishes essay lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event EssayEvent) error
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher wraps a NATS connection as an EventPublisher. A
// nil connection yields a publisher that drops events silently, so callers
// can wire it unconditionally.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "redpen.essay.completed"
	}

	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, event EssayEvent) error {
	if p.conn == nil {
		return nil
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return err
	}

	p.logger.Debug().Uint("essay_id", event.EssayID).Str("subject", p.subject).Msg("essay event published")

	return nil
}
