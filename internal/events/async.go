package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/seatplan-api/pkg/jobs"
)

// AsyncPublisher hands events to a worker pool so callers never wait on the broker.
// Failed deliveries are retried with the same event ID.
type AsyncPublisher struct {
	inner Publisher
	queue *jobs.Queue[Event]
}

// NewAsyncPublisher wraps inner and starts its workers on ctx.
func NewAsyncPublisher(ctx context.Context, inner Publisher, cfg jobs.QueueConfig) *AsyncPublisher {
	p := &AsyncPublisher{inner: inner}
	p.queue = jobs.NewQueue[Event]("events", func(ctx context.Context, job jobs.Job[Event]) error {
		return p.inner.Publish(ctx, job.Payload)
	}, cfg)
	p.queue.Start(ctx)
	return p
}

// Publish enqueues the event. It waits for buffer room only as long as ctx allows, so the
// error reports a stopped pool or an expired caller.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return p.queue.Enqueue(ctx, jobs.Job[Event]{ID: event.ID, Payload: event})
}

// Close stops the workers and closes the wrapped publisher.
func (p *AsyncPublisher) Close() error {
	p.queue.Stop()
	return p.inner.Close()
}

var _ Publisher = (*AsyncPublisher)(nil)
