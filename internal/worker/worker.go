package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"

	"github.com/Kele901/career-projector/internal/logger"
	"github.com/Kele901/career-projector/internal/models"
)

// Analyzer turns a document into a report
type Analyzer interface {
	AnalyzeBytes(ctx context.Context, filename string, data []byte) (models.Report, error)
}

// Options configures a Worker
type Options struct {
	Attempts int
	Backoff  time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

// Worker processes analysis jobs: download, analyse, publish
type Worker struct {
	store    ObjectStore
	pub      Publisher
	analyzer Analyzer
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
	now      func() time.Time
}

// New creates a worker. Attempts defaults to 3 and Backoff to 500ms.
func New(store ObjectStore, pub Publisher, analyzer Analyzer, opts Options) *Worker {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Worker{
		store:    store,
		pub:      pub,
		analyzer: analyzer,
		logger:   logger.OrDefault(opts.Logger).With("component", "worker"),
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		now:      opts.Now,
	}
}

// retry runs fn up to attempts times, waiting backoff*(i+1) between failures
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(backoff * time.Duration(i+1))
		select {
		case <-ctx.Done():
			t.Stop()
			return zero, ctx.Err()
		case <-t.C:
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Handle processes one message body. It returns an error only for malformed
// messages; analysis failures are reported on the results exchange.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job AnalysisJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to decode job: %w", err)
	}
	if err := job.Validate(); err != nil {
		return err
	}

	l := w.logger.With("job_id", job.ID, "object_key", job.ObjectKey)
	l.Info("processing job")
	w.publish(ctx, job, StatusUpdate{Status: StatusProcessing, Message: "analysis started"})

	report, err := w.process(ctx, job)
	if err != nil {
		l.Error("job failed", "error", err)
		w.publish(ctx, job, StatusUpdate{Status: StatusFailed, Message: "analysis failed", Error: err.Error()})
		return nil
	}

	l.Info("job completed", "pathways", len(report.Recommendations))
	w.publish(ctx, job, StatusUpdate{Status: StatusCompleted, Message: "analysis completed", Report: &report})
	return nil
}

func (w *Worker) process(ctx context.Context, job AnalysisJob) (models.Report, error) {
	data, err := retry(ctx, w.attempts, w.backoff, func() ([]byte, error) {
		return w.store.Download(ctx, job.ObjectKey)
	})
	if err != nil {
		return models.Report{}, fmt.Errorf("file download error: %w", err)
	}

	report, err := w.analyzer.AnalyzeBytes(ctx, job.FileName(), data)
	if err != nil {
		return models.Report{}, fmt.Errorf("analysis error: %w", err)
	}
	if job.Name != "" {
		report.Name = job.Name
	}
	return report, nil
}

func (w *Worker) publish(ctx context.Context, job AnalysisJob, update StatusUpdate) {
	update.JobID = job.ID
	update.SessionID = job.SessionID
	update.Timestamp = w.now().UTC()

	body, err := json.Marshal(update)
	if err != nil {
		w.logger.Error("failed to marshal status update", "job_id", job.ID, "error", err)
		return
	}

	_, err = retry(ctx, w.attempts, w.backoff, func() (struct{}, error) {
		return struct{}{}, w.pub.Publish(ctx, job.RoutingKey(), body)
	})
	if err != nil {
		w.logger.Error("failed to publish update", "job_id", job.ID, "status", update.Status, "error", err)
	}
}

// ConsumeOptions selects the queue and pool size for Run
type ConsumeOptions struct {
	Queue    string
	Workers  int
	Prefetch int
}

// Run starts a pool of consumers on queue and blocks until ctx is cancelled or a
// consumer's delivery channel closes. Messages are acked after handling; malformed
// ones are rejected without requeue.
func (w *Worker) Run(ctx context.Context, conn *amqp.Connection, opts ConsumeOptions) error {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Prefetch <= 0 {
		opts.Prefetch = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range opts.Workers {
		g.Go(func() error {
			return w.consume(ctx, conn, i+1, opts)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Worker) consume(ctx context.Context, conn *amqp.Connection, id int, opts ConsumeOptions) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		opts.Queue, // queue name
		true,       // durable
		false,      // auto-delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(opts.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		opts.Queue, // queue name
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq messages: %w", err)
	}

	w.logger.Info("consumer started", "consumer", id, "queue", opts.Queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer %d: delivery channel closed", id)
			}
			if err := w.Handle(ctx, msg.Body); err != nil {
				w.logger.Warn("rejecting message", "consumer", id, "error", err)
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}
