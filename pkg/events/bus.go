// Package events is the Postgres-backed event bus shared by all bounded
// contexts, built on Watermill's SQL transport.
//
// Writers publish with PublishTx inside the transaction of the write they
// announce, so an event exists if and only if that write committed. The API
// process runs in forwarder mode: messages land in one outbox topic and a
// Forwarder moves them to their real topic. Workers share the
// <service>-worker consumer group, so each message reaches one instance.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/logger"
)

const (
	outboxTopic  = "workcosts_outbox"
	drainTimeout = 30 * time.Second
)

// EventBus publishes and consumes domain events through Postgres tables.
type EventBus struct {
	db      *sql.DB
	log     logger.Logger
	wlog    watermill.LoggerAdapter
	service string
	outbox  bool

	publisher  message.Publisher
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder

	handlers sync.WaitGroup
}

// NewEventBus returns a bus whose publishers write straight to the target
// topic. The worker process uses it.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, false)
}

// NewEventBusWithForwarder returns a bus whose publishers write to the outbox
// topic. Call StartForwarder to deliver outbox messages.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return open(cfg, log, true)
}

func open(cfg *config.Config, log logger.Logger, outbox bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	b := &EventBus{
		db:      db,
		log:     log,
		wlog:    &slogAdapter{log: log.With("component", "events")},
		service: cfg.ServiceName,
		outbox:  outbox,
	}

	if b.publisher, err = b.sqlPublisher(db, true); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	if b.subscriber, err = b.sqlSubscriber(b.service + "-worker"); err != nil {
		_ = b.publisher.Close()
		_ = db.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	return b, nil
}

// sqlPublisher publishes through exec, which is the pool or a transaction.
// In forwarder mode messages are enveloped for the outbox topic.
func (b *EventBus) sqlPublisher(exec watermillsql.ContextExecutor, initSchema bool) (message.Publisher, error) {
	pub, err := b.directPublisher(exec, initSchema)
	if err != nil || !b.outbox {
		return pub, err
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: outboxTopic}), nil
}

func (b *EventBus) directPublisher(exec watermillsql.ContextExecutor, initSchema bool) (*watermillsql.Publisher, error) {
	return watermillsql.NewPublisher(exec, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: initSchema,
	}, b.wlog)
}

func (b *EventBus) sqlSubscriber(group string) (*watermillsql.Subscriber, error) {
	return watermillsql.NewSubscriber(b.db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, b.wlog)
}

// StartForwarder runs the outbox forwarder until ctx ends. It returns once the
// forwarder is consuming, and may be called once per bus.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.outbox {
		return errors.New("events: forwarder needs a bus from NewEventBusWithForwarder")
	}
	if b.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	sub, err := b.sqlSubscriber(b.service + "-forwarder")
	if err != nil {
		return fmt.Errorf("events: forwarder subscriber: %w", err)
	}
	// Forwarded messages must not go back into the outbox.
	target, err := b.directPublisher(b.db, true)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("events: forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(sub, target, b.wlog, forwarder.Config{ForwarderTopic: outboxTopic})
	if err != nil {
		_ = target.Close()
		_ = sub.Close()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd

	b.handlers.Add(1)
	go func() {
		defer b.handlers.Done()
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "outbox", outboxTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Ping checks the bus database connection.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits up to 30s for running handlers, then releases
// the publisher and the database.
func (b *EventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close subscriber: %w", err))
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: close forwarder: %w", err))
		}
	}

	drained := make(chan struct{})
	go func() {
		b.handlers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		b.log.Error("events: handlers still running at shutdown", "waited", drainTimeout)
	}

	if err := b.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close publisher: %w", err))
	}
	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: close db: %w", err))
	}
	return errors.Join(errs...)
}
