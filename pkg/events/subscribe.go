package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const (
	// A failing message is tried maxAttempts times with exponential backoff
	// from retryBaseDelay before it is Nacked and redelivered.
	maxAttempts    = 3
	retryBaseDelay = time.Second
	errBuffer      = 100
)

// Handler processes one message. ctx carries the publisher's trace.
type Handler func(ctx context.Context, msg *message.Message) error

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as one that redelivery cannot fix, such as an
// undecodable payload. The message is Acked without further attempts and err
// is still reported on the subscriber's error channel.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err or anything it wraps was marked Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

// Subscribe consumes topic in the background until ctx ends or the bus is
// closed. Messages are Acked when handler succeeds or fails permanently.
// Panics count as failures.
//
// Errors that survive all attempts are sent on the returned channel, which
// the caller must drain:
//
//	errCh, err := bus.Subscribe(ctx, topic, handler)
//	go func() { for err := range errCh { log.ErrorContext(ctx, "subscriber error", "error", err) } }()
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	messages, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}
	handle := withRetry(handler, retryBaseDelay, b.wlog)

	errCh := make(chan error, errBuffer)
	b.handlers.Add(1)
	go func() {
		defer b.handlers.Done()
		defer close(errCh)
		for msg := range messages {
			msg.SetContext(extractTrace(ctx, msg))
			_, err := handle(msg)
			if err == nil {
				msg.Ack()
				continue
			}
			if IsPermanent(err) {
				msg.Ack()
			} else {
				msg.Nack()
			}
			err = fmt.Errorf("events: %s %s: %w", topic, msg.Metadata.Get(MetadataEventID), err)
			select {
			case errCh <- err:
			default:
				b.log.ErrorContext(msg.Context(), "events: error channel full", "error", err)
			}
		}
	}()
	return errCh, nil
}

// withRetry adapts handler to Watermill's handler signature, recovering panics
// and retrying with exponential backoff. Permanent errors are not retried.
// The handler is not called once the message context has ended.
func withRetry(handler Handler, baseDelay time.Duration, wlog watermill.LoggerAdapter) message.HandlerFunc {
	retry := middleware.Retry{
		MaxRetries:      maxAttempts - 1,
		InitialInterval: baseDelay,
		MaxInterval:     baseDelay << (maxAttempts - 1),
		Multiplier:      2,
		ShouldRetry:     func(p middleware.RetryParams) bool { return !IsPermanent(p.Err) },
		Logger:          wlog,
	}
	return retry.Middleware(middleware.Recoverer(func(msg *message.Message) ([]*message.Message, error) {
		return nil, handler(msg.Context(), msg)
	}))
}
