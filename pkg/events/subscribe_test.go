package events

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/workcosts/pkg/logger"
)

func run(ctx context.Context, t *testing.T, delay time.Duration, handler Handler) error {
	t.Helper()
	msg := message.NewMessage("m", nil)
	msg.SetContext(ctx)
	_, err := withRetry(handler, delay, &slogAdapter{log: logger.Discard()})(msg)
	return err
}

func TestWithRetry(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name      string
		failFirst int
		panics    bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", wantCalls: 1},
		{name: "succeeds on last attempt", failFirst: maxAttempts - 1, wantCalls: maxAttempts},
		{name: "gives up", failFirst: maxAttempts, wantCalls: maxAttempts, wantErr: true},
		{name: "panic is retried", failFirst: 1, panics: true, wantCalls: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := run(context.Background(), t, time.Millisecond, func(context.Context, *message.Message) error {
				calls++
				if calls > tt.failFirst {
					return nil
				}
				if tt.panics {
					panic("handler bug")
				}
				return boom
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetry_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := run(ctx, t, time.Hour, func(context.Context, *message.Message) error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestWithRetry_PermanentErrorIsNotRetried(t *testing.T) {
	bad := errors.New("bad payload")
	calls := 0
	err := run(context.Background(), t, time.Hour, func(context.Context, *message.Message) error {
		calls++
		return fmt.Errorf("decode: %w", Permanent(bad))
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !IsPermanent(err) || !errors.Is(err, bad) {
		t.Errorf("err = %v, want permanent error wrapping %v", err, bad)
	}
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
	if IsPermanent(errors.New("x")) {
		t.Error("plain error reported as permanent")
	}
	if !IsPermanent(fmt.Errorf("wrapped: %w", Permanent(errors.New("x")))) {
		t.Error("wrapped permanent error not detected")
	}
}

func TestWithRetry_PassesMessageContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	err := run(ctx, t, time.Millisecond, func(got context.Context, _ *message.Message) error {
		if got.Value(key{}) != "v" {
			return errors.New("context not passed")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
