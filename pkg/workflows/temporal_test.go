package workflows

import (
	"log/slog"
	"testing"

	"github.com/ghuser/workcosts/pkg/logger"
)

type recordingLogger struct {
	logger.Logger
	lines []string
}

func (r *recordingLogger) Debug(msg string, _ ...any) { r.lines = append(r.lines, "debug:"+msg) }
func (r *recordingLogger) Info(msg string, _ ...any)  { r.lines = append(r.lines, "info:"+msg) }
func (r *recordingLogger) Warn(msg string, _ ...any)  { r.lines = append(r.lines, "warn:"+msg) }
func (r *recordingLogger) Error(msg string, _ ...any) { r.lines = append(r.lines, "error:"+msg) }

func (r *recordingLogger) ToSlog() *slog.Logger { return slog.Default() }

func TestTemporalLoggerLevels(t *testing.T) {
	rec := &recordingLogger{Logger: logger.Discard()}
	l := newTemporalLogger(rec)

	l.Debug("poll", "task_queue", "costs-reports")
	l.Info("started")
	l.Warn("retry", "attempt", 2)
	l.Error("failed")

	want := []string{"debug:poll", "info:started", "warn:retry", "error:failed"}
	if len(rec.lines) != len(want) {
		t.Fatalf("got %v, want %v", rec.lines, want)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, rec.lines[i], want[i])
		}
	}
}

func TestTemporalLoggerWith(t *testing.T) {
	rec := &recordingLogger{Logger: logger.Discard()}
	l := newTemporalLogger(rec).(*temporalLogger)

	child, ok := l.With("workflow_id", "wf-1").(*temporalLogger)
	if !ok {
		t.Fatal("With should return a temporalLogger")
	}
	if child.log == nil {
		t.Fatal("child logger is nil")
	}
}

func TestWorkerOptions(t *testing.T) {
	opts := workerOptions(WorkerOptions{MaxConcurrentActivities: 8, MaxConcurrentWorkflows: 2})
	if opts.MaxConcurrentActivityExecutionSize != 8 {
		t.Errorf("activities = %d, want 8", opts.MaxConcurrentActivityExecutionSize)
	}
	if opts.MaxConcurrentWorkflowTaskExecutionSize != 2 {
		t.Errorf("workflow tasks = %d, want 2", opts.MaxConcurrentWorkflowTaskExecutionSize)
	}
	if zero := workerOptions(WorkerOptions{}); zero.MaxConcurrentActivityExecutionSize != 0 {
		t.Error("zero limits must leave SDK defaults")
	}
}
