// Package workflows connects the processes to Temporal. Workflow definitions
// live with their bounded context; this package only owns the client and
// worker plumbing.
package workflows

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/workcosts/pkg/config"
	"github.com/ghuser/workcosts/pkg/logger"
)

const instrumentationName = "github.com/ghuser/workcosts/pkg/workflows"

// TemporalClient is a connected Temporal client with tracing and metrics
// reported through the global OTel providers.
type TemporalClient struct {
	Client    client.Client
	Namespace string
	log       logger.Logger
	workers   WorkerOptions
}

// WorkerOptions bounds the work one worker process takes on.
type WorkerOptions struct {
	MaxConcurrentActivities int
	MaxConcurrentWorkflows  int
}

// NewTemporalClient dials cfg.TemporalHostPort. Call Close on shutdown.
func NewTemporalClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*TemporalClient, error) {
	tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: otel.Tracer(instrumentationName),
	})
	if err != nil {
		return nil, fmt.Errorf("create temporal otel interceptor: %w", err)
	}

	log = log.With("component", "temporal")
	c, err := client.DialContext(ctx, client.Options{
		HostPort:       cfg.TemporalHostPort,
		Namespace:      cfg.TemporalNamespace,
		Logger:         newTemporalLogger(log),
		Interceptors:   []interceptor.ClientInterceptor{tracing},
		MetricsHandler: temporalotel.NewMetricsHandler(temporalotel.MetricsHandlerOptions{Meter: otel.Meter(instrumentationName)}),
	})
	if err != nil {
		return nil, fmt.Errorf("dial temporal server at %s: %w", cfg.TemporalHostPort, err)
	}
	log.Info("temporal client connected", "host_port", cfg.TemporalHostPort, "namespace", cfg.TemporalNamespace)

	return &TemporalClient{
		Client:    c,
		Namespace: cfg.TemporalNamespace,
		log:       log,
		workers: WorkerOptions{
			MaxConcurrentActivities: cfg.TemporalMaxConcurrentActivities,
			MaxConcurrentWorkflows:  cfg.TemporalMaxConcurrentWorkflows,
		},
	}, nil
}

// Ping checks that the Temporal frontend is reachable.
func (tc *TemporalClient) Ping(ctx context.Context) error {
	if _, err := tc.Client.CheckHealth(ctx, &client.CheckHealthRequest{}); err != nil {
		return fmt.Errorf("temporal health check: %w", err)
	}
	return nil
}

func (tc *TemporalClient) Close() {
	tc.Client.Close()
	tc.log.Info("temporal client closed")
}

// NewWorker creates a worker polling taskQueue. Zero limits keep the SDK
// defaults.
func (tc *TemporalClient) NewWorker(taskQueue string) worker.Worker {
	return worker.New(tc.Client, taskQueue, workerOptions(tc.workers))
}

func workerOptions(o WorkerOptions) worker.Options {
	return worker.Options{
		MaxConcurrentActivityExecutionSize:     o.MaxConcurrentActivities,
		MaxConcurrentWorkflowTaskExecutionSize: o.MaxConcurrentWorkflows,
	}
}

var _ temporallog.WithLogger = (*temporalLogger)(nil)

// temporalLogger adapts logger.Logger to Temporal's log.Logger.
type temporalLogger struct {
	log logger.Logger
}

func newTemporalLogger(log logger.Logger) temporallog.Logger {
	return &temporalLogger{log: log}
}

func (l *temporalLogger) Debug(msg string, keyvals ...any) { l.log.Debug(msg, keyvals...) }
func (l *temporalLogger) Info(msg string, keyvals ...any)  { l.log.Info(msg, keyvals...) }
func (l *temporalLogger) Warn(msg string, keyvals ...any)  { l.log.Warn(msg, keyvals...) }
func (l *temporalLogger) Error(msg string, keyvals ...any) { l.log.Error(msg, keyvals...) }

func (l *temporalLogger) With(keyvals ...any) temporallog.Logger {
	return &temporalLogger{log: l.log.With(keyvals...)}
}
