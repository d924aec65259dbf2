// Package client dials Temporal with tracing and structured logging attached.
package client

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// Options selects the cluster and the instruments the client reports through.
type Options struct {
	Address   string
	Namespace string
	Logger    *slog.Logger
	Tracer    trace.Tracer
}

// Dial connects to Temporal. Empty address and namespace fall back to the SDK defaults.
func Dial(opts Options) (client.Client, error) {
	if opts.Address == "" {
		opts.Address = client.DefaultHostPort
	}
	if opts.Namespace == "" {
		opts.Namespace = client.DefaultNamespace
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: opts.Tracer})
	if err != nil {
		return nil, err
	}
	clientOptions := client.Options{
		HostPort:  opts.Address,
		Namespace: opts.Namespace,
	}
	if opts.Logger != nil {
		clientOptions.Logger = workerlog.NewStructuredLogger(opts.Logger)
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	return client.Dial(clientOptions)
}
