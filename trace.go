package router

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/goliatone/go-navrouter"

// defaultTracer resolves the tracer from the global provider, which
// is a no-op until the host installs one.
func defaultTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
