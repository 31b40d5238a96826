package main

import (
	"fmt"
	"io"

	"github.com/aether-player/media-kit/pkg/types"
)

// traceEvents are the resolution steps printed by -verbose
var traceEvents = []types.MetricEventType{
	types.MetricEventAttemptFailed,
	types.MetricEventAttemptUnusable,
	types.MetricEventResolved,
	types.MetricEventExhausted,
	types.MetricEventEnrichment,
}

// traceResolution prints resolution events from collector to w until the
// returned stop function is called. stop returns once every buffered event
// has been printed.
func traceResolution(collector types.MetricsCollector, w io.Writer) (stop func()) {
	sub := collector.SubscribeFiltered(256, types.MetricFilter{EventTypes: traceEvents})
	muted := newRenderer(w).muted
	done := make(chan struct{})

	go func() {
		defer close(done)
		for event := range sub.Events() {
			fmt.Fprintln(w, muted.Render(describeEvent(event)))
		}
	}()

	return func() {
		sub.Unsubscribe()
		<-done
		if n := sub.OverflowCount(); n > 0 {
			fmt.Fprintf(w, "%d trace events dropped\n", n)
		}
	}
}

// describeEvent renders one event; descriptors of credential pools are
// already redacted to their pool labels.
func describeEvent(e types.MetricEvent) string {
	switch e.Type {
	case types.MetricEventAttemptFailed:
		return fmt.Sprintf("[%s] attempt %d via %s failed (%s) after %s", e.Resolver, e.AttemptNumber, e.Descriptor, e.ErrorCode, e.Latency)
	case types.MetricEventAttemptUnusable:
		return fmt.Sprintf("[%s] attempt %d via %s returned nothing usable", e.Resolver, e.AttemptNumber, e.Descriptor)
	case types.MetricEventResolved:
		return fmt.Sprintf("[%s] resolved via %s on attempt %d in %s", e.Resolver, e.Descriptor, e.AttemptNumber, e.Latency)
	case types.MetricEventExhausted:
		return fmt.Sprintf("[%s] exhausted", e.Resolver)
	case types.MetricEventEnrichment:
		if e.ErrorCode != "" {
			return fmt.Sprintf("[%s] no direct stream (%s)", e.Resolver, e.ErrorCode)
		}
		return fmt.Sprintf("[%s] direct stream attached", e.Resolver)
	}
	return fmt.Sprintf("[%s] %s", e.Resolver, e.Type)
}
