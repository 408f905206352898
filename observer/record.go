package observer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// memOp tracks one instrumented memory operation from start to finish.
type memOp struct {
	inst  *Instruments
	span  trace.Span
	tier  string
	name  string
	key   string
	start time.Time
}

func (inst *Instruments) begin(ctx context.Context, tier, name, key string) (context.Context, *memOp) {
	attrs := []attribute.KeyValue{AttrTier.String(tier), AttrOp.String(name)}
	if key != "" {
		attrs = append(attrs, AttrKey.String(key))
	}
	ctx, span := inst.Tracer.Start(ctx, "memory."+name, trace.WithAttributes(attrs...))
	return ctx, &memOp{inst: inst, span: span, tier: tier, name: name, key: key, start: time.Now()}
}

// end closes the span and records metrics. found is only meaningful for
// lookups; pass true for writes.
func (o *memOp) end(ctx context.Context, found bool, err error) {
	defer o.span.End()
	durationMs := float64(time.Since(o.start).Microseconds()) / 1000

	status := "ok"
	switch {
	case err != nil:
		status = "error"
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	case !found:
		status = "miss"
	}
	o.span.SetAttributes(AttrStatus.String(status))

	labels := metric.WithAttributes(AttrTier.String(o.tier), AttrOp.String(o.name))
	o.inst.Operations.Add(ctx, 1, metric.WithAttributes(
		AttrTier.String(o.tier), AttrOp.String(o.name), AttrStatus.String(status),
	))
	o.inst.Duration.Record(ctx, durationMs, labels)
	if status == "miss" {
		o.inst.Misses.Add(ctx, 1, labels)
	}

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityDebug)
	if err != nil {
		rec.SetSeverity(otellog.SeverityError)
	}
	rec.SetBody(otellog.StringValue("memory " + o.name))
	rec.AddAttributes(
		otellog.String("memory.tier", o.tier),
		otellog.String("memory.op", o.name),
		otellog.String("memory.key", o.key),
		otellog.String("memory.status", status),
		otellog.Float64("memory.duration_ms", durationMs),
	)
	o.inst.Logger.Emit(ctx, rec)
}
