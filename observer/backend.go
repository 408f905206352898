package observer

import (
	"context"

	"github.com/nevindra/recall"
)

// ObservedBackend wraps a recall.Backend with OTEL instrumentation.
type ObservedBackend struct {
	inner recall.Backend
	inst  *Instruments
}

var _ recall.Backend = (*ObservedBackend)(nil)

// WrapBackend returns an instrumented backend. Pass the result to
// recall.NewManager in place of inner.
func WrapBackend(inner recall.Backend, inst *Instruments) *ObservedBackend {
	return &ObservedBackend{inner: inner, inst: inst}
}

func (o *ObservedBackend) Get(ctx context.Context, key string) (any, bool, error) {
	ctx, op := o.inst.begin(ctx, TierLongTerm, "get", key)
	v, found, err := o.inner.Get(ctx, key)
	op.span.SetAttributes(AttrFound.Bool(found))
	op.end(ctx, found, err)
	return v, found, err
}

func (o *ObservedBackend) Set(ctx context.Context, key string, value any) error {
	ctx, op := o.inst.begin(ctx, TierLongTerm, "set", key)
	err := o.inner.Set(ctx, key, value)
	op.end(ctx, true, err)
	return err
}

func (o *ObservedBackend) Delete(ctx context.Context, key string) error {
	ctx, op := o.inst.begin(ctx, TierLongTerm, "delete", key)
	err := o.inner.Delete(ctx, key)
	op.end(ctx, true, err)
	return err
}

func (o *ObservedBackend) Keys(ctx context.Context) ([]string, error) {
	ctx, op := o.inst.begin(ctx, TierLongTerm, "keys", "")
	keys, err := o.inner.Keys(ctx)
	op.span.SetAttributes(AttrCount.Int(len(keys)))
	op.end(ctx, true, err)
	return keys, err
}
