package observer

import (
	"context"

	"github.com/nevindra/recall"
)

// ObservedStore wraps a recall.Store with OTEL instrumentation. Use it for
// the short-term tier via recall.WithShortTermStore; the long-term tier is
// better observed at the backend with WrapBackend.
type ObservedStore struct {
	inner recall.Store
	tier  string
	inst  *Instruments
}

var _ recall.Store = (*ObservedStore)(nil)

// WrapStore returns an instrumented store labelled with tier.
func WrapStore(inner recall.Store, tier string, inst *Instruments) *ObservedStore {
	return &ObservedStore{inner: inner, tier: tier, inst: inst}
}

func (o *ObservedStore) Set(ctx context.Context, key string, value any) error {
	ctx, op := o.inst.begin(ctx, o.tier, "set", key)
	err := o.inner.Set(ctx, key, value)
	op.end(ctx, true, err)
	return err
}

func (o *ObservedStore) Get(ctx context.Context, key string) (any, bool, error) {
	ctx, op := o.inst.begin(ctx, o.tier, "get", key)
	v, found, err := o.inner.Get(ctx, key)
	op.span.SetAttributes(AttrFound.Bool(found))
	op.end(ctx, found, err)
	return v, found, err
}

func (o *ObservedStore) Delete(ctx context.Context, key string) error {
	ctx, op := o.inst.begin(ctx, o.tier, "delete", key)
	err := o.inner.Delete(ctx, key)
	op.end(ctx, true, err)
	return err
}

func (o *ObservedStore) Clear(ctx context.Context) error {
	ctx, op := o.inst.begin(ctx, o.tier, "clear", "")
	err := o.inner.Clear(ctx)
	op.end(ctx, true, err)
	return err
}

func (o *ObservedStore) Keys(ctx context.Context) ([]string, error) {
	ctx, op := o.inst.begin(ctx, o.tier, "keys", "")
	keys, err := o.inner.Keys(ctx)
	op.span.SetAttributes(AttrCount.Int(len(keys)))
	op.end(ctx, true, err)
	return keys, err
}
