package response

import (
	"context"
	"sync"
	"time"
)

// metaCarrier is a mutable per-request meta store. Handlers run on a single
// goroutine but cache lookups may annotate from helpers, so access is locked.
type metaCarrier struct {
	mu     sync.Mutex
	start  time.Time
	values map[string]interface{}
}

type metaContextKey struct{}

// WithMetaCarrier seeds the context with a meta store. Installed once per
// request by the response-meta middleware.
func WithMetaCarrier(ctx context.Context) context.Context {
	return context.WithValue(ctx, metaContextKey{}, &metaCarrier{
		start:  time.Now(),
		values: make(map[string]interface{}),
	})
}

// SetMeta records a key on the request's meta store. A context without a
// carrier is a no-op, so services can call this unconditionally.
func SetMeta(ctx context.Context, key string, value interface{}) {
	carrier, ok := ctx.Value(metaContextKey{}).(*metaCarrier)
	if !ok {
		return
	}
	carrier.mu.Lock()
	carrier.values[key] = value
	carrier.mu.Unlock()
}

// contextMeta snapshots the carrier contents plus elapsed processing time.
func contextMeta(ctx context.Context) map[string]interface{} {
	carrier, ok := ctx.Value(metaContextKey{}).(*metaCarrier)
	if !ok {
		return nil
	}
	carrier.mu.Lock()
	defer carrier.mu.Unlock()
	meta := make(map[string]interface{}, len(carrier.values)+1)
	for k, v := range carrier.values {
		meta[k] = v
	}
	meta["processing_time_ms"] = time.Since(carrier.start).Milliseconds()
	return meta
}
