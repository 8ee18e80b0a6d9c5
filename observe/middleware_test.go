package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// recordingMetrics captures RecordLookup calls for assertions.
type recordingMetrics struct {
	mu      sync.Mutex
	lookups []recordedLookup
}

type recordedLookup struct {
	meta QueryMeta
	hit  bool
	err  error
}

func (r *recordingMetrics) RecordLookup(_ context.Context, meta QueryMeta, _ time.Duration, hit bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, recordedLookup{meta: meta, hit: hit, err: err})
}

func TestMiddleware_WrapSuccess(t *testing.T) {
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	mw := NewMiddleware(NopTracer(), metrics, logger)

	fn := mw.Wrap(func(ctx context.Context, meta QueryMeta) (any, bool, error) {
		return []string{"m1"}, true, nil
	})

	result, hit, err := fn(context.Background(), QueryMeta{Op: "og_memberships"})
	if err != nil {
		t.Fatalf("wrapped fn failed: %v", err)
	}
	if !hit {
		t.Error("hit flag not propagated")
	}
	if ids, ok := result.([]string); !ok || len(ids) != 1 {
		t.Errorf("result = %v", result)
	}

	if len(metrics.lookups) != 1 {
		t.Fatalf("got %d recorded lookups, want 1", len(metrics.lookups))
	}
	if !metrics.lookups[0].hit {
		t.Error("metrics did not record the cache hit")
	}
	if !strings.Contains(buf.String(), "lookup completed") {
		t.Errorf("log output missing completion entry: %s", buf.String())
	}
}

func TestMiddleware_WrapError(t *testing.T) {
	metrics := &recordingMetrics{}
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	mw := NewMiddleware(NopTracer(), metrics, logger)

	boom := errors.New("record store down")
	fn := mw.Wrap(func(ctx context.Context, meta QueryMeta) (any, bool, error) {
		return nil, false, boom
	})

	_, _, err := fn(context.Background(), QueryMeta{Op: "og_group_ids"})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}

	if metrics.lookups[0].err == nil {
		t.Error("metrics did not record the error")
	}
	if !strings.Contains(buf.String(), "lookup failed") {
		t.Errorf("log output missing failure entry: %s", buf.String())
	}
}

func TestMiddleware_NilComponentsBecomeNoops(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)

	fn := mw.Wrap(func(ctx context.Context, meta QueryMeta) (any, bool, error) {
		return 42, false, nil
	})

	result, _, err := fn(context.Background(), QueryMeta{Op: "op"})
	if err != nil {
		t.Fatalf("wrapped fn failed: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestMiddlewareFromObserver(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "audience"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver failed: %v", err)
	}
	if mw == nil {
		t.Fatal("MiddlewareFromObserver returned nil middleware")
	}

	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("nil observer error = %v, want %v", err, ErrNilObserver)
	}
}
