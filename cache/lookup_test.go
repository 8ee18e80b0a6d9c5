package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/sync/singleflight"
)

func TestLookup_MissThenHit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) ([]string, []string, error) {
		computes++
		return []string{"m1", "m2"}, []string{"og_membership_list"}, nil
	}

	got, hit, err := Lookup(ctx, store, nil, "k1", compute)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if hit {
		t.Error("first Lookup should be a miss")
	}
	if len(got) != 2 || got[0] != "m1" || got[1] != "m2" {
		t.Errorf("Lookup returned %v", got)
	}

	// Second identical lookup is served from cache
	got, hit, err = Lookup(ctx, store, nil, "k1", compute)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !hit {
		t.Error("second Lookup should be a hit")
	}
	if computes != 1 {
		t.Errorf("compute ran %d times, want 1", computes)
	}
	if len(got) != 2 {
		t.Errorf("cached Lookup returned %v", got)
	}
}

func TestLookup_EmptyResultIsCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) ([]string, []string, error) {
		computes++
		return []string{}, []string{"og_membership_list"}, nil
	}

	if _, _, err := Lookup(ctx, store, nil, "empty", compute); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	// The empty result was cached: absence means miss, not "empty"
	_, hit, err := Lookup(ctx, store, nil, "empty", compute)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !hit {
		t.Error("empty result should have been cached")
	}
	if computes != 1 {
		t.Errorf("compute ran %d times, want 1", computes)
	}
}

func TestLookup_ErrorsAreNotCached(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("record store down")
	computes := 0
	compute := func(ctx context.Context) ([]string, []string, error) {
		computes++
		if computes == 1 {
			return nil, nil, boom
		}
		return []string{"m1"}, []string{"og_membership_list"}, nil
	}

	if _, _, err := Lookup(ctx, store, nil, "k1", compute); !errors.Is(err, boom) {
		t.Fatalf("Lookup error = %v, want %v", err, boom)
	}

	// The failure was not cached; the retry recomputes and succeeds
	got, hit, err := Lookup(ctx, store, nil, "k1", compute)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if hit {
		t.Error("failed computation must not populate the cache")
	}
	if len(got) != 1 {
		t.Errorf("Lookup returned %v", got)
	}
}

func TestLookup_NilStoreComputesEveryTime(t *testing.T) {
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) (int, []string, error) {
		computes++
		return computes, nil, nil
	}

	for i := 1; i <= 3; i++ {
		got, hit, err := Lookup(ctx, nil, nil, "k", compute)
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if hit {
			t.Error("Lookup without a store can never hit")
		}
		if got != i {
			t.Errorf("Lookup returned %d, want %d", got, i)
		}
	}
}

func TestLookup_SingleflightCollapsesConcurrentMisses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var computes atomic.Int64
	release := make(chan struct{})
	compute := func(ctx context.Context) ([]string, []string, error) {
		computes.Add(1)
		<-release
		return []string{"m1"}, []string{"og_membership_list"}, nil
	}

	var group singleflight.Group
	const callers = 10

	var wg sync.WaitGroup
	wg.Add(callers)
	results := make([][]string, callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			got, _, err := Lookup(ctx, store, &group, "shared", compute)
			if err != nil {
				t.Errorf("Lookup failed: %v", err)
			}
			results[i] = got
		}(i)
	}

	close(release)
	wg.Wait()

	if n := computes.Load(); n != 1 {
		t.Errorf("compute ran %d times, want 1", n)
	}
	for i, r := range results {
		if len(r) != 1 || r[0] != "m1" {
			t.Errorf("caller %d got %v", i, r)
		}
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (failingStore) Set(context.Context, string, []byte, []string) error {
	return errors.New("unavailable")
}

func (failingStore) Invalidate(context.Context, ...string) error { return errors.New("unavailable") }

func (failingStore) Flush(context.Context) error { return errors.New("unavailable") }

func TestLookup_StoreFailureDegradesToRecompute(t *testing.T) {
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) ([]string, []string, error) {
		computes++
		return []string{"m1"}, nil, nil
	}

	// Set failures are swallowed; the query still succeeds
	got, _, err := Lookup(ctx, failingStore{}, nil, "k", compute)
	if err != nil {
		t.Fatalf("Lookup against a failing store errored: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Lookup returned %v", got)
	}

	// And the next call simply recomputes
	_, hit, err := Lookup(ctx, failingStore{}, nil, "k", compute)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if hit {
		t.Error("failing store can never produce a hit")
	}
	if computes != 2 {
		t.Errorf("compute ran %d times, want 2", computes)
	}
}
