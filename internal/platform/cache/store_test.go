package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "fixture:list", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "league:list", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "league:list", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_EntriesExpire(t *testing.T) {
	t.Parallel()

	store := NewStore(10 * time.Millisecond)
	store.Set(context.Background(), "team:code:ARS", "Arsenal")

	if _, ok := store.Get(context.Background(), "team:code:ARS"); !ok {
		t.Fatal("fresh entry missing")
	}

	time.Sleep(25 * time.Millisecond)

	if _, ok := store.Get(context.Background(), "team:code:ARS"); ok {
		t.Fatal("expired entry still served")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "fixture:list", "all")
	store.Set(ctx, "fixture:list:premier-league", "pl")
	store.Set(ctx, "league:list", "leagues")

	store.DeletePrefix(ctx, "fixture:")

	if _, ok := store.Get(ctx, "fixture:list"); ok {
		t.Fatal("prefixed entry survived DeletePrefix")
	}
	if _, ok := store.Get(ctx, "fixture:list:premier-league"); ok {
		t.Fatal("prefixed entry survived DeletePrefix")
	}
	if _, ok := store.Get(ctx, "league:list"); !ok {
		t.Fatal("unrelated entry dropped by DeletePrefix")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
