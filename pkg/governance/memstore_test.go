package governance

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMemoryStoreDefaultsToActive(t *testing.T) {
	store := NewMemoryStore()
	state, err := store.Get(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Status != StatusActive {
		t.Errorf("status = %s, want active", state.Status)
	}
}

func TestMemoryStoreCompareAndSwap(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	state, swapped, err := store.CompareAndSwap(ctx, "e1", StatusActive, StatusFrozen, now)
	if err != nil || !swapped {
		t.Fatalf("CAS active->frozen: swapped=%v err=%v", swapped, err)
	}
	if state.Status != StatusFrozen {
		t.Errorf("status = %s, want frozen", state.Status)
	}

	// Stale expectation must not overwrite.
	state, swapped, err = store.CompareAndSwap(ctx, "e1", StatusActive, StatusReview, now)
	if err != nil {
		t.Fatalf("CAS: %v", err)
	}
	if swapped {
		t.Error("swap with stale expectation must fail")
	}
	if state.Status != StatusFrozen {
		t.Errorf("status after failed swap = %s, want frozen", state.Status)
	}
}

func TestMemoryStoreConcurrentFreeze(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, swapped, err := store.CompareAndSwap(ctx, "e1", StatusActive, StatusFrozen, now)
			if err != nil {
				t.Errorf("CAS: %v", err)
			}
			if swapped {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("exactly one goroutine must win the freeze, got %d", wins)
	}
	state, _ := store.Get(ctx, "e1")
	if state.Status != StatusFrozen {
		t.Errorf("status = %s, want frozen", state.Status)
	}
}

func TestMemoryStoreActionLog(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entries := []ActionLogEntry{
		{ID: "1", EntityID: "e1", Action: ActionAlert, Reason: "first"},
		{ID: "2", EntityID: "e1", Action: ActionFreezeModel, Reason: "second"},
		{ID: "3", EntityID: "e2", Action: ActionAlert, Reason: "other entity"},
	}
	if err := store.Append(ctx, entries); err != nil {
		t.Fatalf("Append: %v", err)
	}

	recent, err := store.Recent(ctx, "e1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("entries = %d, want 2", len(recent))
	}
	if recent[0].ID != "2" || recent[1].ID != "1" {
		t.Errorf("want newest first, got %s then %s", recent[0].ID, recent[1].ID)
	}

	limited, err := store.Recent(ctx, "e1", 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "2" {
		t.Errorf("limit 1 must return only the newest entry, got %+v", limited)
	}
}
