package repository

import (
	"fmt"
	"sync"
	"testing"

	"geofencing-app/geofencing-service/internal/models"
)

func testSub(id string) models.Subscription {
	return models.Subscription{
		ID:       id,
		Protocol: "HTTP",
		Sink:     "http://localhost:9000/callback",
		Types:    []string{models.EventTypeAreaEntered},
		Status:   models.StatusActive,
	}
}

func TestInsertGetRemove(t *testing.T) {
	store := NewSubscriptionStore()
	store.Insert(testSub("a"))

	if _, ok := store.Get("a"); !ok {
		t.Fatal("inserted subscription not found")
	}
	st, ok := store.State("a")
	if !ok {
		t.Fatal("runtime state missing after insert")
	}
	if st.Classification != models.ClassUnknown || st.EventsSent != 0 {
		t.Errorf("fresh state = %+v, want unknown/0", st)
	}

	removed, ok := store.Remove("a")
	if !ok || removed.ID != "a" {
		t.Fatalf("Remove = %v, %v", removed, ok)
	}
	if _, ok := store.Get("a"); ok {
		t.Error("subscription still present after Remove")
	}
	if _, ok := store.State("a"); ok {
		t.Error("runtime state still present after Remove")
	}
	if _, ok := store.Remove("a"); ok {
		t.Error("second Remove should report not found")
	}
}

func TestStateMutationAfterDelete(t *testing.T) {
	store := NewSubscriptionStore()
	store.Insert(testSub("a"))
	store.Remove("a")

	if store.SetClassification("a", models.ClassInside) {
		t.Error("SetClassification resurrected a deleted subscription")
	}
	if _, ok := store.IncrementEvents("a"); ok {
		t.Error("IncrementEvents resurrected a deleted subscription")
	}
}

func TestIncrementEvents(t *testing.T) {
	store := NewSubscriptionStore()
	store.Insert(testSub("a"))

	for i := 1; i <= 3; i++ {
		n, ok := store.IncrementEvents("a")
		if !ok || n != i {
			t.Fatalf("IncrementEvents #%d = %d, %v", i, n, ok)
		}
	}
	st, _ := store.State("a")
	if st.EventsSent != 3 {
		t.Errorf("EventsSent = %d, want 3", st.EventsSent)
	}
}

func TestSnapshotStableUnderConcurrentChurn(t *testing.T) {
	store := NewSubscriptionStore()
	for i := 0; i < 50; i++ {
		store.Insert(testSub(fmt.Sprintf("sub-%d", i)))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			store.Remove(fmt.Sprintf("sub-%d", i))
			store.Insert(testSub(fmt.Sprintf("new-%d", i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			for _, sub := range store.Snapshot() {
				store.SetClassification(sub.ID, models.ClassOutside)
			}
		}
	}()
	wg.Wait()
}
