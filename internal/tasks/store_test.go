package tasks

import (
	"errors"
	"testing"
	"time"
)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var baseTime = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T, seed ...Task) (*Store, *MemoryBackend, *testClock) {
	t.Helper()
	clock := &testClock{t: baseTime}
	backend := NewMemoryBackend(seed...)
	store, err := Open(backend, clock.Now)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, backend, clock
}

func mustAdd(t *testing.T, s *Store, name string, priority int, due string) int {
	t.Helper()
	id, err := s.Add(name, priority, due)
	if err != nil {
		t.Fatalf("Add(%q): %v", name, err)
	}
	return id
}

func ids(list []Task) []int {
	out := make([]int, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpenEmptyBackend(t *testing.T) {
	store, _, _ := newTestStore(t)
	if store.Len() != 0 {
		t.Fatalf("Expected empty store, got %d tasks", store.Len())
	}
	if store.NextID() != 1 {
		t.Errorf("Expected first ID 1, got %d", store.NextID())
	}
}

func TestOpenComputesAges(t *testing.T) {
	store, _, _ := newTestStore(t,
		Task{ID: 1, Name: "old", Priority: 1, Created: baseTime.Add(-3*24*time.Hour - 5*time.Hour)},
		Task{ID: 2, Name: "new", Priority: 1, Created: baseTime.Add(-2 * time.Hour)},
	)

	old, _ := store.Get(1)
	if old.Age != 3 {
		t.Errorf("Expected age 3, got %d", old.Age)
	}
	fresh, _ := store.Get(2)
	if fresh.Age != 0 {
		t.Errorf("Expected age 0, got %d", fresh.Age)
	}
}

func TestOpenAgesFollowLoadTime(t *testing.T) {
	backend := NewMemoryBackend(Task{ID: 1, Name: "a", Priority: 1, Created: baseTime})

	first, err := Open(backend, func() time.Time { return baseTime.Add(24 * time.Hour) })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	second, err := Open(backend, func() time.Time { return baseTime.Add(10 * 24 * time.Hour) })
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	a, _ := first.Get(1)
	b, _ := second.Get(1)
	if a.Age != 1 || b.Age != 10 {
		t.Errorf("Expected ages 1 and 10, got %d and %d", a.Age, b.Age)
	}
}

func TestOpenRejectsDuplicateIDs(t *testing.T) {
	backend := NewMemoryBackend(
		Task{ID: 1, Name: "a", Created: baseTime},
		Task{ID: 1, Name: "b", Created: baseTime},
	)
	if _, err := Open(backend, nil); err == nil {
		t.Fatal("expected error for duplicate IDs")
	}
}

func TestOpenRejectsNilBackend(t *testing.T) {
	if _, err := Open(nil, nil); err == nil {
		t.Fatal("expected error for nil backend")
	}
}

func TestAddAssignsIncreasingIDs(t *testing.T) {
	store, _, _ := newTestStore(t)

	var got []int
	for _, name := range []string{"a", "b", "c"} {
		got = append(got, mustAdd(t, store, name, 1, ""))
	}
	if !equalIDs(got, []int{1, 2, 3}) {
		t.Fatalf("Expected IDs [1 2 3], got %v", got)
	}

	// Removing earlier tasks never lowers the next ID.
	if err := store.Delete(1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if id := mustAdd(t, store, "d", 1, ""); id != 4 {
		t.Errorf("Expected ID 4 after deleting earlier tasks, got %d", id)
	}
}

func TestNextIDFollowsLiveMaximum(t *testing.T) {
	store, _, _ := newTestStore(t)
	mustAdd(t, store, "a", 1, "")
	mustAdd(t, store, "b", 1, "")
	if err := store.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.NextID() != 2 {
		t.Errorf("Expected NextID 2 after deleting the highest task, got %d", store.NextID())
	}
}

func TestAddNormalizesFields(t *testing.T) {
	store, _, clock := newTestStore(t)
	id := mustAdd(t, store, "Buy ALPHA Milk", 3, "9/3/2023")

	task, ok := store.Get(id)
	if !ok {
		t.Fatalf("task %d not found", id)
	}
	if task.Name != "buy alpha milk" {
		t.Errorf("Expected lowercased name, got %q", task.Name)
	}
	if task.Due != "09/03/2023" {
		t.Errorf("Expected due 09/03/2023, got %q", task.Due)
	}
	if task.Priority != 3 {
		t.Errorf("Expected priority 3, got %d", task.Priority)
	}
	if !task.Created.Equal(clock.Now()) {
		t.Errorf("Expected created %v, got %v", clock.Now(), task.Created)
	}
	if !task.Outstanding() {
		t.Error("Expected new task to be outstanding")
	}
}

func TestAddInvalidDueCreatesNothing(t *testing.T) {
	store, _, _ := newTestStore(t)
	mustAdd(t, store, "a", 1, "")

	for _, due := range []string{"9-3-2023", "13/1/2023"} {
		id, err := store.Add("bad", 1, due)
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Fatalf("Add(due=%q): expected ErrInvalidDateFormat, got %v", due, err)
		}
		if id != 0 {
			t.Errorf("Expected no ID on failure, got %d", id)
		}
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 task after failed adds, got %d", store.Len())
	}
}

func TestDone(t *testing.T) {
	store, _, clock := newTestStore(t)
	id := mustAdd(t, store, "task", 1, "")

	clock.Advance(2 * time.Hour)
	if err := store.Done(id); err != nil {
		t.Fatalf("Done: %v", err)
	}

	task, _ := store.Get(id)
	if task.Completed == nil || !task.Completed.Equal(clock.Now()) {
		t.Fatalf("Expected completion at %v, got %v", clock.Now(), task.Completed)
	}
	if len(store.List()) != 0 {
		t.Errorf("Expected completed task to leave the list")
	}
	if got := ids(store.Report()); !equalIDs(got, []int{id}) {
		t.Errorf("Expected report to keep completed task, got %v", got)
	}
}

func TestDoneTwiceKeepsFirstStamp(t *testing.T) {
	store, _, clock := newTestStore(t)
	id := mustAdd(t, store, "task", 1, "")
	if err := store.Done(id); err != nil {
		t.Fatalf("Done: %v", err)
	}
	first, _ := store.Get(id)

	clock.Advance(time.Hour)
	for i := 0; i < 2; i++ {
		if err := store.Done(id); !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("Expected ErrAlreadyCompleted, got %v", err)
		}
	}

	again, _ := store.Get(id)
	if !again.Completed.Equal(*first.Completed) {
		t.Errorf("Expected completion stamp to stay %v, got %v", *first.Completed, *again.Completed)
	}
}

func TestDoneUnknownID(t *testing.T) {
	store, _, _ := newTestStore(t)
	mustAdd(t, store, "task", 1, "")
	if err := store.Done(99); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestDoneFindsTaskAnywhere(t *testing.T) {
	store, _, _ := newTestStore(t)
	for _, name := range []string{"a", "b", "c"} {
		mustAdd(t, store, name, 1, "")
	}
	if err := store.Done(2); err != nil {
		t.Fatalf("Done: %v", err)
	}
	// Completion does not move the task.
	if got := ids(store.All()); !equalIDs(got, []int{1, 2, 3}) {
		t.Errorf("Expected insertion order [1 2 3], got %v", got)
	}
}

func TestDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	for _, name := range []string{"a", "b", "c"} {
		mustAdd(t, store, name, 1, "")
	}

	if err := store.Delete(2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := ids(store.All()); !equalIDs(got, []int{1, 3}) {
		t.Errorf("Expected remaining IDs [1 3], got %v", got)
	}
	if _, ok := store.Get(2); ok {
		t.Error("Expected task 2 to be gone")
	}
}

func TestDeleteUnknownIDLeavesStore(t *testing.T) {
	store, _, _ := newTestStore(t)
	mustAdd(t, store, "a", 1, "")
	mustAdd(t, store, "b", 2, "1/1/2030")
	before := store.All()

	if err := store.Delete(7); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Expected ErrTaskNotFound, got %v", err)
	}

	after := store.All()
	if len(after) != len(before) {
		t.Fatalf("Expected %d tasks, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Name != after[i].Name || before[i].Due != after[i].Due {
			t.Errorf("task %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestFlushSavesCollection(t *testing.T) {
	store, backend, _ := newTestStore(t)
	mustAdd(t, store, "a", 1, "")
	mustAdd(t, store, "b", 1, "")
	if err := store.Done(1); err != nil {
		t.Fatalf("Done: %v", err)
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if backend.Saves() != 1 {
		t.Errorf("Expected 1 save, got %d", backend.Saves())
	}

	reopened, err := Open(backend, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Len() != 2 {
		t.Fatalf("Expected 2 tasks after reopen, got %d", reopened.Len())
	}
	done, _ := reopened.Get(1)
	if done.Outstanding() {
		t.Error("Expected task 1 to stay completed after reopen")
	}
}

func TestViewsReturnCopies(t *testing.T) {
	store, _, _ := newTestStore(t)
	id := mustAdd(t, store, "a", 1, "")

	list := store.List()
	list[0].Name = "mutated"
	list[0].Priority = 9

	task, _ := store.Get(id)
	if task.Name != "a" || task.Priority != 1 {
		t.Errorf("Expected store to be unaffected by view edits, got %+v", task)
	}
}

func TestCompletionTimeCannotBeChangedThroughCopies(t *testing.T) {
	store, backend, _ := newTestStore(t)
	id := mustAdd(t, store, "a", 1, "")
	if err := store.Done(id); err != nil {
		t.Fatalf("Done: %v", err)
	}
	stamped, _ := store.Get(id)
	want := *stamped.Completed

	views := map[string]func() []Task{
		"report": store.Report,
		"all":    store.All,
		"get": func() []Task {
			task, _ := store.Get(id)
			return []Task{task}
		},
	}
	for name, view := range views {
		rows := view()
		if len(rows) != 1 || rows[0].Completed == nil {
			t.Fatalf("%s: expected one completed task, got %+v", name, rows)
		}
		*rows[0].Completed = time.Time{}
	}

	task, _ := store.Get(id)
	if !task.Completed.Equal(want) {
		t.Errorf("Expected completion %v to survive edits, got %v", want, *task.Completed)
	}

	if err := store.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	saved, _ := backend.Load()
	if !saved[0].Completed.Equal(want) {
		t.Errorf("Expected flushed completion %v, got %v", want, *saved[0].Completed)
	}
}
