package tasks

import (
	"fmt"
	"time"
)

// Store owns the in-memory task collection for a single invocation.
//
// Tasks are indexed by ID; order records insertion so that stable sorts
// have a deterministic starting sequence.
type Store struct {
	backend Backend
	now     func() time.Time
	byID    map[int]*Task
	order   []int

	// DedupeQuery collapses tasks matched by more than one query term.
	DedupeQuery bool
}

// Open loads the persisted collection from b and recomputes task ages.
// A backend with no persisted state yields an empty store.
func Open(b Backend, now func() time.Time) (*Store, error) {
	if b == nil {
		return nil, fmt.Errorf("nil backend")
	}
	if now == nil {
		now = time.Now
	}

	loaded, err := b.Load()
	if err != nil {
		return nil, fmt.Errorf("loading tasks from %s: %w", b.Name(), err)
	}

	s := &Store{
		backend: b,
		now:     now,
		byID:    make(map[int]*Task, len(loaded)),
		order:   make([]int, 0, len(loaded)),
	}

	loadTime := now()
	for i := range loaded {
		t := loaded[i]
		if t.ID <= 0 {
			return nil, fmt.Errorf("loading tasks from %s: invalid task id %d", b.Name(), t.ID)
		}
		if _, dup := s.byID[t.ID]; dup {
			return nil, fmt.Errorf("loading tasks from %s: duplicate task id %d", b.Name(), t.ID)
		}
		t.Age = ageInDays(t.Created, loadTime)
		s.byID[t.ID] = &t
		s.order = append(s.order, t.ID)
	}
	return s, nil
}

// Flush persists the full collection through the backend.
func (s *Store) Flush() error {
	if err := s.backend.Save(s.All()); err != nil {
		return fmt.Errorf("saving tasks to %s: %w", s.backend.Name(), err)
	}
	return nil
}

// Backend returns the backend the store was opened with.
func (s *Store) Backend() Backend {
	return s.backend
}

// Len returns the number of tasks in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id int) (Task, bool) {
	t, ok := s.byID[id]
	if !ok {
		return Task{}, false
	}
	return t.clone(), true
}

// All returns copies of every task in insertion order.
func (s *Store) All() []Task {
	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].clone())
	}
	return out
}

// NextID derives a fresh identifier from the current collection. It is
// recomputed on every call so deletions are always reflected.
// IDs are not reserved: once the highest task is deleted its ID is handed
// out again, while gaps below the maximum are never filled.
func (s *Store) NextID() int {
	highest := 0
	for id := range s.byID {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}

// Add validates and appends a new task, returning its ID.
// An invalid due date leaves the store untouched.
func (s *Store) Add(name string, priority int, due string) (int, error) {
	created := s.now().Round(0)
	t, err := newTask(s.NextID(), name, priority, due, created)
	if err != nil {
		return 0, err
	}
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
	return t.ID, nil
}

// Done stamps the task's completion time. A task is completed once; a
// second call reports ErrAlreadyCompleted and keeps the original stamp.
func (s *Store) Done(id int) error {
	t, ok := s.byID[id]
	if !ok {
		return notFound(id)
	}
	if t.Completed != nil {
		return &TaskError{Kind: ErrAlreadyCompleted, ID: id}
	}
	completed := s.now().Round(0)
	t.Completed = &completed
	return nil
}

// Delete removes the task with the given ID. Other IDs are left as is.
func (s *Store) Delete(id int) error {
	if _, ok := s.byID[id]; !ok {
		return notFound(id)
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
