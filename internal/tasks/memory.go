package tasks

// MemoryBackend keeps the collection in memory only. It backs dry runs and
// tests; nothing outlives the process.
type MemoryBackend struct {
	tasks []Task
	saves int
}

// NewMemoryBackend creates a memory backend seeded with the given tasks.
func NewMemoryBackend(seed ...Task) *MemoryBackend {
	return &MemoryBackend{tasks: cloneTasks(seed)}
}

// Name returns the backend identifier
func (m *MemoryBackend) Name() string {
	return "memory"
}

func (m *MemoryBackend) Load() ([]Task, error) {
	return cloneTasks(m.tasks), nil
}

func (m *MemoryBackend) Save(tasks []Task) error {
	m.tasks = cloneTasks(tasks)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemoryBackend) Saves() int {
	return m.saves
}

func cloneTasks(in []Task) []Task {
	out := make([]Task, len(in))
	for i, t := range in {
		out[i] = t.clone()
	}
	return out
}

// Register the memory backend
func init() {
	Register("memory", func(BackendOptions) (Backend, error) { return NewMemoryBackend(), nil })
}
