package schema

import "sync"

// Interner assigns stable per-instance numeric ids to column names.
// Composite keys sort their columns by interned id, which gives two keys
// built from the same column set an identical order without relying on
// lexicographic comparison or process-global state. An Interner is owned
// by the session context and passed explicitly to NewKey.
type Interner struct {
	mu    sync.RWMutex
	ids   map[string]uint32
	names []string
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]uint32, 64)}
}

// Intern returns the id for name, assigning the next id on first sight.
func (in *Interner) Intern(name string) uint32 {
	in.mu.RLock()
	id, ok := in.ids[name]
	in.mu.RUnlock()
	if ok {
		return id
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok = in.ids[name]; ok {
		return id
	}
	id = uint32(len(in.names))
	in.ids[name] = id
	in.names = append(in.names, name)
	return id
}

// Name returns the name interned under id.
func (in *Interner) Name(id uint32) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// Len returns the number of interned names.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names)
}
