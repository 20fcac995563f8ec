package router

import (
	"sync"
)

// History is the platform history stack used by the Broadcaster.
// Push and Replace never notify listeners; listeners only observe
// traversal (back/forward), mirroring the browser popstate event.
type History interface {
	Location() string
	Push(url string)
	Replace(url string)
	// Listen registers fn for traversal notifications and returns a
	// function that removes it.
	Listen(fn func(url string)) (unlisten func())
}

// MemoryHistory is an in-memory History for tests and non browser
// hosts.
type MemoryHistory struct {
	mu        sync.Mutex
	entries   []string
	index     int
	listeners map[int]func(string)
	nextID    int
}

// NewMemoryHistory creates a history with a single entry. An empty
// initial location defaults to "/".
func NewMemoryHistory(initial string) *MemoryHistory {
	if initial == "" {
		initial = "/"
	}
	return &MemoryHistory{
		entries:   []string{initial},
		listeners: make(map[int]func(string)),
	}
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Push adds an entry after the current one, dropping any forward entries.
func (h *MemoryHistory) Push(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], url)
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) Replace(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.index] = url
}

func (h *MemoryHistory) Listen(fn func(url string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
		})
	}
}

// Back moves one entry back. It returns false when there is no entry.
func (h *MemoryHistory) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward. It returns false when there is no entry.
func (h *MemoryHistory) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and notifies listeners with the new location.
func (h *MemoryHistory) Go(delta int) bool {
	h.mu.Lock()
	target := h.index + delta
	if delta == 0 || target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		return false
	}
	h.index = target
	location := h.entries[target]
	listeners := make([]func(string), 0, len(h.listeners))
	for id := 0; id < h.nextID; id++ {
		if fn, ok := h.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(location)
	}
	return true
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a copy of the stack, oldest first.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
