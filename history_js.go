//go:build js && wasm

package router

import (
	"sort"
	"sync"
	"syscall/js"
)

// BrowserHistory is the History backed by window.history. Traversal
// is observed through the popstate event.
type BrowserHistory struct {
	mu        sync.Mutex
	window    js.Value
	listeners map[int]func(string)
	nextID    int
	popstate  js.Func
	listening bool
}

func NewBrowserHistory() *BrowserHistory {
	return &BrowserHistory{
		window:    js.Global(),
		listeners: map[int]func(string){},
	}
}

func (h *BrowserHistory) Location() string {
	location := h.window.Get("location")
	return location.Get("pathname").String() +
		location.Get("search").String() +
		location.Get("hash").String()
}

func (h *BrowserHistory) Push(url string) {
	h.window.Get("history").Call("pushState", js.Null(), "", url)
}

func (h *BrowserHistory) Replace(url string) {
	h.window.Get("history").Call("replaceState", js.Null(), "", url)
}

func (h *BrowserHistory) Listen(fn func(url string)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	if !h.listening {
		h.popstate = js.FuncOf(func(this js.Value, args []js.Value) any {
			h.notify(h.Location())
			return nil
		})
		h.window.Call("addEventListener", "popstate", h.popstate)
		h.listening = true
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.listeners, id)
			if len(h.listeners) == 0 && h.listening {
				h.window.Call("removeEventListener", "popstate", h.popstate)
				h.popstate.Release()
				h.listening = false
			}
		})
	}
}

func (h *BrowserHistory) notify(location string) {
	h.mu.Lock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(string), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(location)
	}
}
