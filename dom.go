package router

import (
	"sort"
	"strings"
	"sync"
)

// Node is an element of an in-memory Document.
type Node struct {
	tag      string
	attrs    map[string]string
	parent   *Node
	children []*Node
}

// NewNode creates a detached element.
//
// Example:
//
//	link := router.NewNode("a", map[string]string{"href": "/foo"})
func NewNode(tag string, attrs map[string]string, children ...*Node) *Node {
	n := &Node{tag: strings.ToLower(tag), attrs: map[string]string{}}
	for k, v := range attrs {
		n.attrs[k] = v
	}
	n.Append(children...)
	return n
}

func (n *Node) TagName() string {
	return n.tag
}

func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *Node) SetAttr(name, value string) *Node {
	n.attrs[name] = value
	return n
}

func (n *Node) RemoveAttr(name string) *Node {
	delete(n.attrs, name)
	return n
}

func (n *Node) Parent() Element {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Append attaches children, detaching them from a previous parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

func (n *Node) Children() []*Node {
	return n.children
}

// Find returns the first descendant, depth first, with the given tag.
func (n *Node) Find(tag string) *Node {
	tag = strings.ToLower(tag)
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
		if found := c.Find(tag); found != nil {
			return found
		}
	}
	return nil
}

// Document is an in-memory ClickSource with browser-like default
// actions. It stands in for the DOM outside the browser.
type Document struct {
	mu        sync.Mutex
	body      *Node
	history   History
	listeners map[int]func(*ClickEvent)
	nextID    int
	native    []string
}

// NewDocument creates a document whose default actions write to h.
func NewDocument(h History) *Document {
	if h == nil {
		h = NewMemoryHistory("/")
	}
	return &Document{
		body:      NewNode("body", nil),
		history:   h,
		listeners: map[int]func(*ClickEvent){},
	}
}

func (d *Document) Body() *Node {
	return d.body
}

// Location returns the history location, fragment included.
func (d *Document) Location() string {
	return d.history.Location()
}

// NativeNavigations lists the URLs loaded by default actions that
// left the document.
func (d *Document) NativeNavigations() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.native))
	copy(out, d.native)
	return out
}

func (d *Document) OnClick(fn func(*ClickEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
	}
}

// Click dispatches a primary button click on target.
func (d *Document) Click(target *Node) *ClickEvent {
	ev := &ClickEvent{}
	if target != nil {
		ev.Target = target
	}
	d.Dispatch(ev)
	return ev
}

// Dispatch delivers ev to the listeners in registration order and
// runs the default action unless a listener prevented it.
func (d *Document) Dispatch(ev *ClickEvent) {
	d.mu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(*ClickEvent), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, d.listeners[id])
	}
	d.mu.Unlock()

	for _, fn := range listeners {
		fn(ev)
	}

	if !ev.DefaultPrevented() {
		d.defaultAction(ev)
	}
}

func (d *Document) defaultAction(ev *ClickEvent) {
	var link *Node
	for el := ev.Target; el != nil; el = el.Parent() {
		if n, ok := el.(*Node); ok && n.tag == "a" {
			if _, ok := n.attrs["href"]; ok {
				link = n
				break
			}
		}
	}
	if link == nil {
		return
	}

	href := link.attrs["href"]
	if strings.HasPrefix(href, "#") {
		location := d.history.Location()
		if i := strings.IndexByte(location, '#'); i >= 0 {
			location = location[:i]
		}
		// fragment navigation stays in the document and is not a popstate
		d.history.Push(location + href)
		return
	}

	d.mu.Lock()
	d.native = append(d.native, href)
	d.mu.Unlock()
}
