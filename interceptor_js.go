//go:build js && wasm

package router

import (
	"strings"
	"syscall/js"
)

// DocumentClicks is the ClickSource for the browser document.
type DocumentClicks struct {
	document js.Value
}

func NewDocumentClicks() *DocumentClicks {
	return &DocumentClicks{document: js.Global().Get("document")}
}

func (d *DocumentClicks) OnClick(fn func(*ClickEvent)) func() {
	handler := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		native := args[0]
		ev := &ClickEvent{
			Button:    native.Get("button").Int(),
			Meta:      native.Get("metaKey").Bool(),
			Ctrl:      native.Get("ctrlKey").Bool(),
			Shift:     native.Get("shiftKey").Bool(),
			Alt:       native.Get("altKey").Bool(),
			prevented: native.Get("defaultPrevented").Bool(),
		}
		if target := native.Get("target"); isElement(target) {
			ev.Target = jsElement{value: target}
		}
		fn(ev)
		if ev.DefaultPrevented() {
			native.Call("preventDefault")
		}
		return nil
	})
	d.document.Call("addEventListener", "click", handler)

	return func() {
		d.document.Call("removeEventListener", "click", handler)
		handler.Release()
	}
}

// AttachDocument attaches the interceptor to the browser document.
func (i *Interceptor) AttachDocument() {
	i.Attach(NewDocumentClicks())
}

type jsElement struct {
	value js.Value
}

func isElement(v js.Value) bool {
	return v.Truthy() && v.Get("nodeType").Int() == 1
}

func (e jsElement) TagName() string {
	return strings.ToLower(e.value.Get("tagName").String())
}

func (e jsElement) Attr(name string) (string, bool) {
	if !e.value.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.value.Call("getAttribute", name).String(), true
}

func (e jsElement) Parent() Element {
	parent := e.value.Get("parentElement")
	if !isElement(parent) {
		return nil
	}
	return jsElement{value: parent}
}
