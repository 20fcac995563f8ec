//go:build js && wasm

package router

import "syscall/js"

// TimeoutScheduler runs tasks on a later turn of the browser event
// loop through setTimeout(0).
var TimeoutScheduler Scheduler = SchedulerFunc(func(task func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		task()
		return nil
	})
	js.Global().Call("setTimeout", cb, 0)
})
