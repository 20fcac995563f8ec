//go:build js && wasm

package router

func platformHistory() History {
	return NewBrowserHistory()
}

func platformScheduler() Scheduler {
	return TimeoutScheduler
}
