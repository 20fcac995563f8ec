//go:build !(js && wasm)

package router

func platformHistory() History {
	return NewMemoryHistory("/")
}

func platformScheduler() Scheduler {
	return SyncScheduler
}
