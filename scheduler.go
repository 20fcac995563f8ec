package router

import "sync"

// Scheduler runs deferred work on a later turn of the host loop.
// The Broadcaster uses it to drain navigations issued while a
// notification pass was running.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) {
	f(task)
}

// SyncScheduler runs tasks as soon as they are scheduled. The
// Broadcaster only schedules once the outermost pass has finished,
// so queued navigations still run after the current one settles.
var SyncScheduler Scheduler = SchedulerFunc(func(task func()) {
	task()
})

// TaskQueue holds scheduled tasks until Flush is called. It is
// useful in tests and in hosts that own their event loop.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []func()
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{}
}

func (q *TaskQueue) Schedule(task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs pending tasks, including tasks scheduled while
// flushing, and returns how many ran.
func (q *TaskQueue) Flush() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return ran
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
		ran++
	}
}
