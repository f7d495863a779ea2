package panel

import "sync"

// Scheduler runs a task off the caller's path. Schedule must not block on the task.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Schedule(task func()) { f(task) }

// GoScheduler runs each task on its own goroutine.
type GoScheduler struct {
	wg sync.WaitGroup
}

func (s *GoScheduler) Schedule(task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()
	}()
}

// Wait blocks until every scheduled task has returned.
func (s *GoScheduler) Wait() {
	s.wg.Wait()
}
