package index

import (
	"sync"

	"github.com/tliron/commonlog"
)

// Task is a unit of background index work.
type Task struct {
	Name    string
	Execute func() error
}

// Scheduler serializes index maintenance on one goroutine so store
// writes never race, while requests keep reading the database freely.
type Scheduler struct {
	taskQueue chan Task
	stopChan  chan struct{}
	wg        sync.WaitGroup
	log       commonlog.Logger
}

// NewScheduler creates a Scheduler with the specified queue size.
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan Task, queueSize),
		stopChan:  make(chan struct{}),
		log:       commonlog.GetLogger("index.scheduler"),
	}
}

// Run starts the scheduler loop.
func (s *Scheduler) Run() {
	go func() {
		for {
			select {
			case task, ok := <-s.taskQueue:
				if !ok {
					return
				}
				s.execute(task)
			case <-s.stopChan:
				// Drain the queue before exiting.
				for {
					select {
					case task := <-s.taskQueue:
						s.execute(task)
					default:
						return
					}
				}
			}
		}
	}()
}

func (s *Scheduler) execute(task Task) {
	defer s.wg.Done()
	if err := task.Execute(); err != nil {
		s.log.Errorf("task %s failed: %v", task.Name, err)
	}
}

// Schedule enqueues a task, dropping it when the queue is full; a full
// queue means a rebuild is already pending that will cover the change.
func (s *Scheduler) Schedule(task Task) {
	s.wg.Add(1)
	select {
	case s.taskQueue <- task:
	default:
		s.wg.Done()
		s.log.Warningf("queue full, dropped task %s", task.Name)
	}
}

// Stop waits for queued tasks to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
