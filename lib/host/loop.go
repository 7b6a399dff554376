package host

import (
	"errors"

	"github.com/lni/dragonboat/v4/logger"
)

var (
	log = logger.GetLogger("host")

	// ErrStopped is returned by Schedule after the loop has been stopped
	ErrStopped = errors.New("host loop stopped")
)

// Task is a one-shot unit of work executed on the host's execution context.
type Task struct {
	// Name identifies the task in logs (usually the command type)
	Name string
	// Run is invoked exactly once on the host goroutine
	Run func()
}

// Runner schedules one-shot tasks onto the host's execution context. This
// is the only primitive the bridge borrows from the host application: an
// embedding inside a real content-creation tool implements it on top of the
// host's own timer or event API, the standalone server uses Loop.
type Runner interface {
	// Schedule enqueues a task for execution. It must be safe to call from
	// any goroutine and must never block on the task's completion.
	Schedule(t *Task) error
}

// Loop is a standalone host execution context: a single goroutine draining
// a task queue, running one task to completion at a time. All state owned
// by the tasks (such as the scene document) is therefore confined to this
// goroutine and needs no further synchronization.
type Loop struct {
	queue *TaskQueue
	done  chan struct{}
}

// NewLoop creates a Loop and starts the processing goroutine.
func NewLoop() *Loop {
	l := &Loop{
		queue: NewTaskQueue(),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// --------------------------------------------------------------------------
// Interface Methods (docu see host.Runner)
// --------------------------------------------------------------------------

func (l *Loop) Schedule(t *Task) error {
	if !l.queue.Push(t) {
		return ErrStopped
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal Methods
// --------------------------------------------------------------------------

// run processes tasks sequentially on a dedicated goroutine.
func (l *Loop) run() {
	defer close(l.done)

	for t := range l.queue.Recv() {
		l.execute(t)
	}
}

// execute runs a single task, recovering from panics so that a faulty
// task can never kill the host loop.
func (l *Loop) execute(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task %q panicked: %v", t.Name, r)
		}
	}()
	t.Run()
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Stop closes the task queue and waits until all already-submitted tasks
// have run. Safe to call multiple times.
func (l *Loop) Stop() {
	l.queue.Close()
	<-l.done
}
