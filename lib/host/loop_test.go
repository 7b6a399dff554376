package host

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestLoopRunsTasksInOrder verifies tasks run sequentially in submission order
func TestLoopRunsTasksInOrder(t *testing.T) {
	l := NewLoop()
	defer l.Stop()

	const taskCount = 100
	var order []int
	done := make(chan struct{})

	for i := 0; i < taskCount; i++ {
		err := l.Schedule(&Task{
			Name: strconv.Itoa(i),
			Run: func() {
				// Only the loop goroutine touches order, no lock needed
				order = append(order, i)
				if i == taskCount-1 {
					close(done)
				}
			},
		})
		if err != nil {
			t.Fatalf("Failed to schedule task %d: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Timeout waiting for %d tasks to run", taskCount)
	}

	if len(order) != taskCount {
		t.Fatalf("Expected %d tasks to run, got %d", taskCount, len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("Task %d ran out of order (position %d)", got, i)
		}
	}
}

// TestLoopNeverOverlapsTasks verifies that tasks scheduled from many
// goroutines never run concurrently
func TestLoopNeverOverlapsTasks(t *testing.T) {
	l := NewLoop()
	defer l.Stop()

	const producers = 8
	const tasksPerProducer = 200

	var running int32
	var overlaps int32
	var wg sync.WaitGroup
	var ran int32
	allDone := make(chan struct{})

	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < tasksPerProducer; i++ {
				_ = l.Schedule(&Task{
					Name: "overlap-probe",
					Run: func() {
						if atomic.AddInt32(&running, 1) != 1 {
							atomic.AddInt32(&overlaps, 1)
						}
						atomic.AddInt32(&running, -1)
						if atomic.AddInt32(&ran, 1) == producers*tasksPerProducer {
							close(allDone)
						}
					},
				})
			}
		}()
	}

	wg.Wait()

	select {
	case <-allDone:
	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for tasks, ran %d", atomic.LoadInt32(&ran))
	}

	if n := atomic.LoadInt32(&overlaps); n != 0 {
		t.Errorf("Detected %d overlapping task executions", n)
	}
}

// TestLoopSurvivesPanic verifies a panicking task does not kill the loop
func TestLoopSurvivesPanic(t *testing.T) {
	l := NewLoop()
	defer l.Stop()

	if err := l.Schedule(&Task{
		Name: "boom",
		Run:  func() { panic("task failed badly") },
	}); err != nil {
		t.Fatalf("Failed to schedule panicking task: %v", err)
	}

	// A later task must still run
	done := make(chan struct{})
	if err := l.Schedule(&Task{
		Name: "after-boom",
		Run:  func() { close(done) },
	}); err != nil {
		t.Fatalf("Failed to schedule task after panic: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Loop did not survive a panicking task")
	}
}

// TestLoopStopDrainsSubmittedTasks verifies Stop waits for already
// submitted tasks before returning
func TestLoopStopDrainsSubmittedTasks(t *testing.T) {
	l := NewLoop()

	const taskCount = 50
	var ran int32

	for i := 0; i < taskCount; i++ {
		if err := l.Schedule(&Task{
			Name: strconv.Itoa(i),
			Run:  func() { atomic.AddInt32(&ran, 1) },
		}); err != nil {
			t.Fatalf("Failed to schedule task %d: %v", i, err)
		}
	}

	l.Stop()

	if n := atomic.LoadInt32(&ran); n != taskCount {
		t.Errorf("Expected %d tasks to run before Stop returned, got %d", taskCount, n)
	}
}

// TestLoopScheduleAfterStop verifies scheduling on a stopped loop fails
func TestLoopScheduleAfterStop(t *testing.T) {
	l := NewLoop()
	l.Stop()

	err := l.Schedule(&Task{Name: "late", Run: func() {}})
	if !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}
