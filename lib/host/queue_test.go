package host

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// noop returns a task that does nothing, identified by name
func noop(name string) *Task {
	return &Task{Name: name, Run: func() {}}
}

// TestBasicOperations tests basic push and consume functionality
func TestBasicOperations(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()

	// Push 10 tasks
	for i := 0; i < 10; i++ {
		if !q.Push(noop(strconv.Itoa(i))) {
			t.Fatalf("Failed to push task %d", i)
		}
	}

	// Consume 10 tasks
	for i := 0; i < 10; i++ {
		select {
		case task := <-q.Recv():
			if task.Name != strconv.Itoa(i) {
				t.Errorf("Expected task %d, got %v", i, task.Name)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for task %d", i)
		}
	}

	// Make sure queue is empty
	select {
	case task := <-q.Recv():
		t.Errorf("Queue should be empty, but got %v", task.Name)
	case <-time.After(10 * time.Millisecond):
		// Expected timeout, queue is empty
	}
}

// TestConcurrentProducers verifies the queue works correctly with multiple producers
func TestConcurrentProducers(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()

	const numProducers = 10
	const tasksPerProducer = 1000
	totalTasks := numProducers * tasksPerProducer

	// Use a map to track received tasks
	var mu sync.Mutex
	received := make(map[string]bool)

	// Start a consumer goroutine
	done := make(chan struct{})
	receivedCount := 0

	go func() {
		defer close(done)

		for receivedCount < totalTasks {
			select {
			case task := <-q.Recv():

				if task == nil {
					t.Errorf("Received nil task")
					return
				}

				mu.Lock()
				if received[task.Name] {
					t.Errorf("Duplicate task received: %v", task.Name)
				}
				received[task.Name] = true
				receivedCount++
				mu.Unlock()
			case <-time.After(2 * time.Second):
				t.Errorf("Timeout waiting for tasks, received %d of %d", receivedCount, totalTasks)
				return
			}
		}
	}()

	// Start producers
	var wg sync.WaitGroup
	wg.Add(numProducers)

	for p := 0; p < numProducers; p++ {
		go func(producerID int) {
			defer wg.Done()

			for i := 0; i < tasksPerProducer; i++ {
				name := fmt.Sprintf("%d-%d", producerID, i)
				if !q.Push(noop(name)) {
					t.Errorf("Producer %d failed to push task %d", producerID, i)
				}

				// Add some randomness to producer timing
				if i%100 == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}

	// Wait for all producers to finish
	wg.Wait()

	// Wait for consumer to process all tasks
	select {
	case <-done:
		// Consumer finished
	case <-time.After(5 * time.Second):
		t.Fatalf("Timeout waiting for consumer to finish")
	}

	// Verify we got all expected tasks
	if receivedCount != totalTasks {
		t.Errorf("Expected %d tasks, got %d", totalTasks, receivedCount)
	}
}

// TestCloseQueue verifies closing behavior
func TestCloseQueue(t *testing.T) {
	q := NewTaskQueue()

	// Push some tasks
	for i := 0; i < 5; i++ {
		q.Push(noop(strconv.Itoa(i)))
	}

	// Close the queue
	q.Close()

	// Verify we can't push after closing
	if q.Push(noop("late")) {
		t.Error("Should not be able to push after queue is closed")
	}

	// Verify we can still read existing tasks
	for i := 0; i < 5; i++ {
		select {
		case task := <-q.Recv():
			if task.Name != strconv.Itoa(i) {
				t.Errorf("Expected task %d, got %v", i, task.Name)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for task %d after close", i)
		}
	}

	// Verify the channel is closed after reading all tasks
	if _, ok := <-q.Recv(); ok {
		t.Error("Channel should be closed but is still open")
	}
}

// TestOrderingUnderLoad tests that tasks from a single producer are
// received in submission order
func TestOrderingUnderLoad(t *testing.T) {
	q := NewTaskQueue()
	defer q.Close()

	// Start a single producer pushing sequential numbers
	const taskCount = 10000
	go func() {
		for i := 0; i < taskCount; i++ {
			q.Push(noop(strconv.Itoa(i)))
		}
	}()

	// Consume tasks and verify order
	prev := -1
	outOfOrderCount := 0

	for i := 0; i < taskCount; i++ {
		select {
		case task := <-q.Recv():
			current, err := strconv.Atoi(task.Name)
			if err != nil {
				t.Fatalf("Unexpected task name %q: %v", task.Name, err)
			}
			if current < prev {
				outOfOrderCount++
			}
			prev = current
		case <-time.After(1 * time.Second):
			t.Fatalf("Timeout waiting for task %d", i)
		}
	}

	// With a single producer, tasks must be in order
	if outOfOrderCount > 0 {
		t.Errorf("Found %d tasks out of order with single producer", outOfOrderCount)
	}
}

// TestMemoryLeak tests for memory leaks in the queue
func TestMemoryLeak(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory leak test in short mode")
	}

	q := NewTaskQueue()
	defer q.Close()

	// Process a large number of tasks
	const iterations = 1000000
	const batchSize = 1000

	// Single consumer
	var consumedCount int32
	go func() {
		for atomic.LoadInt32(&consumedCount) < iterations {
			<-q.Recv()
			atomic.AddInt32(&consumedCount, 1)
		}
	}()

	// Record memory stats before
	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	// Push and consume many tasks in batches
	task := noop("leak-probe")
	for i := 0; i < iterations; i += batchSize {
		// Push a batch
		for j := 0; j < batchSize; j++ {
			q.Push(task)
		}

		// Wait for consumer to catch up
		for atomic.LoadInt32(&consumedCount) < int32(i+batchSize) {
			time.Sleep(10 * time.Millisecond)
		}

		// Force GC to clean up processed nodes
		if i%50000 == 0 {
			runtime.GC()
		}
	}

	// Get memory stats after
	runtime.GC()
	runtime.ReadMemStats(&m2)

	// Calculate the memory increase
	increase := m2.Alloc - m1.Alloc
	increasePerItem := float64(increase) / float64(iterations)

	// Allow a small amount of overhead per task processed
	const maxAllowedBytesPerItem = 2.0 // Extremely conservative
	if increasePerItem > maxAllowedBytesPerItem {
		t.Errorf("Possible memory leak: %v bytes increase per task processed", increasePerItem)
	}
}

// BenchmarkSingleProducer benchmarks the queue with a single producer
func BenchmarkSingleProducer(b *testing.B) {
	q := NewTaskQueue()
	defer q.Close()

	// Start consumer
	go func() {
		for range q.Recv() {
			// Just consume
		}
	}()

	task := noop("bench")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(task)
	}
}

// BenchmarkMultiProducer benchmarks the queue with multiple producers
func BenchmarkMultiProducer(b *testing.B) {
	q := NewTaskQueue()
	defer q.Close()

	// Start consumer
	go func() {
		for range q.Recv() {
			// Just consume
		}
	}()

	task := noop("bench")
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			q.Push(task)
		}
	})
}
