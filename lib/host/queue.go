package host

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// node represents a single element in the queue
type node struct {
	value *Task
	next  atomic.Pointer[node]
}

// TaskQueue is a lock-free multi-producer single-consumer queue carrying
// tasks from connection goroutines to the host loop.
//
// Features and Guarantees:
//
//   - Lock-Free writes: any number of goroutines can safely Push() concurrently
//   - Unbounded Size: producers never block, limited only by available memory
//   - Single Consumer: exactly one goroutine (the host loop) consumes via Recv()
//   - Ordering: tasks are delivered in the order their Push() completed. Under
//     concurrent Push() the winner is whichever producer's append lands first,
//     which defines the submission order.
type TaskQueue struct {
	head     atomic.Pointer[node]
	tail     atomic.Pointer[node]
	out      chan *Task
	consumer sync.WaitGroup
	closed   atomic.Bool // atomic flag

	// Condition variable for efficient waiting
	mu   sync.Mutex
	cond *sync.Cond
}

// NewTaskQueue creates a new task queue and starts its internal consumer
func NewTaskQueue() *TaskQueue {
	// Create a sentinel node (dummy node at the beginning)
	sentinel := &node{}

	q := &TaskQueue{
		out: make(chan *Task),
	}

	// Initialize condition variable
	q.cond = sync.NewCond(&q.mu)

	// Set the initial head and tail to the sentinel node
	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	q.consumer.Add(1)
	go q.consume()

	return q
}

// Push adds a task to the queue.
// Returns true if the task was added, or false if the queue is closed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (q *TaskQueue) Push(t *Task) bool {

	if t == nil {
		return false
	}

	if q.closed.Load() {
		return false
	}

	newNode := &node{value: t}

	var tailNode *node
	var backoff uint8 = 0

	for {
		tailNode = q.tail.Load()

		// try to atomically append our node to the current tail
		next := tailNode.next.Load()
		if next == nil {
			// the tail has no next node yet, try to append our node
			if tailNode.next.CompareAndSwap(nil, newNode) {
				/*
				 Successfully appended, now try to update tail
				 Note: CAS may fail if another producer helps update tail,
				 but that's okay - tail will still be updated eventually
				*/
				q.tail.CompareAndSwap(tailNode, newNode)

				// Signal the consumer that new data is available
				q.cond.Signal()

				return true
			}
		} else {
			// help update the tail pointer if another producer has already appended a node but hasn't updated the tail yet
			q.tail.CompareAndSwap(tailNode, next)
		}

		/*
		 Exponential backoff to handle contention
		  - At low contention (<10 retries): CPU spinning to avoid thread scheduling overhead
		  - At higher contention: yield the processor so other goroutines make progress
		  - Backoff increases exponentially with each retry, reducing the "thundering herd"
		    problem where all goroutines retry simultaneously after failure
		*/

		if backoff < 10 {
			backoff++
			for i := 0; i < 1<<backoff; i++ {
				runtime.Gosched()
			}
		}
		runtime.Gosched()
	}
}

// consume continuously sends tasks from the linked list to the output channel and frees memory
func (q *TaskQueue) consume() {
	defer q.consumer.Done()
	defer close(q.out)

	for {
		// Process all available tasks in the queue
		hasItems := false

		// Try to process tasks
		for {
			head := q.head.Load()
			next := head.next.Load()

			if next == nil {
				break // No more tasks available
			}

			hasItems = true

			// Capture value before updating pointers
			value := next.value

			// move head pointer (free up memory)
			q.head.Store(next)

			// Send the task to the consumer
			q.out <- value

			// help go gc - safe to clear after sending
			next.value = nil
		}

		// Exit if closed and no more tasks
		if !hasItems && q.closed.Load() {
			return
		}

		// If no tasks were processed, wait for signal
		if !hasItems {
			q.mu.Lock()
			// Double-check condition after acquiring lock
			head := q.head.Load()
			if head.next.Load() == nil && !q.closed.Load() {
				// Wait for signal (releases lock while waiting)
				q.cond.Wait()
			}
			q.mu.Unlock()
		}
	}
}

// Recv returns a receive-only channel for consuming from the queue.
// This allows the queue to be used with the '<-' operator in select statements.
func (q *TaskQueue) Recv() <-chan *Task {
	return q.out
}

// Close closes the queue, preventing further writes.
// Any tasks already in the queue will still be delivered to the consumer.
func (q *TaskQueue) Close() {
	q.closed.Store(true)

	// Wake up the consumer if it's waiting
	q.cond.Signal()
}

// IsClosed returns true if the queue is closed.
func (q *TaskQueue) IsClosed() bool {
	return q.closed.Load()
}

// Len returns an approximate count of the number of tasks in the queue.
// This is O(n) and should only be used for debugging.
func (q *TaskQueue) Len() int {
	count := 0
	current := q.head.Load()

	for {
		next := current.next.Load()
		if next == nil {
			break
		}
		count++
		current = next
	}

	return count
}
