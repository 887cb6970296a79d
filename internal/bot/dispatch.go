package bot

import "sync"

// serialQueue runs tasks that share a key one at a time in submission order.
// Tasks with different keys run concurrently.
type serialQueue struct {
	mu     sync.Mutex
	queues map[string][]func()
}

func newSerialQueue() *serialQueue {
	return &serialQueue{queues: make(map[string][]func())}
}

// Do schedules fn after every task already submitted under key. It never blocks.
func (q *serialQueue) Do(key string, fn func()) {
	q.mu.Lock()
	pending, running := q.queues[key]
	q.queues[key] = append(pending, fn)
	q.mu.Unlock()

	if !running {
		go q.drain(key)
	}
}

// drain runs the tasks for key until none are left.
func (q *serialQueue) drain(key string) {
	for {
		q.mu.Lock()
		tasks := q.queues[key]
		if len(tasks) == 0 {
			delete(q.queues, key)
			q.mu.Unlock()
			return
		}

		fn := tasks[0]
		q.queues[key] = tasks[1:]
		q.mu.Unlock()

		fn()
	}
}
