// Package workerpool provides a bounded goroutine pool with backpressure.
//
// A Pool caps concurrent goroutines. When every worker is busy and the queue
// is at capacity, Submit fails fast with ErrPoolFull so the caller can fall
// back to running inline, dropping the task, or rejecting the request.
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when the task queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
//
// The tasks channel is never closed: submitters send under a read lock and
// Shutdown flips closed under the write lock, so a send can never race a
// close. Workers exit by draining the queue after done is signalled, which
// also guarantees every accepted task runs before Shutdown returns.
type Pool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	wg     sync.WaitGroup
	once   sync.Once
	done   chan struct{}
}

// New creates a Pool with size workers and a queue holding 2*size pending
// tasks. size values below 1 are treated as 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks: make(chan func(), size*2),
		done:  make(chan struct{}),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking. It returns ErrPoolFull when the
// queue is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a queue slot frees up. It returns ErrPoolClosed
// after Shutdown. The read lock held across the send keeps Shutdown from
// closing the pool underneath a blocked submitter.
func (p *Pool) SubmitWait(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	p.tasks <- task
	return nil
}

// Shutdown stops accepting tasks and waits for the queue to drain and every
// in-flight task to finish. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.done)
		p.mu.Unlock()

		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			run(task)
		case <-p.done:
			// No new sends can start once closed is set, so the
			// queue only shrinks from here. Drain it, then exit.
			for {
				select {
				case task := <-p.tasks:
					run(task)
				default:
					return
				}
			}
		}
	}
}

// run executes task, recovering panics so one bad task cannot kill a worker.
func run(task func()) {
	defer func() { _ = recover() }()
	task()
}
