package page

import (
	"context"
	"sync"
)

// Loop runs posted callbacks one at a time on a single goroutine. Fetches
// run elsewhere and hand their results back through Go, so every state
// transition and render of a page happens on the loop and never interleaves.
type Loop struct {
	events    chan func()
	quit      chan struct{}
	done      chan struct{}
	pending   sync.WaitGroup
	closeOnce sync.Once
}

// NewLoop starts a loop. Call Close to stop it.
func NewLoop() *Loop {
	l := &Loop{
		events: make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.events:
			fn()
		case <-l.quit:
			return
		}
	}
}

func (l *Loop) post(fn func()) bool {
	select {
	case l.events <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Do runs fn on the loop and waits for it to return. It reports false when
// the loop is closed. Do must not be called from a loop callback.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	<-ran
	return true
}

// Go runs work on its own goroutine and posts the callback it returns to the
// loop. A nil callback is skipped. Callbacks arriving after Close are
// dropped.
func (l *Loop) Go(ctx context.Context, work func(ctx context.Context) func()) {
	l.pending.Add(1)
	go func() {
		cb := work(ctx)
		posted := l.post(func() {
			defer l.pending.Done()
			if cb != nil {
				cb()
			}
		})
		if !posted {
			l.pending.Done()
		}
	}()
}

// Wait blocks until every callback scheduled through Go has run or been
// dropped.
func (l *Loop) Wait() {
	l.pending.Wait()
}

// Close stops the loop. It is safe to call more than once but must not be
// called from a loop callback.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.quit) })
	<-l.done
}
