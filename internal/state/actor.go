package state

import (
	"errors"
	"sync"
)

// ErrClosed is returned by store calls made after Close.
var ErrClosed = errors.New("state: store closed")

// actor runs closures one at a time on a single goroutine. Every read and
// read-modify-persist sequence of a store goes through do, so no locks are
// held by callers.
type actor struct {
	inbox chan func()
	quit  chan struct{}
	stop  chan struct{}
	once  sync.Once
}

func newActor() *actor {
	a := &actor{
		inbox: make(chan func()),
		quit:  make(chan struct{}),
		stop:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *actor) run() {
	defer close(a.stop)
	for {
		select {
		case fn := <-a.inbox:
			fn()
		case <-a.quit:
			return
		}
	}
}

// do runs fn on the actor goroutine and waits for it to finish.
func (a *actor) do(fn func()) error {
	done := make(chan struct{})
	select {
	case a.inbox <- func() {
		defer close(done)
		fn()
	}:
	case <-a.stop:
		return ErrClosed
	}
	<-done
	return nil
}

func (a *actor) close() {
	a.once.Do(func() { close(a.quit) })
	<-a.stop
}
