package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/J-x-Z/native-hub/internal/auth"
	"github.com/J-x-Z/native-hub/internal/constants"
	"github.com/J-x-Z/native-hub/internal/engine"
	"github.com/J-x-Z/native-hub/internal/log"
	"github.com/J-x-Z/native-hub/internal/model"
)

// CancelScope selects which in-flight work a Cancel action aborts.
type CancelScope string

const (
	// CancelLogin aborts the most recently spawned login attempt only.
	CancelLogin CancelScope = "login"
	// CancelLatest aborts the most recently spawned work unit of any
	// kind.
	CancelLatest CancelScope = "latest"
)

// Authenticator runs a login attempt. *auth.Controller is the production
// implementation; tests substitute fakes.
type Authenticator interface {
	Login(ctx context.Context, n auth.Notifier) (string, error)
}

// Bridge owns the dispatch loop. Construct with New, start with Run,
// submit Actions with Submit, drain Events with Drain.
type Bridge struct {
	actions chan Action
	queue   *eventQueue

	auth   Authenticator
	engine engine.Engine
	scope  CancelScope

	// root parents every work-unit context so Close can cancel all
	// in-flight units at once, not just the most recent.
	root     context.Context
	stopRoot context.CancelFunc

	mu          sync.Mutex
	cancelLogin context.CancelFunc
	cancelLast  context.CancelFunc

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a bridge. The engine strategy is fixed at construction.
func New(ctrl Authenticator, eng engine.Engine, scope CancelScope) *Bridge {
	if scope == "" {
		scope = CancelLogin
	}
	root, stopRoot := context.WithCancel(context.Background())
	return &Bridge{
		actions:  make(chan Action, constants.ActionQueueSize),
		queue:    newEventQueue(),
		auth:     ctrl,
		engine:   eng,
		scope:    scope,
		root:     root,
		stopRoot: stopRoot,
		stopped:  make(chan struct{}),
	}
}

// Submit enqueues an Action without blocking. It reports false when the
// queue is full or the bridge has stopped; the caller surfaces that as a
// local warning.
func (b *Bridge) Submit(a Action) bool {
	select {
	case <-b.stopped:
		return false
	default:
	}
	select {
	case b.actions <- a:
		return true
	default:
		return false
	}
}

// Drain removes and returns all pending events, oldest first.
func (b *Bridge) Drain() []Event {
	return b.queue.drain()
}

// EventsReady returns a channel that signals when events may be pending.
func (b *Bridge) EventsReady() <-chan struct{} {
	return b.queue.wait()
}

// Run executes the dispatch loop until Close is called. It reads one
// Action at a time and spawns an independent work unit for everything but
// Cancel, never waiting on a unit's completion.
func (b *Bridge) Run() {
	b.emit(LogLine{Text: "System online."})
	b.emit(LogLine{Text: "Awaiting input..."})

	for {
		select {
		case <-b.stopped:
			return
		case a := <-b.actions:
			if _, ok := a.(Cancel); ok {
				b.handleCancel()
				continue
			}
			b.spawn(a)
		}
	}
}

// Close stops the dispatch loop, cancels in-flight work, and drops any
// events queued afterwards.
func (b *Bridge) Close() {
	b.stopOnce.Do(func() {
		close(b.stopped)
		b.stopRoot()
		b.wg.Wait()
		b.queue.close()
	})
}

// spawn starts one work unit. Errors and panics inside the unit become
// exactly one Failed event; nothing propagates to the dispatch loop.
func (b *Bridge) spawn(a Action) {
	ctx, cancel := context.WithCancel(b.root)

	b.mu.Lock()
	b.cancelLast = cancel
	if _, ok := a.(Login); ok {
		b.cancelLogin = cancel
	}
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				log.Error("work unit panicked", "action", fmt.Sprintf("%T", a), "panic", r)
				b.emit(Failed{Message: fmt.Sprintf("internal error: %v", r)})
			}
		}()

		if err := b.handle(ctx, a); err != nil {
			b.emit(Failed{Message: err.Error()})
		}
	}()
}

// handleCancel aborts in-flight work per the configured scope.
func (b *Bridge) handleCancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.scope {
	case CancelLatest:
		if b.cancelLast != nil {
			b.cancelLast()
			b.cancelLast = nil
		}
	default:
		if b.cancelLogin != nil {
			b.cancelLogin()
			b.cancelLogin = nil
		}
	}
}

func (b *Bridge) emit(e Event) {
	b.queue.push(e)
}

// notifier adapts auth progress callbacks onto the event queue.
type notifier struct {
	b *Bridge
}

func (n notifier) Log(line string) {
	n.b.emit(LogLine{Text: line})
}

func (n notifier) DeviceCode(code model.DeviceCode) {
	n.b.emit(DeviceCodeIssued{Code: code})
}
