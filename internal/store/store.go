// Package store is the single-writer state engine of the window manager.
//
// All mutation goes through Transforms executed by Dispatch on one writer
// goroutine. Sectors are replaced wholesale rather than edited in place, so
// Pick always reads a complete committed snapshot without locking. Events
// queued while a transform runs are delivered, in enqueue order, after the
// transform and the layout passes it scheduled have committed. Events of
// separate transforms are delivered in commit order through one queue.
package store

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/1broseidon/whim/internal/platform"
)

// Transform is an atomic state change returning T. Implementations are
// immutable parameter records; they must validate before mutating and must
// not call Dispatch (use Exec for nested transforms).
type Transform[T any] interface {
	Execute(ctx *Context, ictx *InternalContext, root *MutableRootSector) (T, error)
}

// Picker is a read-only query over a snapshot.
type Picker[T any] interface {
	Pick(root *RootSector) (T, error)
}

// PickerFunc adapts a function to Picker.
type PickerFunc[T any] func(root *RootSector) (T, error)

func (f PickerFunc[T]) Pick(root *RootSector) (T, error) { return f(root) }

type request struct {
	name  string
	fn    func(ictx *InternalContext, root *MutableRootSector) error
	reply chan result
}

type result struct {
	err error
}

// Store owns every sector. Create one with New and release it with Close.
type Store struct {
	ctx    *Context
	logger *slog.Logger

	// root is owned by the writer goroutine.
	root     *MutableRootSector
	snapshot atomic.Pointer[RootSector]

	requests  chan request
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu          sync.Mutex
	subscribers map[int]func(Event)
	nextSubID   int

	// pending holds committed events not yet delivered. Only one goroutine
	// delivers at a time.
	queueMu    sync.Mutex
	pending    []Event
	delivering bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for failed transforms and native calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New starts a store backed by backend. A nil backend is replaced with a
// platform.NopBackend.
func New(backend platform.Backend, opts ...Option) *Store {
	if backend == nil {
		backend = &platform.NopBackend{}
	}
	s := &Store{
		logger:      slog.New(slog.DiscardHandler),
		root:        newMutableRootSector(),
		requests:    make(chan request),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		subscribers: map[int]func(Event){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx = &Context{Backend: backend, Logger: s.logger}
	s.snapshot.Store(s.root.snapshot())
	go s.loop()
	return s
}

// Close stops the writer goroutine. Dispatch returns ErrClosed afterwards.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		<-s.done
	})
}

// Snapshot returns the latest committed state.
func (s *Store) Snapshot() *RootSector {
	return s.snapshot.Load()
}

// Subscribe registers fn for every event. Events are delivered on a
// goroutine that called Dispatch, after the dispatch has committed, so fn
// may dispatch further transforms. Events of a transform dispatched from fn
// are delivered after every event already queued. The returned func
// unsubscribes.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Initialize reads monitors and windows from the backend and dispatches an
// InitializeTransform with saved.
func (s *Store) Initialize(saved *SavedState) error {
	monitors, err := s.ctx.Backend.Monitors()
	if err != nil {
		return external(err, "list monitors")
	}
	windows, err := s.ctx.Backend.Windows()
	if err != nil {
		return external(err, "list windows")
	}
	_, err = Dispatch(s, InitializeTransform{Monitors: monitors, Windows: windows, SavedState: saved})
	return err
}

// Dispatch runs t on the writer goroutine and blocks for its result. It must
// not be called from inside a transform.
func Dispatch[T any](s *Store, t Transform[T]) (T, error) {
	var value T
	err := s.do(transformName(t), func(ictx *InternalContext, root *MutableRootSector) error {
		v, err := t.Execute(s.ctx, ictx, root)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// Pick runs p against the latest committed snapshot.
func Pick[T any](s *Store, p Picker[T]) (T, error) {
	return p.Pick(s.snapshot.Load())
}

// Exec runs a nested transform synchronously from inside another transform.
// On failure the sectors and queued side effects are restored to their state
// before the call.
func Exec[T any](ctx *Context, ictx *InternalContext, root *MutableRootSector, t Transform[T]) (T, error) {
	saved := root.RootSector
	effects := len(ictx.effects)
	ictx.depth++
	v, err := t.Execute(ctx, ictx, root)
	ictx.depth--
	if err != nil {
		root.RootSector = saved
		ictx.effects = ictx.effects[:effects]
		var zero T
		return zero, err
	}
	return v, nil
}

func transformName(t any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", t), "store.")
}

func (s *Store) do(name string, fn func(*InternalContext, *MutableRootSector) error) error {
	req := request{name: name, fn: fn, reply: make(chan result, 1)}
	select {
	case s.requests <- req:
	case <-s.quit:
		return ErrClosed
	}
	res := <-req.reply
	s.deliver()
	return res.err
}

func (s *Store) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			return
		case req := <-s.requests:
			req.reply <- s.execute(req)
		}
	}
}

// execute runs one outer transform, its deferred layouts and, on success,
// commits the snapshot and runs queued native calls.
func (s *Store) execute(req request) (res result) {
	saved := s.root.RootSector
	ictx := &InternalContext{}

	defer func() {
		if r := recover(); r != nil {
			s.root.RootSector = saved
			s.logger.Error("transform panic recovered", "transform", req.name, "panic", r)
			res = result{err: fmt.Errorf("transform %s panicked: %v", req.name, r)}
		}
	}()

	err := req.fn(ictx, s.root)
	if err == nil {
		err = s.runLayouts(ictx)
	}
	if err != nil {
		s.root.RootSector = saved
		s.logger.Warn("transform failed", "transform", req.name, "error", err)
		return result{err: err}
	}

	events := s.root.drainEvents()
	s.snapshot.Store(s.root.snapshot())
	s.runEffects(ictx.effects)
	s.enqueue(events)
	s.logger.Debug("transform committed", "transform", req.name, "events", len(events), "native_calls", len(ictx.effects))
	return result{}
}

func (s *Store) runLayouts(ictx *InternalContext) error {
	for {
		id, ok := s.root.Workspaces.popLayout()
		if !ok {
			return nil
		}
		if _, err := Exec(s.ctx, ictx, s.root, DoWorkspaceLayoutTransform{WorkspaceID: id}); err != nil {
			return fmt.Errorf("layout workspace %s: %w", id, err)
		}
	}
}

func (s *Store) runEffects(effects []sideEffect) {
	for _, e := range effects {
		if err := e.run(s.ctx.Backend); err != nil {
			s.logger.Warn("native call failed", "call", e.name, "error", err)
		}
	}
}

// enqueue appends committed events to the delivery queue. It runs on the
// writer goroutine, so queue order is commit order.
func (s *Store) enqueue(events []Event) {
	if len(events) == 0 {
		return
	}
	s.queueMu.Lock()
	s.pending = append(s.pending, events...)
	s.queueMu.Unlock()
}

// deliver drains the queue unless another call is already draining it, in
// which case that call delivers whatever was queued here too.
func (s *Store) deliver() {
	s.queueMu.Lock()
	if s.delivering {
		s.queueMu.Unlock()
		return
	}
	s.delivering = true
	for len(s.pending) > 0 {
		e := s.pending[0]
		s.pending[0] = nil
		s.pending = s.pending[1:]
		s.queueMu.Unlock()

		for _, fn := range s.subscriberList() {
			s.notify(fn, e)
		}

		s.queueMu.Lock()
	}
	s.pending = nil
	s.delivering = false
	s.queueMu.Unlock()
}

func (s *Store) notify(fn func(Event), e Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panic recovered", "event", fmt.Sprintf("%T", e), "panic", r)
		}
	}()
	fn(e)
}

func (s *Store) subscriberList() []func(Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	subs := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subscribers[id])
	}
	return subs
}
