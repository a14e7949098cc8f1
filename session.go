package symgraph

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/symgraph/symgraph/blobstore"
	"github.com/symgraph/symgraph/serial"
)

// Session loads module artifacts from a store and resolves
// cross-module references between them. Loaded modules are cached for
// the session's lifetime; concurrent loads of the same module share one
// parse and observe the same handle.
type Session struct {
	store blobstore.Store
	opts  options

	mu      sync.Mutex
	modules map[string]*serial.Module
	group   singleflight.Group
}

// NewSession creates a session backed by the given artifact store.
func NewSession(store blobstore.Store, optFns ...Option) *Session {
	return &Session{
		store:   store,
		opts:    applyOptions(optFns),
		modules: make(map[string]*serial.Module),
	}
}

// Load loads the named module from the store, or returns the cached
// module if it was loaded before. Modules the loaded module refers to
// are loaded on demand when their entities are first decoded.
func (s *Session) Load(ctx context.Context, name string) (*serial.Module, error) {
	loader := &sessionLoader{session: s, ctx: ctx}
	m, err := loader.load(name)
	loader.done.Store(true)
	return m, err
}

// LoadBytes loads a module from an in-memory artifact, bypassing the
// store. The module joins the session cache and can be referenced by
// other modules.
func (s *Session) LoadBytes(name string, data []byte) (*serial.Module, error) {
	loader := &sessionLoader{session: s, ctx: context.Background()}
	m, err := loader.parse(name, data)
	loader.done.Store(true)
	return m, err
}

// Preload loads several modules concurrently. It is a convenience for
// warming the session cache before decode-heavy work.
func (s *Session) Preload(ctx context.Context, names ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			_, err := s.Load(ctx, name)
			return err
		})
	}
	return g.Wait()
}

// Module returns the named module, loading it from the store if needed.
// It implements serial.Resolver, so decoding one module can pull in the
// modules it refers to.
//
// Loads triggered through this path use a background context; use
// Preload when cancellation matters.
func (s *Session) Module(name string) (*serial.Module, error) {
	return s.Load(context.Background(), name)
}

// Modules returns the names of all modules loaded so far, sorted.
func (s *Session) Modules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.modules))
	for name := range s.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the names of all module artifacts in the store, loaded
// or not.
func (s *Session) List(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, key := range keys {
		if strings.HasSuffix(key, s.opts.suffix) {
			names = append(names, strings.TrimSuffix(key, s.opts.suffix))
		}
	}
	return names, nil
}

// Invalidate drops the named module from the session cache. The next
// Load rereads it from the store.
func (s *Session) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modules, name)
}

func (s *Session) cached(name string) (*serial.Module, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.modules[name]
	return m, ok
}

func (s *Session) remember(name string, m *serial.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modules[name] = m
}

func (s *Session) forget(name string, m *serial.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modules[name] == m {
		delete(s.modules, name)
	}
}

// sessionLoader carries the context of one Load call into the nested
// loads that reference resolution triggers.
type sessionLoader struct {
	session *Session
	ctx     context.Context
	done    atomic.Bool
}

// Module implements serial.Resolver. Once the load that created this
// loader has finished, resolution requests come from lazy decodes,
// which get a fresh loader and context.
func (l *sessionLoader) Module(name string) (*serial.Module, error) {
	if l.done.Load() {
		return l.session.Load(context.Background(), name)
	}
	return l.load(name)
}

func (l *sessionLoader) load(name string) (*serial.Module, error) {
	if m, ok := l.session.cached(name); ok {
		return m, nil
	}

	// One flight per module name. A module is cached before its forced
	// entities decode, so a nested load triggered from inside a flight
	// always finds in-progress modules in the cache and never re-enters
	// its own flight.
	v, err, _ := l.session.group.Do(name, func() (any, error) {
		if m, ok := l.session.cached(name); ok {
			return m, nil
		}

		start := time.Now()
		data, err := blobstore.ReadAll(l.ctx, l.session.store, name+l.session.opts.suffix)
		if err != nil {
			err = translateError(name, err)
			l.session.opts.metrics.RecordLoad(time.Since(start), err)
			l.session.opts.logger.LogLoad(l.ctx, name, 0, time.Since(start), err)
			return nil, err
		}
		return l.parse(name, data)
	})
	if err != nil {
		return nil, err
	}
	return v.(*serial.Module), nil
}

func (l *sessionLoader) parse(name string, data []byte) (*serial.Module, error) {
	start := time.Now()
	m, err := serial.Parse(name, data,
		serial.WithResolver(l),
		serial.WithLogger(l.session.opts.logger.Logger),
	)
	if err != nil {
		l.session.opts.metrics.RecordLoad(time.Since(start), err)
		l.session.opts.logger.LogLoad(l.ctx, name, 0, time.Since(start), err)
		return nil, err
	}

	// Publish before force-decoding: a module whose forced entities
	// refer back here mid-load must receive this in-progress handle
	// instead of recursing into a second load.
	l.session.remember(name, m)
	if err := m.ForceDeserialize(); err != nil {
		l.session.forget(name, m)
		l.session.opts.metrics.RecordLoad(time.Since(start), err)
		l.session.opts.logger.LogLoad(l.ctx, name, 0, time.Since(start), err)
		return nil, err
	}

	l.session.opts.metrics.RecordLoad(time.Since(start), nil)
	l.session.opts.logger.LogLoad(l.ctx, name, m.EntityCount(), time.Since(start), nil)
	return m, nil
}
