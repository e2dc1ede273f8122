package extension

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
)

// HookObserver is notified after each hook invocation.
type HookObserver func(hook string, err error)

// Registry holds the extension points of one build host. Registration is
// expected at setup; firing is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	transformers []SourceTransformer
	resolver     LinkResolver
	finished     []BuildFinishedHandler
	names        map[string]struct{}
	observers    []HookObserver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Observe adds a callback run after every hook invocation. Observers are
// called in the order they were added.
func (r *Registry) Observe(fn HookObserver) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// AddSourceTransformer registers a source-read hook. Transformers run in
// registration order.
func (r *Registry) AddSourceTransformer(t SourceTransformer) error {
	if t == nil {
		return fmt.Errorf("cannot register nil source transformer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.claim(t.Name()); err != nil {
		return err
	}
	r.transformers = append(r.transformers, t)
	return nil
}

// SetLinkResolver installs the Markdown link resolver, replacing any previous one.
func (r *Registry) SetLinkResolver(lr LinkResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = lr
}

// LinkResolver returns the installed resolver, or nil.
func (r *Registry) LinkResolver() LinkResolver {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolver
}

// AddBuildFinishedHandler registers a build-finished hook.
func (r *Registry) AddBuildFinishedHandler(h BuildFinishedHandler) error {
	if h == nil {
		return fmt.Errorf("cannot register nil build-finished handler")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.claim(h.Name()); err != nil {
		return err
	}
	r.finished = append(r.finished, h)
	return nil
}

func (r *Registry) claim(name string) error {
	if name == "" {
		return fmt.Errorf("extension name is required")
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("extension %q already registered", name)
	}
	r.names[name] = struct{}{}
	return nil
}

// FireSourceRead runs every source transformer on src, stopping at the first error.
func (r *Registry) FireSourceRead(ctx context.Context, src *Source) error {
	r.mu.RLock()
	transformers, observers := r.transformers, r.observers
	r.mu.RUnlock()

	for _, t := range transformers {
		err := t.TransformSource(ctx, src)
		notify(observers, t.Name(), err)
		if err != nil {
			return ferrors.BuildError("source-read hook failed").
				WithCause(err).
				WithContext("hook", t.Name()).
				WithContext("document", src.Docname).
				Build()
		}
	}
	return nil
}

// FireBuildFinished runs every build-finished handler in order. A failing
// handler does not stop the ones after it; failures are joined and the
// result carries the category of the first one.
func (r *Registry) FireBuildFinished(ctx context.Context, info BuildInfo, buildErr error) error {
	r.mu.RLock()
	handlers, observers := r.finished, r.observers
	r.mu.RUnlock()

	var failures []error
	for _, h := range handlers {
		slog.Debug("Running build-finished hook", logfields.Hook(h.Name()), logfields.BuildID(info.BuildID))
		err := h.BuildFinished(ctx, info, buildErr)
		notify(observers, h.Name(), err)
		if err != nil {
			failures = append(failures, classifyHookError(h.Name(), err))
		}
	}

	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	}
	first, _ := ferrors.AsClassified(failures[0])
	return ferrors.WrapError(errors.Join(failures...), first.Category(), "build-finished hooks failed").
		WithSeverity(first.Severity()).
		WithContext("failures", len(failures)).
		Build()
}

func classifyHookError(hook string, err error) error {
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	return ferrors.BuildError("build-finished hook failed").
		WithCause(err).
		WithContext("hook", hook).
		Build()
}

func notify(observers []HookObserver, hook string, err error) {
	for _, fn := range observers {
		fn(hook, err)
	}
}
