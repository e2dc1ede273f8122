package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
)

// BuildFunc performs one build.
type BuildFunc func(ctx context.Context) error

// Options tune a Watcher.
type Options struct {
	QuietWindow time.Duration
	MaxDelay    time.Duration
	// Every schedules an additional periodic rebuild when > 0.
	Every time.Duration
	// Exclude uses the same glob rules as source discovery.
	Exclude []string
}

// Watcher rebuilds a source tree on change.
type Watcher struct {
	root      string
	build     BuildFunc
	opts      Options
	debouncer *Debouncer

	mu     sync.Mutex
	builds int
}

// New returns a watcher for root. Zero windows default to 300ms quiet and
// 3s maximum delay.
func New(root string, build BuildFunc, opts Options) (*Watcher, error) {
	if build == nil {
		return nil, ferrors.ValidationError("build function is required").Build()
	}
	if opts.QuietWindow <= 0 {
		opts.QuietWindow = 300 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 3 * time.Second
	}
	d, err := NewDebouncer(opts.QuietWindow, opts.MaxDelay)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ferrors.FileSystemError("resolve watch root").WithCause(err).WithContext("path", root).Build()
	}
	return &Watcher{root: abs, build: build, opts: opts, debouncer: d}, nil
}

// Builds returns how many builds ran so far.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

// Run builds once, then rebuilds on every debounced change until ctx is
// done. Build failures are logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.InternalError("create file watcher").WithCause(err).Build()
	}
	defer func() { _ = fsw.Close() }()

	if err := w.addTree(fsw, w.root); err != nil {
		return err
	}

	w.rebuild(ctx, "initial", 1)

	if w.opts.Every > 0 {
		s, err := w.schedule(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Shutdown(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.debouncer.Run(ctx, w.rebuild)
	}()

	slog.Info("Watching for changes", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			<-done
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				<-done
				return nil
			}
			w.handle(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				<-done
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || w.ignored(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		// New directories are not watched recursively by fsnotify.
		if err := w.addTree(fsw, ev.Name); err != nil {
			slog.Debug("Not watching new path", logfields.Path(ev.Name), logfields.Error(err))
		}
	}
	slog.Debug("Change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.debouncer.Request(ev.Name)
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return ferrors.FileSystemError("walk watch root").WithCause(err).WithContext("path", p).Build()
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && w.ignored(p) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return ferrors.FileSystemError("watch directory").WithCause(err).WithContext("path", p).Build()
		}
		return nil
	})
}

// ignored applies the exclude globs to the path relative to the root.
func (w *Watcher) ignored(p string) bool {
	rel, err := filepath.Rel(w.root, p)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	for _, pattern := range w.opts.Exclude {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

func (w *Watcher) schedule(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.InternalError("create scheduler").WithCause(err).Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Every),
		gocron.NewTask(func() { w.rebuild(ctx, "scheduled", 1) }),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.ConfigError("schedule periodic rebuild").WithCause(err).WithContext("every", w.opts.Every.String()).Build()
	}
	s.Start()
	slog.Info("Scheduled periodic rebuild", slog.Duration("every", w.opts.Every))
	return s, nil
}

// rebuild runs one build; concurrent callers wait for each other.
func (w *Watcher) rebuild(ctx context.Context, reason string, count int) {
	if ctx.Err() != nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	err := w.build(ctx)
	w.builds++
	attrs := []any{
		slog.String("reason", reason),
		logfields.Count(count),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())),
	}
	if err != nil {
		slog.Error("Rebuild failed", append(attrs, logfields.Error(err))...)
		return
	}
	slog.Info("Rebuilt", attrs...)
}
