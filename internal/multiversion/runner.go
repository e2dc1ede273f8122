package multiversion

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/mvdocs/internal/build"
	"git.home.luguber.info/inful/mvdocs/internal/config"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/git"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
	"git.home.luguber.info/inful/mvdocs/internal/metrics"
	"git.home.luguber.info/inful/mvdocs/internal/redirect"
	"git.home.luguber.info/inful/mvdocs/internal/site"
	"git.home.luguber.info/inful/mvdocs/internal/theme"
	"git.home.luguber.info/inful/mvdocs/internal/versioning"
	"git.home.luguber.info/inful/mvdocs/internal/workspace"
)

// Options controls a multi-version run.
type Options struct {
	// RepoPath is any path inside the repository holding the sources.
	RepoPath string
	// OutputRoot receives one directory per version.
	OutputRoot string
	// WorkspaceDir keeps exported sources at a fixed path; a temporary
	// directory is used and removed when empty.
	WorkspaceDir string
	// Force rebuilds versions whose sources did not change since the
	// manifest was written.
	Force bool
}

// Result summarizes a run.
type Result struct {
	Built    []Entry
	Skipped  []Entry
	Manifest *Manifest
	Duration time.Duration
}

// Runner drives the per-version builds.
type Runner struct {
	cfg      *config.Config
	opts     Options
	recorder metrics.Recorder
}

// New creates a runner for cfg.
func New(cfg *config.Config, opts Options) *Runner {
	return &Runner{cfg: cfg, opts: opts, recorder: metrics.NoopRecorder{}}
}

// WithRecorder sets the metrics recorder passed to every version build.
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Plan lists the versions the repository provides, in build order.
func (r *Runner) Plan() ([]versioning.Version, error) {
	repo, err := git.Open(r.opts.RepoPath)
	if err != nil {
		return nil, err
	}
	return r.plan(repo)
}

func (r *Runner) plan(repo *git.Repository) ([]versioning.Version, error) {
	sel, err := versioning.NewSelector(r.cfg.Versions, theme.NewOptions(r.cfg.Theme.Options))
	if err != nil {
		return nil, err
	}
	refs, err := repo.Refs()
	if err != nil {
		return nil, err
	}
	versions := sel.Select(refs)
	if len(versions) == 0 {
		return nil, ferrors.NotFoundError("no git ref matches the configured versions").
			WithContext("repository", repo.Path()).
			Build()
	}
	return versions, nil
}

// Run builds every selected version and publishes the manifest.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	repo, err := git.Open(r.opts.RepoPath)
	if err != nil {
		return nil, err
	}
	versions, err := r.plan(repo)
	if err != nil {
		return nil, err
	}
	previous, err := ReadManifest(r.opts.OutputRoot)
	if err != nil {
		slog.Warn("Ignoring unreadable version manifest", logfields.Error(err))
		previous = nil
	}

	ws := workspace.NewManager("")
	if r.opts.WorkspaceDir != "" {
		ws = workspace.NewPersistentManager(r.opts.WorkspaceDir)
	}
	if err := ws.Create(); err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to clean up workspace", logfields.Error(err))
		}
	}()

	res := &Result{}
	manifest := &Manifest{
		Project:      r.cfg.Project,
		ThemeOptions: theme.NewOptions(r.cfg.Theme.Options).Map(),
	}
	for _, v := range versions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		entry, skipped, err := r.buildVersion(ctx, repo, ws, v, previous)
		if err != nil {
			return res, versionError(v, err)
		}
		if skipped {
			res.Skipped = append(res.Skipped, entry)
		} else {
			res.Built = append(res.Built, entry)
		}
		manifest.Versions = append(manifest.Versions, entry)
	}

	if err := r.publish(manifest, versions); err != nil {
		return res, err
	}
	res.Manifest = manifest
	res.Duration = time.Since(start)
	slog.Info("Multi-version build complete",
		slog.Int("built", len(res.Built)),
		slog.Int("skipped", len(res.Skipped)),
		logfields.OutputDir(r.opts.OutputRoot),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (r *Runner) buildVersion(ctx context.Context, repo *git.Repository, ws *workspace.Manager, v versioning.Version, previous *Manifest) (Entry, bool, error) {
	log := slog.With(logfields.Version(v.Name), logfields.Ref(v.Ref.RefName()))
	srcDir := filepath.ToSlash(r.cfg.Source.Dir)
	outDir := filepath.Join(r.opts.OutputRoot, filepath.FromSlash(v.OutputDir))

	tree, err := repo.TreeHash(v.CommitSHA, srcDir)
	if err != nil {
		return Entry{}, false, err
	}
	if prev, ok := previous.Find(v.OutputDir); ok && !r.opts.Force && prev.Tree == tree && dirExists(outDir) {
		log.Info("Sources unchanged, keeping previous build", slog.String("tree", tree))
		prev.Version = v
		return prev, true, nil
	}

	exportDir, err := ws.Subdir(v.OutputDir)
	if err != nil {
		return Entry{}, false, err
	}
	n, err := repo.Export(ctx, v.CommitSHA, srcDir, exportDir)
	if err != nil {
		return Entry{}, false, err
	}
	log.Info("Exported sources", logfields.Count(n), logfields.Path(exportDir))

	settings, err := site.ForVersion(r.cfg, v.OutputDir)
	if err != nil {
		return Entry{}, false, err
	}
	settings = settings.WithDirs(exportDir, outDir)
	reg, err := build.DefaultRegistry(settings)
	if err != nil {
		return Entry{}, false, err
	}
	br, err := build.New(settings, reg).WithRecorder(r.recorder).Build(ctx)
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Version: v, Tree: tree, BuildID: br.BuildID, BuiltAt: br.StartTime.UTC()}, false, nil
}

func (r *Runner) publish(m *Manifest, versions []versioning.Version) error {
	if err := os.MkdirAll(r.opts.OutputRoot, 0o750); err != nil {
		return ferrors.FileSystemError("create output root").WithCause(err).WithContext("path", r.opts.OutputRoot).Build()
	}
	latest, ok := versioning.Latest(versions)
	if ok {
		m.Latest = latest.OutputDir
		target := redirect.Record{
			Path:        "index.html",
			Destination: redirect.Destination(latest.OutputDir, r.cfg.MasterDoc+".html"),
		}
		if err := redirect.Write(r.opts.OutputRoot, target); err != nil {
			return err
		}
	} else {
		slog.Warn("No latest version selected, root index not written", slog.String("latest", r.cfg.Versions.Latest))
	}
	return WriteManifest(r.opts.OutputRoot, m)
}

func versionError(v versioning.Version, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	category := ferrors.CategoryBuild
	if c, ok := ferrors.AsClassified(err); ok {
		category = c.Category()
	}
	return ferrors.WrapError(err, category, "version build failed").
		WithContext("version", v.Name).
		WithContext("ref", v.Ref.RefName()).
		Build()
}

func dirExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}
