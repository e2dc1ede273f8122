package build

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/extension"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
	"git.home.luguber.info/inful/mvdocs/internal/markdown"
	"git.home.luguber.info/inful/mvdocs/internal/metrics"
	"git.home.luguber.info/inful/mvdocs/internal/site"
)

// sourcesDir holds unrendered sources published next to the pages.
const sourcesDir = "_sources"

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Result describes one finished build.
type Result struct {
	BuildID        string
	Status         Status
	OutputDir      string
	Pages          []extension.Page
	Documents      int
	Assets         int
	LinksRewritten int
	FilesWritten   int
	FilesUnchanged int
	BytesWritten   int64
	StartTime      time.Time
	Duration       time.Duration
}

// Builder renders the documents of one source dir into one output dir.
// A Builder may be reused; outputs that did not change since the previous
// build are not rewritten.
type Builder struct {
	settings *site.Settings
	registry *extension.Registry
	recorder metrics.Recorder
	sums     *fingerprints
}

// New creates a builder for settings firing the hooks held by registry. The
// builder adds its own hook observer; observers already on registry stay.
func New(settings *site.Settings, registry *extension.Registry) *Builder {
	b := &Builder{
		settings: settings,
		registry: registry,
		recorder: metrics.NoopRecorder{},
		sums:     newFingerprints(),
	}
	registry.Observe(b.observeHook)
	return b
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

func (b *Builder) observeHook(hook string, err error) {
	b.recorder.IncHook(hook, err == nil)
}

// Build runs one complete build. build-finished handlers are fired exactly
// once, with the error that ended the build if there was one.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	res := &Result{
		BuildID:   uuid.NewString(),
		OutputDir: b.settings.OutputDir(),
		StartTime: time.Now(),
	}
	log := slog.With(logfields.BuildID(res.BuildID), logfields.Version(b.settings.Slug()))
	log.Info("Starting build", slog.String("source_dir", b.settings.SourceDir()), logfields.OutputDir(res.OutputDir))

	buildErr := b.run(ctx, res, log)
	hookErr := b.registry.FireBuildFinished(ctx, extension.BuildInfo{
		BuildID:   res.BuildID,
		OutputDir: res.OutputDir,
		Pages:     append([]extension.Page(nil), res.Pages...),
	}, buildErr)

	err := buildErr
	if err == nil {
		err = hookErr
	}
	res.Duration = time.Since(res.StartTime)
	res.Status = statusOf(err)

	version := b.settings.Slug()
	b.recorder.ObserveBuildDuration(version, res.Duration)
	b.recorder.IncBuildOutcome(version, outcomeOf(res.Status))

	if err != nil {
		log.Error("Build failed", logfields.Error(err), logfields.DurationMS(float64(res.Duration.Milliseconds())))
		return res, err
	}
	log.Info("Build complete",
		logfields.Count(res.Documents),
		logfields.LinksRewritten(res.LinksRewritten),
		slog.Int("files_written", res.FilesWritten),
		slog.Int("files_unchanged", res.FilesUnchanged),
		slog.String("bytes_written", humanize.Bytes(uint64(res.BytesWritten))), //nolint:gosec // never negative
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (b *Builder) run(ctx context.Context, res *Result, log *slog.Logger) error {
	outDir := res.OutputDir
	if b.settings.CleanOutput() {
		if err := os.RemoveAll(outDir); err != nil {
			return ferrors.FileSystemError("clean output directory").WithCause(err).WithContext("path", outDir).Build()
		}
		b.sums.reset()
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return ferrors.FileSystemError("create output directory").WithCause(err).WithContext("path", outDir).Build()
	}

	docs, assets, err := Discover(b.settings.SourceDir(), b.settings.Suffixes(), b.settings.ExcludePatterns())
	if err != nil {
		return ferrors.FileSystemError("discover source documents").
			WithCause(err).
			WithContext("path", b.settings.SourceDir()).
			Build()
	}
	log.Debug("Discovered sources", logfields.Count(len(docs)), slog.Int("assets", len(assets)))

	renderer := markdown.NewRenderer(b.resolver())
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := b.buildDocument(ctx, renderer, doc, res)
		if err != nil {
			return err
		}
		res.Pages = append(res.Pages, page)
		res.Documents++
		b.recorder.IncDocuments(doc.Parser)
	}

	for _, asset := range assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(asset.Path)
		if err != nil {
			return ferrors.FileSystemError("read asset").WithCause(err).WithContext("path", asset.Path).Build()
		}
		if err := b.write(res, asset.Rel, data); err != nil {
			return err
		}
		res.Assets++
	}
	return nil
}

func (b *Builder) resolver() markdown.Resolver {
	if lr := b.registry.LinkResolver(); lr != nil {
		return lr
	}
	return b.settings.LinkResolver()
}

func (b *Builder) buildDocument(ctx context.Context, renderer *markdown.Renderer, doc Document, res *Result) (extension.Page, error) {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return extension.Page{}, ferrors.FileSystemError("read source document").
			WithCause(err).
			WithContext("path", doc.Path).
			Build()
	}

	src := &extension.Source{Docname: doc.Docname, Parser: doc.Parser, Text: string(raw)}
	if err := b.registry.FireSourceRead(ctx, src); err != nil {
		return extension.Page{}, err
	}

	data := pageData{Project: b.settings.Project(), Version: b.settings.Slug()}
	switch doc.Parser {
	case config.ParserMarkdown:
		out, err := renderer.Render([]byte(src.Text))
		if err != nil {
			return extension.Page{}, ferrors.RenderError("render markdown").
				WithCause(err).
				WithContext("document", doc.Docname).
				Build()
		}
		data.Title = out.Title
		data.Body = renderedHTML(out.HTML)
		res.LinksRewritten += out.LinksRewritten
		b.recorder.AddLinksRewritten(out.LinksRewritten)
	case config.ParserRestructuredText:
		if err := b.write(res, path.Join(sourcesDir, doc.Docname+doc.Suffix+".txt"), []byte(src.Text)); err != nil {
			return extension.Page{}, err
		}
		data.Title = rstTitle(src.Text)
		data.Body = preformatted(src.Text)
	default:
		return extension.Page{}, ferrors.ValidationError("unsupported parser").
			WithContext("parser", doc.Parser).
			WithContext("document", doc.Docname).
			Build()
	}
	if data.Title == "" {
		data.Title = path.Base(doc.Docname)
	}

	html, err := renderPage(data)
	if err != nil {
		return extension.Page{}, ferrors.RenderError("render page").WithCause(err).WithContext("document", doc.Docname).Build()
	}
	rel := doc.Docname + ".html"
	if err := b.write(res, rel, html); err != nil {
		return extension.Page{}, err
	}
	slog.Debug("Rendered document", logfields.Document(doc.Docname), logfields.Path(rel))
	return extension.Page{Docname: doc.Docname, Path: rel, Title: data.Title}, nil
}

func (b *Builder) write(res *Result, rel string, data []byte) error {
	target := filepath.Join(res.OutputDir, filepath.FromSlash(rel))
	written, err := b.sums.write(target, data)
	if err != nil {
		return ferrors.FileSystemError("write output file").WithCause(err).WithContext("path", target).Build()
	}
	if !written {
		res.FilesUnchanged++
		return nil
	}
	res.FilesWritten++
	res.BytesWritten += int64(len(data))
	b.recorder.AddBytesWritten(len(data))
	return nil
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

func outcomeOf(s Status) metrics.Outcome {
	switch s {
	case StatusSuccess:
		return metrics.OutcomeSuccess
	case StatusCancelled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
