package commands

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/mvdocs/internal/build"
	"git.home.luguber.info/inful/mvdocs/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildCmd `embed:""`

	Every time.Duration `help:"Also rebuild periodically at this interval (e.g. 10m)"`
	Quiet time.Duration `help:"Wait for this long without changes before rebuilding" default:"300ms"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	settings, err := w.settings(cfg)
	if err != nil {
		return err
	}
	reg, err := build.DefaultRegistry(settings)
	if err != nil {
		return err
	}
	rec, flush := buildMetrics(cfg)
	builder := build.New(settings, reg).WithRecorder(rec)

	watcher, err := watch.New(settings.SourceDir(), func(ctx context.Context) error {
		defer flush()
		res, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(g.Out, "Rebuilt %d documents (%d files changed)\n", res.Documents, res.FilesWritten)
		return nil
	}, watch.Options{
		QuietWindow: w.Quiet,
		MaxDelay:    10 * w.Quiet,
		Every:       w.Every,
		Exclude:     settings.ExcludePatterns(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return watcher.Run(ctx)
}
