package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/mvdocs/internal/build"
	"git.home.luguber.info/inful/mvdocs/internal/config"
	"git.home.luguber.info/inful/mvdocs/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source      string `short:"s" help:"Source directory (overrides source.dir)"`
	Output      string `short:"o" help:"Output directory (overrides output.directory)"`
	VersionName string `name:"version-name" help:"Name of the version being built (defaults to the configured environment variable)"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	settings, err := b.settings(cfg)
	if err != nil {
		return err
	}

	reg, err := build.DefaultRegistry(settings)
	if err != nil {
		return err
	}
	rec, flush := buildMetrics(cfg)
	defer flush()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := build.New(settings, reg).WithRecorder(rec).Build(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Built %d documents (%s written) into %s\n",
		res.Documents, humanize.Bytes(uint64(res.BytesWritten)), res.OutputDir) //nolint:gosec // never negative
	return nil
}

func (b *BuildCmd) settings(cfg *config.Config) (*site.Settings, error) {
	var (
		s   *site.Settings
		err error
	)
	if b.VersionName != "" {
		s, err = site.ForVersion(cfg, b.VersionName)
	} else {
		s, err = site.New(cfg, os.LookupEnv)
	}
	if err != nil {
		return nil, err
	}
	src, out := s.SourceDir(), s.OutputDir()
	if b.Source != "" {
		src = b.Source
	}
	if b.Output != "" {
		out = b.Output
	}
	return s.WithDirs(src, out), nil
}
