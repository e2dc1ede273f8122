package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mvdocs/internal/multiversion"
)

// MultiversionCmd implements the 'multiversion' command.
type MultiversionCmd struct {
	Repo      string `short:"r" help:"Path inside the git repository" default:"."`
	Output    string `short:"o" help:"Output root receiving one directory per version (overrides output.directory)"`
	Workspace string `help:"Keep exported sources in this directory"`
	Force     bool   `short:"f" help:"Rebuild versions whose sources did not change"`
}

func (m *MultiversionCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	out := m.Output
	if out == "" {
		out = cfg.Output.Directory
	}
	if err := requireArg("output root", out); err != nil {
		return err
	}

	rec, flush := buildMetrics(cfg)
	defer flush()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := multiversion.New(cfg, multiversion.Options{
		RepoPath:     m.Repo,
		OutputRoot:   out,
		WorkspaceDir: m.Workspace,
		Force:        m.Force,
	}).WithRecorder(rec).Run(ctx)
	if err != nil {
		return err
	}
	for _, e := range res.Built {
		_, _ = fmt.Fprintf(g.Out, "built    %s\n", e.Version)
	}
	for _, e := range res.Skipped {
		_, _ = fmt.Fprintf(g.Out, "kept     %s\n", e.Version)
	}
	_, _ = fmt.Fprintf(g.Out, "Wrote %d versions into %s\n", len(res.Manifest.Versions), out)
	return nil
}
