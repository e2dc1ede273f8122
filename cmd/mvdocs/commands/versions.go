package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/mvdocs/internal/multiversion"
	"git.home.luguber.info/inful/mvdocs/internal/theme"
	"git.home.luguber.info/inful/mvdocs/internal/versioning"
)

// VersionsCmd implements the 'versions' command.
type VersionsCmd struct {
	Git  bool   `help:"Resolve versions against the refs of the git repository"`
	Repo string `short:"r" help:"Path inside the git repository" default:"."`
	JSON bool   `help:"Print JSON instead of a table"`
}

func (v *VersionsCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	var versions []versioning.Version
	if v.Git {
		versions, err = multiversion.New(cfg, multiversion.Options{RepoPath: v.Repo}).Plan()
	} else {
		var sel *versioning.Selector
		sel, err = versioning.NewSelector(cfg.Versions, theme.NewOptions(cfg.Theme.Options))
		if err == nil {
			versions = sel.Static()
		}
	}
	if err != nil {
		return err
	}

	if v.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tTYPE\tLABEL\tOUTPUT\tFLAGS")
	for _, ver := range versions {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ver.Name, ver.Type, ver.Label, ver.OutputDir, flags(ver))
	}
	return tw.Flush()
}

func flags(v versioning.Version) string {
	var out string
	add := func(on bool, name string) {
		if !on {
			return
		}
		if out != "" {
			out += ","
		}
		out += name
	}
	add(v.Latest, "latest")
	add(v.Released, "released")
	add(v.Unstable, "unstable")
	add(v.Deprecated, "deprecated")
	add(v.Hidden, "hidden")
	if out == "" {
		return "-"
	}
	return out
}
