package versioning

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/mvdocs/internal/config"
	ferrors "git.home.luguber.info/inful/mvdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/mvdocs/internal/logfields"
	"git.home.luguber.info/inful/mvdocs/internal/theme"
)

// Selector decides which refs are built and how each version is labelled.
type Selector struct {
	cfg      config.VersionsConfig
	opts     theme.Options
	tags     *regexp.Regexp
	branches *regexp.Regexp
	remotes  *regexp.Regexp
	released *regexp.Regexp
	order    map[string]int
}

// NewSelector compiles the whitelists of cfg.
func NewSelector(cfg config.VersionsConfig, opts theme.Options) (*Selector, error) {
	remotes, err := regexp.Compile(cfg.RemoteWhitelist)
	if err != nil {
		return nil, ferrors.ConfigError("invalid remote whitelist").WithCause(err).Build()
	}
	released, err := regexp.Compile(cfg.ReleasedPattern)
	if err != nil {
		return nil, ferrors.ConfigError("invalid released pattern").WithCause(err).Build()
	}
	order := make(map[string]int, len(cfg.Tags)+len(cfg.Branches))
	for i, n := range slices.Concat(cfg.Tags, cfg.Branches) {
		if _, dup := order[n]; !dup {
			order[n] = i
		}
	}
	return &Selector{
		cfg:      cfg,
		opts:     opts,
		tags:     compileWhitelist(cfg.Tags),
		branches: compileWhitelist(cfg.Branches),
		remotes:  remotes,
		released: released,
		order:    order,
	}, nil
}

// Static returns the configured versions without consulting git, tags first.
func (s *Selector) Static() []Version {
	out := make([]Version, 0, len(s.cfg.Tags)+len(s.cfg.Branches))
	for _, n := range s.cfg.Tags {
		out = append(out, s.describe(Ref{Name: n, Type: RefTypeTag}))
	}
	for _, n := range s.cfg.Branches {
		out = append(out, s.describe(Ref{Name: n, Type: RefTypeBranch}))
	}
	return out
}

// Select filters refs through the whitelists. A branch available both
// locally and on a whitelisted remote is returned once, preferring the local
// ref. Results follow the configured order.
func (s *Selector) Select(refs []Ref) []Version {
	chosen := make(map[string]Version)
	for _, ref := range refs {
		if !s.accepts(ref) {
			slog.Debug("Skipping ref", logfields.Ref(ref.RefName()))
			continue
		}
		key := string(ref.Type) + "/" + ref.Name
		if prev, ok := chosen[key]; ok && prev.Ref.Remote == "" {
			continue
		}
		chosen[key] = s.describe(ref)
	}

	out := make([]Version, 0, len(chosen))
	for _, v := range chosen {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b Version) int {
		if d := s.order[a.Name] - s.order[b.Name]; d != 0 {
			return d
		}
		return strings.Compare(string(a.Type), string(b.Type))
	})
	return out
}

// Latest returns the version flagged latest in vs.
func Latest(vs []Version) (Version, bool) {
	for _, v := range vs {
		if v.Latest {
			return v, true
		}
	}
	return Version{}, false
}

func (s *Selector) accepts(ref Ref) bool {
	if ref.Remote != "" && !s.remotes.MatchString(ref.Remote) {
		return false
	}
	switch ref.Type {
	case RefTypeTag:
		return matches(s.tags, ref.Name)
	case RefTypeBranch:
		return matches(s.branches, ref.Name)
	default:
		return false
	}
}

func (s *Selector) describe(ref Ref) Version {
	latest := ref.Name == s.cfg.Latest
	outDir := strings.ReplaceAll(s.cfg.OutputDirFormat, "{ref.name}", ref.Name)
	if latest && s.cfg.RenameLatest != "" {
		outDir = s.cfg.RenameLatest
	}
	return Version{
		Name:       ref.Name,
		Type:       ref.Type,
		Label:      s.opts.Label(ref.Name),
		OutputDir:  outDir,
		CommitSHA:  ref.CommitSHA,
		Latest:     latest,
		Unstable:   slices.Contains(s.cfg.Unstable, ref.Name),
		Deprecated: slices.Contains(s.cfg.Deprecated, ref.Name),
		Released:   s.released.MatchString(ref.RefName()),
		Hidden:     slices.Contains(s.opts.StringSlice(theme.OptHideVersionDropdown), ref.Name),
		Ref:        ref,
	}
}

// String renders a one-line summary for logs.
func (v Version) String() string {
	flags := make([]string, 0, 4)
	if v.Latest {
		flags = append(flags, "latest")
	}
	if v.Unstable {
		flags = append(flags, "unstable")
	}
	if v.Deprecated {
		flags = append(flags, "deprecated")
	}
	if v.Hidden {
		flags = append(flags, "hidden")
	}
	if len(flags) == 0 {
		return fmt.Sprintf("%s -> %s", v.Name, v.OutputDir)
	}
	return fmt.Sprintf("%s -> %s [%s]", v.Name, v.OutputDir, strings.Join(flags, ","))
}
