package versioning

// RefType identifies the kind of git reference a version is built from.
type RefType string

const (
	RefTypeBranch RefType = "branch"
	RefTypeTag    RefType = "tag"
)

// Ref is a git reference candidate for a documentation version.
type Ref struct {
	Name      string  // short name, e.g. "scylla-4.15.0.x" or "v1.0.0"
	Type      RefType // branch or tag
	Remote    string  // remote name for remote-tracking branches, "" for local refs
	CommitSHA string
}

// RefName returns the ref in the form whitelist patterns are matched against:
// "heads/<name>", "remotes/<remote>/<name>" or "tags/<name>".
func (r Ref) RefName() string {
	switch {
	case r.Type == RefTypeTag:
		return "tags/" + r.Name
	case r.Remote != "":
		return "remotes/" + r.Remote + "/" + r.Name
	default:
		return "heads/" + r.Name
	}
}

// Version describes one documentation version. Values are never mutated
// after the Selector produces them.
type Version struct {
	Name       string  `json:"name"`
	Type       RefType `json:"type"`
	Label      string  `json:"label"`
	OutputDir  string  `json:"output_dir"`
	CommitSHA  string  `json:"commit_sha,omitempty"`
	Latest     bool    `json:"latest"`
	Unstable   bool    `json:"unstable"`
	Deprecated bool    `json:"deprecated"`
	Released   bool    `json:"released"`
	Hidden     bool    `json:"hidden"`

	// Ref is the reference the version resolves to; zero for static versions.
	Ref Ref `json:"-"`
}
