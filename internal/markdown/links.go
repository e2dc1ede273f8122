package markdown

import (
	"regexp"
	"strings"
)

// Reference is the result of resolving a Markdown link.
type Reference struct {
	RefURI string
	Title  string
}

// schemeRE matches a URL scheme prefix such as "https:" or "mailto:".
var schemeRE = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

// LinkResolver rewrites relative document links so they point at rendered
// pages. It never checks whether the destination exists.
type LinkResolver struct {
	supported map[string]struct{}
}

// NewLinkResolver returns a resolver that strips the given extensions
// (without leading dot, e.g. "md"). Matching is case-sensitive.
func NewLinkResolver(extensions []string) *LinkResolver {
	supported := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		supported[strings.TrimPrefix(ext, ".")] = struct{}{}
	}
	return &LinkResolver{supported: supported}
}

// Resolve returns the reference for a link destination and optional title.
func (r *LinkResolver) Resolve(destination, title string) Reference {
	return Reference{RefURI: r.Destination(destination), Title: title}
}

// Destination strips a supported source suffix from a scheme-less
// destination. The extension is taken from the whole destination, so a
// trailing fragment or query becomes part of it ("guide.md#setup" has the
// extension ".md#setup") and such links are left as written. Every
// occurrence of a matched extension is removed.
func (r *LinkResolver) Destination(destination string) string {
	if destination == "" || HasScheme(destination) {
		return destination
	}
	ext := splitExt(destination)
	if ext == "" {
		return destination
	}
	if _, ok := r.supported[strings.ReplaceAll(ext, ".", "")]; !ok {
		return destination
	}
	return strings.ReplaceAll(destination, ext, "")
}

// splitExt returns the extension of the last path element including its
// dot. Leading dots of the element do not start an extension, so ".md" and
// "..md" have none.
func splitExt(p string) string {
	dot := strings.LastIndex(p, ".")
	sep := strings.LastIndex(p, "/")
	if dot <= sep {
		return ""
	}
	name := strings.TrimLeft(p[sep+1:dot], ".")
	if name == "" {
		return ""
	}
	return p[dot:]
}

// HasScheme reports whether destination starts with a URL scheme.
func HasScheme(destination string) bool {
	return schemeRE.MatchString(destination)
}
