package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID     = "build_id"
	KeyVersion     = "version"
	KeyRef         = "ref"
	KeyDocument    = "document"
	KeyPath        = "path"
	KeyOutputDir   = "output_dir"
	KeyHook        = "hook"
	KeyRedirect    = "redirect_to"
	KeyCount       = "count"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
	KeyPattern     = "pattern"
	KeyLinkRewrite = "links_rewritten"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr       { return slog.String(KeyBuildID, id) }
func Version(name string) slog.Attr     { return slog.String(KeyVersion, name) }
func Ref(name string) slog.Attr         { return slog.String(KeyRef, name) }
func Document(docname string) slog.Attr { return slog.String(KeyDocument, docname) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func OutputDir(p string) slog.Attr      { return slog.String(KeyOutputDir, p) }
func Hook(name string) slog.Attr        { return slog.String(KeyHook, name) }
func RedirectTo(url string) slog.Attr   { return slog.String(KeyRedirect, url) }
func Count(n int) slog.Attr             { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Pattern(p string) slog.Attr        { return slog.String(KeyPattern, p) }
func LinksRewritten(n int) slog.Attr    { return slog.Int(KeyLinkRewrite, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
