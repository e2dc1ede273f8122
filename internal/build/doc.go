// Package build is the host engine of one documentation build.
//
// It discovers source documents, fires the source-read extension point for
// each of them before parsing, renders Markdown with goldmark and fires the
// build-finished extension point exactly once at the end. Documents are
// processed sequentially.
package build
