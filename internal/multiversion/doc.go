// Package multiversion builds one documentation tree per selected git ref.
//
// Versions are chosen by the versioning.Selector from the refs of a local
// repository, exported from their commit trees into a workspace and built
// sequentially into <output root>/<output dir>. The first failing version
// stops the run. A versions.json manifest and a root index.html redirect to
// the latest version are written at the end.
package multiversion
