// Package workspace manages the scratch directory a multi-version build
// exports each ref's sources into.
//
// Ephemeral workspaces get a unique directory (mvdocs-*) that is removed on
// Cleanup. Persistent workspaces use a fixed path that is kept, so the
// exported sources can be inspected after a failed build.
package workspace
