// Package watch rebuilds documentation when source files change.
//
// File system events are collected with fsnotify and coalesced by a
// Debouncer: a burst of changes results in one rebuild once the tree has
// been quiet for a while, or at the latest after a maximum delay. An
// optional gocron job rebuilds periodically. Builds never overlap.
package watch
