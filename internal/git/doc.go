// Package git reads documentation sources straight out of a local
// repository with go-git: it lists the refs a multi-version build can
// choose from and exports a directory of a commit's tree without touching
// the working copy.
package git
