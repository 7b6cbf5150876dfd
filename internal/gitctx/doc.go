// Package gitctx gathers local git diffs for analysis.
//
// It shells out to the git CLI rather than linking a git library, so it
// works with whatever git version and configuration the user already has.
package gitctx
