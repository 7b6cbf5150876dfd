// Package cli wires together the Cobra command tree for the critiq binary.
//
// It defines the root command and all subcommands (analyze, serve, config,
// models, cache, hook, version), binds flags, reads configuration, invokes
// the analysis engine, and returns deterministic exit codes for CI gating.
package cli
