// Package config loads and merges critiq configuration from defaults,
// the platform config file, CRITIQ_* environment variables, and CLI flag
// overrides, in that order of increasing precedence.
package config
