// Package config loads subbatch settings. Values are layered: built-in
// defaults, then the config file (TOML, or YAML by extension), then
// environment variables. Command-line flags are applied by the caller,
// which then calls Finalize.
package config
