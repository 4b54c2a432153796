// Package config loads and validates the TOML configuration file.
//
// Configuration resolution order: an explicit --config path, then
// ~/.config/ytkit/config.toml, then ./ytkit.toml. A missing file is not
// an error; defaults apply.
package config
