// Package configs embeds the configuration templates written by
// `playground config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Hardcoded defaults
//  2. User config (~/.config/openplayground/config.yaml)
//  3. Project config (.playground.yaml)
//  4. Environment variables (PLAYGROUND_*)
package configs

import _ "embed"

// UserConfigTemplate is written to the user config path by `config init --user`.
// It holds machine-wide settings such as storage and server options.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string

// ProjectConfigTemplate is written to .playground.yaml by `config init`.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
