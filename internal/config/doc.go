// Package config provides access to the codeassist configuration.
//
// Configuration is merged from three layers, later layers winning:
// built-in defaults, a TOML settings file, and CODEASSIST_* environment
// variables. Values are addressed by dot path ("ai.provider") and read
// through typed getters or snapshot section structs.
package config
