package config

import "errors"

var (
	// ErrSettingNotFound is returned when a dot path has no value.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch is returned when a value exists but has the wrong type.
	ErrTypeMismatch = errors.New("setting has unexpected type")
)
