package util

import "errors"

// Sentinel errors for common failure modes
var (
	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidArchive indicates an import package is missing required parts
	ErrInvalidArchive = errors.New("invalid import archive")

	// ErrIntegrity indicates a database constraint was violated
	ErrIntegrity = errors.New("integrity violation")

	// ErrCorruptCache indicates a cache unit could not be parsed
	ErrCorruptCache = errors.New("corrupt cache unit")

	// ErrRemoteFetch indicates a remote metadata fetch failed
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")
)
