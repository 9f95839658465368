package store

import "errors"

// Sentinel errors for build-history store operations, following the same
// per-package sentinel convention as pkg/postgres/errors.go and
// pkg/auth/errors.go: every package owns its own errors rather than
// routing everything through one shared type.
var (
	ErrInvalidConfig = errors.New("store: invalid configuration")
	ErrNotFound      = errors.New("store: build run not found")
	ErrDuplicateRun  = errors.New("store: build run already recorded")
	ErrUnknownDriver = errors.New("store: unknown driver")
)
