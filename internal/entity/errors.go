package entity

import "errors"

var (
	// ErrUnknownChain means the chain ID has no directory entry.
	ErrUnknownChain = errors.New("unknown chain")

	// ErrNotReady means no probe sweep has produced results yet.
	ErrNotReady = errors.New("no probe results yet")
)
