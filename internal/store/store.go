// Package store provides pluggable whole-document persistence for
// campaign state. Writes are atomic at document granularity: a subsequent
// Get observes either the prior document or the new one, never a partial.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for an unknown campaign id.
var ErrNotFound = errors.New("campaign not found")

// Store persists raw campaign documents keyed by campaign id.
type Store interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, doc []byte) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Durable reports whether a store survives process restart. The Manager
// treats saves to non-durable stores as no-ops.
func Durable(s Store) bool {
	_, ephemeral := s.(*Memory)
	return !ephemeral
}
