// Package cache stores serialised analysis results keyed by image reference.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// DefaultTTL is used when a store is created with a non-positive TTL.
const DefaultTTL = 24 * time.Hour

// Store is a byte-oriented key/value cache with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Key builds a stable cache key for an image reference under namespace.
func Key(namespace, ref string) string {
	sum := sha256.Sum256([]byte(ref))
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(sum[:]))
}

// Type selects a Store implementation.
type Type string

const (
	TypeNone   Type = "none"
	TypeMemory Type = "memory"
	TypeRedis  Type = "redis"
)

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte) error   { return nil }
