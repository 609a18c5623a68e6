package core

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

// Storage is a small persistent key/value store. Implementations live in storage/.
type Storage interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every key given; absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
