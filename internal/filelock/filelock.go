// Package filelock serializes writers of shared files across processes.
package filelock

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

const retryInterval = 25 * time.Millisecond

// DefaultTimeout bounds how long Lock waits for another process.
const DefaultTimeout = 5 * time.Second

// Lock acquires an exclusive advisory lock on path, creating the file if
// needed. The returned function releases the lock.
func Lock(path string) (unlock func() error, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return LockContext(ctx, path)
}

// LockContext is Lock with caller-controlled cancellation.
func LockContext(ctx context.Context, path string) (unlock func() error, err error) {
	fl := flock.New(path)
	ok, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("locking %s: lock held by another process", path)
	}
	return fl.Unlock, nil
}
