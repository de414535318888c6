package filelock

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.lock")

	unlock, err := Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())

	unlock, err = Lock(path)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestLockContextTimesOutWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.lock")

	unlock, err := Lock(path)
	require.NoError(t, err)
	defer unlock() //nolint:errcheck // test cleanup

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = LockContext(ctx, path)
	assert.Error(t, err)
}
