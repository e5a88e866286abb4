package redisstore

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis test: REDIS_URL not set")
	}
	rdb, err := NewClient(url)
	require.NoError(t, err)

	s := New(rdb, "cancelflow:test:"+uuid.NewString()+":")
	t.Cleanup(func() {
		_ = s.Reset()
		_ = s.Close()
	})
	return s
}

func TestStorage_SetGetDelete(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Set("token", []byte("abc"), time.Minute))
	got, err = s.Get("token")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	require.NoError(t, s.Delete("token"))
	got, err = s.Get("token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_Expiry(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.Set("short", []byte("x"), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)

	got, err := s.Get("short")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_ResetKeepsOtherPrefixes(t *testing.T) {
	s := newTestStorage(t)
	other := New(s.rdb, s.prefix+"other:")

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, other.Set("b", []byte("2"), 0))

	// other's keys live under s's prefix, so reset the narrower store first.
	require.NoError(t, other.Reset())
	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, s.Reset())
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_EmptyKeyIsNoop(t *testing.T) {
	s := &Storage{prefix: DefaultPrefix}

	got, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Set("", []byte("x"), 0))
	assert.NoError(t, s.Delete(""))
}
