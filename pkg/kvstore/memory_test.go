package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreLoadAbsentKey(t *testing.T) {
	s := NewMemoryStore()

	val, err := s.Load(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, val)
}

func TestMemoryStoreSaveReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, s.Save(ctx, "k", []byte("one")))
	assert.NoError(t, s.Save(ctx, "k", []byte("two")))

	val, err := s.Load(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("two"), val)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("original")
	assert.NoError(t, s.Save(ctx, "k", in))
	in[0] = 'X'

	val, err := s.Load(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("original"), val)

	// Mutating the returned slice must not leak back in.
	val[0] = 'Y'
	again, err := s.Load(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestMemoryStoreKeysByPrefix(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, s.Save(ctx, "study_reminders:u1", []byte("a")))
	assert.NoError(t, s.Save(ctx, "study_reminders:u2", []byte("b")))
	assert.NoError(t, s.Save(ctx, "bookmarks:u1", []byte("c")))

	keys, err := s.Keys(ctx, "study_reminders:")
	assert.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.ElementsMatch(t, []string{"study_reminders:u1", "study_reminders:u2"}, keys)
}
