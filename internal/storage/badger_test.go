package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/internal/diagram"
)

func TestBadgerKVInMemory(t *testing.T) {
	kv, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "v1"))
	require.NoError(t, kv.Set("k", "v2"))
	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s := snapshotOf(t, diagram.Start, diagram.Decision)

	kv, err := OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	require.NoError(t, NewCatalogue(kv).Save("kept", s))
	require.NoError(t, kv.Close())

	kv, err = OpenBadger(BadgerConfig{Path: dir})
	require.NoError(t, err)
	defer kv.Close()
	r, err := NewCatalogue(kv).Load("kept")
	require.NoError(t, err)
	assert.Equal(t, s, r.Data)
}
