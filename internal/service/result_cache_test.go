package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stablepay/internal/domain/entity"
)

func TestResultCachePutGet(t *testing.T) {
	c := NewResultCache(time.Minute, testLogger())
	res := &entity.AggregateResult{Address: testAddress}

	gen := c.BeginFetch("k")
	assert.True(t, c.CompleteFetch("k", gen, res))

	got, found := c.Get("k")
	require.True(t, found)
	assert.Same(t, res, got)
}

func TestResultCacheMiss(t *testing.T) {
	c := NewResultCache(time.Minute, testLogger())
	_, found := c.Get("absent")
	assert.False(t, found)
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(20*time.Millisecond, testLogger())
	gen := c.BeginFetch("k")
	c.CompleteFetch("k", gen, &entity.AggregateResult{})

	time.Sleep(40 * time.Millisecond)
	_, found := c.Get("k")
	assert.False(t, found)
}

func TestResultCacheStaleWriterLoses(t *testing.T) {
	c := NewResultCache(time.Minute, testLogger())
	older := &entity.AggregateResult{Address: "old"}
	newer := &entity.AggregateResult{Address: "new"}

	genOld := c.BeginFetch("k")
	genNew := c.BeginFetch("k")

	// The newer fetch settles first; the superseded one must not clobber it
	// even though it completes later.
	require.True(t, c.CompleteFetch("k", genNew, newer))
	assert.False(t, c.CompleteFetch("k", genOld, older))

	got, found := c.Get("k")
	require.True(t, found)
	assert.Same(t, newer, got)
}

func TestResultCacheKeysAreIndependent(t *testing.T) {
	c := NewResultCache(time.Minute, testLogger())

	genA := c.BeginFetch("a")
	genB := c.BeginFetch("b")
	assert.True(t, c.CompleteFetch("a", genA, &entity.AggregateResult{Address: "a"}))
	assert.True(t, c.CompleteFetch("b", genB, &entity.AggregateResult{Address: "b"}))

	gotA, _ := c.Get("a")
	gotB, _ := c.Get("b")
	assert.Equal(t, "a", gotA.Address)
	assert.Equal(t, "b", gotB.Address)
}
