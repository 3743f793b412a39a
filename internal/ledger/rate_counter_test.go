package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCounter(t *testing.T) (*RateCounter, string) {
	dir := t.TempDir()
	return NewRateCounter(ledgerConfig(dir), &ledgerTestLogger{}), dir
}

func TestRateCounter_AllowsUpToMax(t *testing.T) {
	rc, _ := newTestCounter(t)

	allowed, remaining, err := rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)

	allowed, remaining, err = rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, remaining, err = rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestRateCounter_DeniesAtLimitWithoutCounting(t *testing.T) {
	rc, _ := newTestCounter(t)
	for i := 0; i < 3; i++ {
		_, _, err := rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
		require.NoError(t, err)
	}

	allowed, remaining, err := rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	// The denied attempt must not push the count past the limit.
	assert.Equal(t, 3, rc.Count("g", "u", "2026-08-31"))
}

func TestRateCounter_DayRolloverResets(t *testing.T) {
	rc, _ := newTestCounter(t)
	for i := 0; i < 3; i++ {
		_, _, err := rc.IncrementAndCheck("g", "u", "2026-08-30", 3)
		require.NoError(t, err)
	}

	allowed, remaining, err := rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2, remaining)
	// Yesterday's counts are gone after the prune.
	assert.Equal(t, 0, rc.Count("g", "u", "2026-08-30"))
}

func TestRateCounter_UsersAreIndependent(t *testing.T) {
	rc, _ := newTestCounter(t)
	for i := 0; i < 3; i++ {
		_, _, err := rc.IncrementAndCheck("g", "u1", "2026-08-31", 3)
		require.NoError(t, err)
	}

	allowed, _, err := rc.IncrementAndCheck("g", "u2", "2026-08-31", 3)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateCounter_PersistsAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	conf := ledgerConfig(dir)

	rc := NewRateCounter(conf, &ledgerTestLogger{})
	_, _, err := rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)
	_, _, err = rc.IncrementAndCheck("g", "u", "2026-08-31", 3)
	require.NoError(t, err)

	reloaded := NewRateCounter(conf, &ledgerTestLogger{})
	assert.Equal(t, 2, reloaded.Count("g", "u", "2026-08-31"))
}

func TestRateCounter_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ntr_limit.json"), []byte("nope"), 0o644))

	rc := NewRateCounter(ledgerConfig(dir), &ledgerTestLogger{})
	assert.Equal(t, 0, rc.Count("g", "u", "2026-08-31"))
}

func TestRateCounter_PruneToTodayDropsEmptyParents(t *testing.T) {
	rc, _ := newTestCounter(t)
	_, _, err := rc.IncrementAndCheck("g", "u", "2026-08-30", 3)
	require.NoError(t, err)

	rc.PruneToToday("2026-08-31")
	assert.Empty(t, rc.store)
}
