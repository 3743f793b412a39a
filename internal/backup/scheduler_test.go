package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls int
}

func (c *countingCleaner) CleanupOutputs() (int, error) {
	c.calls++
	return 0, nil
}

func TestScheduler_RestoreMissingSnapshot(t *testing.T) {
	conf := backupConfig(t.TempDir(), filepath.Join(t.TempDir(), "absent.snap"))
	conf.Backup.SaveInterval = time.Second
	conf.Gallery.CleanupInterval = time.Second

	m := NewManager(conf, mustCompressor(t), &backupTestLogger{})
	s := NewScheduler(conf, &backupTestLogger{}, m, &countingCleaner{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_PersistWritesSnapshot(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "12345.json"), []byte("{}"), 0o644))

	filePath := filepath.Join(t.TempDir(), "waifud-config.snap")
	conf := backupConfig(configDir, filePath)
	conf.Backup.SaveInterval = time.Second
	conf.Gallery.CleanupInterval = time.Second

	m := NewManager(conf, mustCompressor(t), &backupTestLogger{})
	s := NewScheduler(conf, &backupTestLogger{}, m, &countingCleaner{})
	require.NoError(t, s.Persist())

	_, err := os.Stat(filePath)
	assert.NoError(t, err)
}

func TestScheduler_StopNilCron(t *testing.T) {
	conf := backupConfig(t.TempDir(), filepath.Join(t.TempDir(), "x.snap"))
	m := NewManager(conf, mustCompressor(t), &backupTestLogger{})
	s := NewScheduler(conf, &backupTestLogger{}, m, &countingCleaner{})
	// Should not panic with nil cron
	s.Stop()
}

func TestScheduler_InitAndStop(t *testing.T) {
	conf := backupConfig(t.TempDir(), filepath.Join(t.TempDir(), "x.snap"))
	conf.Backup.SaveInterval = time.Second
	conf.Gallery.CleanupInterval = time.Second

	m := NewManager(conf, mustCompressor(t), &backupTestLogger{})
	s := NewScheduler(conf, &backupTestLogger{}, m, &countingCleaner{})
	s.Init()
	// Give the cron a moment to start
	time.Sleep(50 * time.Millisecond)
	s.Stop()
}
