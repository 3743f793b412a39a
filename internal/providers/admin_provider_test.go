package providers

import (
	"os"
	"path/filepath"
	"testing"
	"waifud/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// local mock logger to avoid import cycle with testutil
type providerTestLogger struct{}

func (m *providerTestLogger) Debugf(_ TypeEnum, _ string, _ ...any) {}
func (m *providerTestLogger) Infof(_ TypeEnum, _ string, _ ...any)  {}
func (m *providerTestLogger) Warnf(_ TypeEnum, _ string, _ ...any)  {}
func (m *providerTestLogger) Errorf(_ TypeEnum, _ string, _ ...any) {}
func (m *providerTestLogger) Close()                                {}

func adminConfig(file string) *structures.Config {
	return &structures.Config{
		Store: structures.StoreConfig{AdminsFile: file},
	}
}

func TestAdminProvider_ReadsList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "admins.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"admins_id":["111","222"]}`), 0o644))

	ap := NewAdminProvider(adminConfig(file), &providerTestLogger{})
	assert.Equal(t, []string{"111", "222"}, ap.Admins())
}

func TestAdminProvider_StripsBOM(t *testing.T) {
	file := filepath.Join(t.TempDir(), "admins.json")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"admins_id":["111"]}`)...)
	require.NoError(t, os.WriteFile(file, content, 0o644))

	ap := NewAdminProvider(adminConfig(file), &providerTestLogger{})
	assert.Equal(t, []string{"111"}, ap.Admins())
}

func TestAdminProvider_MissingFileIsEmpty(t *testing.T) {
	ap := NewAdminProvider(adminConfig(filepath.Join(t.TempDir(), "absent.json")), &providerTestLogger{})
	assert.Empty(t, ap.Admins())
}

func TestAdminProvider_CorruptFileIsEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "admins.json")
	require.NoError(t, os.WriteFile(file, []byte("not json"), 0o644))

	ap := NewAdminProvider(adminConfig(file), &providerTestLogger{})
	assert.Empty(t, ap.Admins())
}

func TestAdminProvider_UnconfiguredIsEmpty(t *testing.T) {
	ap := NewAdminProvider(adminConfig(""), &providerTestLogger{})
	assert.Empty(t, ap.Admins())
}
