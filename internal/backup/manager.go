package backup

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"waifud/internal/backup/interfaces"
	"waifud/internal/providers"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

// Snapshot is the on-disk backup format: every JSON file of the config dir,
// verbatim, plus when it was taken.
type Snapshot struct {
	CreatedAt time.Time         `json:"created_at"`
	Files     map[string][]byte `json:"files"`
}

// Manager snapshots the whole config directory (group files, ntr status,
// limits) into one compressed file, and restores it when the config dir is
// empty, e.g. after a fresh deployment.
type Manager struct {
	configDir  string
	filePath   string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *Manager {
	return &Manager{
		configDir:  conf.Store.ConfigDir,
		filePath:   conf.Backup.FilePath,
		compressor: compressor,
		logger:     logger,
	}
}

func (m *Manager) Save() error {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	snap := Snapshot{CreatedAt: time.Now(), Files: make(map[string][]byte)}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.configDir, entry.Name()))
		if err != nil {
			m.logger.Warnf(providers.TypeApp, "Backup skip %s: %s", entry.Name(), err)
			continue
		}
		snap.Files[entry.Name()] = data
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := m.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		return err
	}

	tmpFile := m.filePath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, m.filePath)
}

// Restore rewrites config files from the newest snapshot, but only files that
// do not exist yet: live state always wins over a backup.
func (m *Manager) Restore() error {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := m.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snap Snapshot
	if err := json.Unmarshal(jsonData, &snap); err != nil || snap.Files == nil {
		// Early deployments wrote the bare file map without metadata.
		var files map[string][]byte
		if err := json.Unmarshal(jsonData, &files); err != nil {
			m.logger.Warnf(providers.TypeApp, "Backup restore failed: %s", err)
			return err
		}
		snap.Files = files
	}

	if err := os.MkdirAll(m.configDir, 0o755); err != nil {
		return err
	}

	restored := 0
	for name, content := range snap.Files {
		path := filepath.Join(m.configDir, filepath.Base(name))
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			m.logger.Warnf(providers.TypeApp, "Backup restore skip %s: %s", name, err)
			continue
		}
		restored++
	}
	if restored > 0 {
		m.logger.Infof(providers.TypeApp, "Restored %d config files from backup", restored)
	}
	return nil
}

func (m *Manager) Close() {
	m.compressor.Close()
}
