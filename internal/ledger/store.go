package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"waifud/internal/models"
	"waifud/internal/providers"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

// Store owns the per-group unlock files. Loads upgrade legacy record shapes at
// the boundary; writes always emit the current shape, whole file at a time.
// Concurrent writers to the same group are last-writer-wins, documented and
// accepted given the low write frequency.
type Store struct {
	configDir string
	logger    providers.Logger
	clock     providers.ClockInterface
	mu        sync.Mutex
}

func NewStore(conf *structures.Config, logger providers.Logger, clock providers.ClockInterface) *Store {
	return &Store{configDir: conf.Store.ConfigDir, logger: logger, clock: clock}
}

func (s *Store) path(groupID string) string {
	return filepath.Join(s.configDir, groupID+".json")
}

// Load reads a group's config. A missing file is an empty config, not an
// error; malformed JSON is reported as ErrConfigCorrupt and logged.
func (s *Store) Load(groupID string) (models.GroupConfig, error) {
	data, err := os.ReadFile(s.path(groupID))
	if err != nil {
		if os.IsNotExist(err) {
			return models.GroupConfig{}, nil
		}
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Errorf(providers.TypeApp, "Group %s config corrupt: %s", groupID, err)
		return nil, fmt.Errorf("%w: group %s: %s", models.ErrConfigCorrupt, groupID, err)
	}

	cfg, err := models.UpgradeGroupConfig(raw, s.clock.Today())
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Group %s config upgrade failed: %s", groupID, err)
		return nil, fmt.Errorf("%w: group %s: %s", models.ErrConfigCorrupt, groupID, err)
	}
	return cfg, nil
}

// Write overwrites the group file with the full config.
func (s *Store) Write(groupID string, cfg models.GroupConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return err
	}
	return writeFileAtomic(s.path(groupID), data)
}

// reservedFiles are config-dir entries that are not group configs.
var reservedFiles = map[string]struct{}{
	"ntr_status.json": {},
	"ntr_limit.json":  {},
	"admins.json":     {},
}

// Groups lists the IDs of all groups with a persisted config.
func (s *Store) Groups() []string {
	entries, err := os.ReadDir(s.configDir)
	if err != nil {
		return nil
	}
	groups := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if _, reserved := reservedFiles[name]; reserved {
			continue
		}
		groups = append(groups, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(groups)
	return groups
}

// writeFileAtomic writes via a temp file and rename so readers never observe a
// half-written config.
func writeFileAtomic(fileName string, data []byte) error {
	tmpFile := fileName + ".tmp"
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

	return os.Rename(tmpFile, fileName)
}
