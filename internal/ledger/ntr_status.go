package ledger

import (
	"os"
	"path/filepath"
	"sync"
	"waifud/internal/providers"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

// StatusStore holds the per-group steal-feature toggle, loaded at startup and
// persisted on every flip.
type StatusStore struct {
	path     string
	logger   providers.Logger
	mu       sync.Mutex
	statuses map[string]bool
}

func NewStatusStore(conf *structures.Config, logger providers.Logger) *StatusStore {
	ss := &StatusStore{
		path:     filepath.Join(conf.Store.ConfigDir, "ntr_status.json"),
		logger:   logger,
		statuses: make(map[string]bool),
	}

	data, err := os.ReadFile(ss.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Errorf(providers.TypeApp, "Failed to read ntr status file: %s", err)
		}
		return ss
	}
	if err := json.Unmarshal(data, &ss.statuses); err != nil {
		logger.Errorf(providers.TypeApp, "Ntr status file corrupt, starting empty: %s", err)
		ss.statuses = make(map[string]bool)
	}
	return ss
}

func (ss *StatusStore) Enabled(groupID string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.statuses[groupID]
}

// Toggle flips the group's state, persists and returns the new value.
func (ss *StatusStore) Toggle(groupID string) (bool, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.statuses[groupID] = !ss.statuses[groupID]
	if err := ss.persistLocked(); err != nil {
		return false, err
	}
	return ss.statuses[groupID], nil
}

func (ss *StatusStore) persistLocked() error {
	data, err := json.Marshal(ss.statuses)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(ss.path), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(ss.path, data)
}
