package ledger

import (
	"os"
	"path/filepath"
	"sync"
	"waifud/internal/providers"
	"waifud/internal/structures"

	json "github.com/goccy/go-json"
)

// counterStore is group → user → date → attempts.
type counterStore map[string]map[string]map[string]int

// RateCounter enforces the per-day steal limit. It self-prunes to the current
// day before every check, so counts reset implicitly at day rollover and a
// stale day can never suppress today's attempt.
type RateCounter struct {
	path   string
	logger providers.Logger
	mu     sync.Mutex
	store  counterStore
}

func NewRateCounter(conf *structures.Config, logger providers.Logger) *RateCounter {
	rc := &RateCounter{
		path:   filepath.Join(conf.Store.ConfigDir, "ntr_limit.json"),
		logger: logger,
		store:  make(counterStore),
	}

	data, err := os.ReadFile(rc.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Errorf(providers.TypeApp, "Failed to read ntr limit file: %s", err)
		}
		return rc
	}
	if err := json.Unmarshal(data, &rc.store); err != nil {
		logger.Errorf(providers.TypeApp, "Ntr limit file corrupt, starting empty: %s", err)
		rc.store = make(counterStore)
	}
	return rc
}

// IncrementAndCheck counts one attempt for (group, user, today) against max.
// At the limit it returns (false, 0) without mutating anything.
func (rc *RateCounter) IncrementAndCheck(groupID, userID, today string, max int) (bool, int, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.pruneLocked(today)

	count := rc.store[groupID][userID][today]
	if count >= max {
		return false, 0, nil
	}

	if rc.store[groupID] == nil {
		rc.store[groupID] = make(map[string]map[string]int)
	}
	if rc.store[groupID][userID] == nil {
		rc.store[groupID][userID] = make(map[string]int)
	}
	rc.store[groupID][userID][today] = count + 1

	if err := rc.persistLocked(); err != nil {
		return false, 0, err
	}
	return true, max - (count + 1), nil
}

// PruneToToday drops every date key other than today, then empty users and
// groups.
func (rc *RateCounter) PruneToToday(today string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.pruneLocked(today)
}

// Count returns today's attempt count without mutating.
func (rc *RateCounter) Count(groupID, userID, today string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.pruneLocked(today)
	return rc.store[groupID][userID][today]
}

func (rc *RateCounter) pruneLocked(today string) {
	for groupID, users := range rc.store {
		for userID, days := range users {
			for date := range days {
				if date != today {
					delete(days, date)
				}
			}
			if len(days) == 0 {
				delete(users, userID)
			}
		}
		if len(users) == 0 {
			delete(rc.store, groupID)
		}
	}
}

func (rc *RateCounter) persistLocked() error {
	data, err := json.Marshal(rc.store)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(rc.path), 0o755); err != nil {
		return err
	}
	return writeFileAtomic(rc.path, data)
}
