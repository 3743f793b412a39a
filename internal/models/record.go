package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// DefaultNickname substitutes for records migrated from formats that predate
// nickname tracking.
const DefaultNickname = "用户"

// CurrentAssignment is today's active item for a user. ItemKey is nil after an
// NTR loss; the assignment expires at day rollover regardless.
type CurrentAssignment struct {
	ItemKey      *string `json:"item_key"`
	AssignedDate string  `json:"assigned_date"`
}

type UnlockEntry struct {
	ItemKey    string `json:"item_key"`
	UnlockDate string `json:"unlock_date"`
}

// UnlockRecord is the per-user state inside a group. Unlocked only ever grows
// and its entries are unique by item key, first unlock wins.
type UnlockRecord struct {
	Current  CurrentAssignment `json:"current"`
	Unlocked []UnlockEntry     `json:"unlocked"`
	Nickname string            `json:"nickname"`
}

// GroupConfig maps user IDs to their unlock records, one file per group.
type GroupConfig map[string]*UnlockRecord

// UpgradeRecord normalizes one raw user record to the current shape. Three
// generations are accepted:
//
//	["item", "date"] / ["item", "date", "nick"]   positional list
//	{"unlocked": ["item", ...], ...}              bare item keys
//	{"current": ..., "unlocked": [...], ...}      current shape
//
// The upgrade is idempotent: running it on already-upgraded data returns an
// identical structure. Bare unlock entries get today as their inferred date.
func UpgradeRecord(raw json.RawMessage, today string) (*UnlockRecord, error) {
	var positional []string
	if err := json.Unmarshal(raw, &positional); err == nil {
		if len(positional) < 2 {
			return nil, fmt.Errorf("positional record has %d fields, want at least 2", len(positional))
		}
		item, date := positional[0], positional[1]
		nickname := DefaultNickname
		if len(positional) >= 3 && positional[2] != "" {
			nickname = positional[2]
		}
		return &UnlockRecord{
			Current:  CurrentAssignment{ItemKey: &item, AssignedDate: date},
			Unlocked: []UnlockEntry{{ItemKey: item, UnlockDate: date}},
			Nickname: nickname,
		}, nil
	}

	var shim struct {
		Current  *CurrentAssignment `json:"current"`
		Unlocked []json.RawMessage  `json:"unlocked"`
		Nickname string             `json:"nickname"`
	}
	if err := json.Unmarshal(raw, &shim); err != nil {
		return nil, err
	}

	rec := &UnlockRecord{Nickname: shim.Nickname}
	if shim.Current != nil {
		rec.Current = *shim.Current
	}
	for _, elem := range shim.Unlocked {
		var key string
		if err := json.Unmarshal(elem, &key); err == nil {
			rec.addUnlocked(UnlockEntry{ItemKey: key, UnlockDate: today})
			continue
		}
		var entry UnlockEntry
		if err := json.Unmarshal(elem, &entry); err != nil {
			return nil, err
		}
		rec.addUnlocked(entry)
	}
	return rec, nil
}

// UpgradeGroupConfig runs UpgradeRecord over every user in a raw group file.
func UpgradeGroupConfig(raw map[string]json.RawMessage, today string) (GroupConfig, error) {
	cfg := make(GroupConfig, len(raw))
	for userID, rec := range raw {
		upgraded, err := UpgradeRecord(rec, today)
		if err != nil {
			return nil, fmt.Errorf("user %s: %w", userID, err)
		}
		cfg[userID] = upgraded
	}
	return cfg, nil
}

func (r *UnlockRecord) addUnlocked(entry UnlockEntry) {
	if r.HasUnlocked(entry.ItemKey) {
		return
	}
	r.Unlocked = append(r.Unlocked, entry)
}

func (r *UnlockRecord) HasUnlocked(itemKey string) bool {
	for _, e := range r.Unlocked {
		if e.ItemKey == itemKey {
			return true
		}
	}
	return false
}

// RecordDraw sets today's assignment and appends the item to the unlock
// history unless it is already there.
func (r *UnlockRecord) RecordDraw(itemKey, today string) {
	key := itemKey
	r.Current = CurrentAssignment{ItemKey: &key, AssignedDate: today}
	r.addUnlocked(UnlockEntry{ItemKey: itemKey, UnlockDate: today})
}

// IsCurrentValid reports whether the record holds a live assignment for today.
func (r *UnlockRecord) IsCurrentValid(today string) bool {
	return r.Current.AssignedDate == today && r.Current.ItemKey != nil
}

// UnlockedKeys returns the item keys of the unlock history in recorded order.
func (r *UnlockRecord) UnlockedKeys() []string {
	keys := make([]string, 0, len(r.Unlocked))
	for _, e := range r.Unlocked {
		keys = append(keys, e.ItemKey)
	}
	return keys
}

// UnlockedUnion is the group-wide set of unlocked item keys across all users.
func (c GroupConfig) UnlockedUnion() map[string]struct{} {
	union := make(map[string]struct{})
	for _, rec := range c {
		for _, e := range rec.Unlocked {
			union[e.ItemKey] = struct{}{}
		}
	}
	return union
}
