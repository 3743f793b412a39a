package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2026-08-31"

func TestUpgradeRecord_PositionalTwoFields(t *testing.T) {
	rec, err := UpgradeRecord(json.RawMessage(`["源.角色.jpg", "2026-08-30"]`), today)
	require.NoError(t, err)

	require.NotNil(t, rec.Current.ItemKey)
	assert.Equal(t, "源.角色.jpg", *rec.Current.ItemKey)
	assert.Equal(t, "2026-08-30", rec.Current.AssignedDate)
	require.Len(t, rec.Unlocked, 1)
	assert.Equal(t, "源.角色.jpg", rec.Unlocked[0].ItemKey)
	assert.Equal(t, "2026-08-30", rec.Unlocked[0].UnlockDate)
	assert.Equal(t, DefaultNickname, rec.Nickname)
}

func TestUpgradeRecord_PositionalWithNickname(t *testing.T) {
	rec, err := UpgradeRecord(json.RawMessage(`["a.b.png", "2026-08-30", "小明"]`), today)
	require.NoError(t, err)
	assert.Equal(t, "小明", rec.Nickname)
}

func TestUpgradeRecord_PositionalEmptyNicknameFallsBack(t *testing.T) {
	rec, err := UpgradeRecord(json.RawMessage(`["a.b.png", "2026-08-30", ""]`), today)
	require.NoError(t, err)
	assert.Equal(t, DefaultNickname, rec.Nickname)
}

func TestUpgradeRecord_PositionalTooShort(t *testing.T) {
	_, err := UpgradeRecord(json.RawMessage(`["only-item"]`), today)
	assert.Error(t, err)
}

func TestUpgradeRecord_BareStringUnlocked(t *testing.T) {
	raw := json.RawMessage(`{"current":{"item_key":"x.y.png","assigned_date":"2026-08-30"},"unlocked":["x.y.png","p.q.png"],"nickname":"n"}`)
	rec, err := UpgradeRecord(raw, today)
	require.NoError(t, err)

	require.Len(t, rec.Unlocked, 2)
	// Bare keys carry no date, so the upgrade stamps them with today.
	assert.Equal(t, today, rec.Unlocked[0].UnlockDate)
	assert.Equal(t, today, rec.Unlocked[1].UnlockDate)
	assert.Equal(t, "n", rec.Nickname)
}

func TestUpgradeRecord_CurrentShapePassThrough(t *testing.T) {
	raw := json.RawMessage(`{"current":{"item_key":"x.y.png","assigned_date":"2026-08-30"},"unlocked":[{"item_key":"x.y.png","unlock_date":"2026-08-29"}],"nickname":"n"}`)
	rec, err := UpgradeRecord(raw, today)
	require.NoError(t, err)

	require.Len(t, rec.Unlocked, 1)
	assert.Equal(t, "2026-08-29", rec.Unlocked[0].UnlockDate)
}

func TestUpgradeRecord_Idempotent(t *testing.T) {
	rec, err := UpgradeRecord(json.RawMessage(`["s.n.jpg", "2026-08-30", "nick"]`), today)
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	again, err := UpgradeRecord(data, today)
	require.NoError(t, err)
	assert.Equal(t, rec, again)
}

func TestUpgradeRecord_NilCurrentAfterLoss(t *testing.T) {
	raw := json.RawMessage(`{"current":{"item_key":null,"assigned_date":"2026-08-31"},"unlocked":[{"item_key":"x.y.png","unlock_date":"2026-08-30"}],"nickname":"n"}`)
	rec, err := UpgradeRecord(raw, today)
	require.NoError(t, err)
	assert.Nil(t, rec.Current.ItemKey)
	assert.False(t, rec.IsCurrentValid(today))
}

func TestUpgradeRecord_DuplicateUnlockedDeduped(t *testing.T) {
	raw := json.RawMessage(`{"unlocked":["a.png",{"item_key":"a.png","unlock_date":"2026-08-01"},"b.png"]}`)
	rec, err := UpgradeRecord(raw, today)
	require.NoError(t, err)

	require.Len(t, rec.Unlocked, 2)
	// First occurrence wins, including its date.
	assert.Equal(t, today, rec.Unlocked[0].UnlockDate)
}

func TestUpgradeGroupConfig_MixedGenerations(t *testing.T) {
	raw := map[string]json.RawMessage{
		"1001": json.RawMessage(`["a.b.png", "2026-08-30"]`),
		"1002": json.RawMessage(`{"unlocked":["c.d.png"]}`),
		"1003": json.RawMessage(`{"current":{"item_key":"e.f.png","assigned_date":"2026-08-31"},"unlocked":[{"item_key":"e.f.png","unlock_date":"2026-08-31"}],"nickname":"x"}`),
	}
	cfg, err := UpgradeGroupConfig(raw, today)
	require.NoError(t, err)
	require.Len(t, cfg, 3)
	assert.Equal(t, DefaultNickname, cfg["1001"].Nickname)
	assert.True(t, cfg["1003"].IsCurrentValid(today))
}

func TestUpgradeGroupConfig_PropagatesUserError(t *testing.T) {
	raw := map[string]json.RawMessage{
		"1001": json.RawMessage(`42`),
	}
	_, err := UpgradeGroupConfig(raw, today)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1001")
}

func TestRecordDraw_AppendsOnce(t *testing.T) {
	rec := &UnlockRecord{}
	rec.RecordDraw("a.b.png", "2026-08-30")
	rec.RecordDraw("a.b.png", today)

	require.Len(t, rec.Unlocked, 1)
	// History keeps the first unlock date, only the assignment moves.
	assert.Equal(t, "2026-08-30", rec.Unlocked[0].UnlockDate)
	assert.Equal(t, today, rec.Current.AssignedDate)
}

func TestRecordDraw_GrowsHistory(t *testing.T) {
	rec := &UnlockRecord{}
	rec.RecordDraw("a.png", "2026-08-29")
	rec.RecordDraw("b.png", "2026-08-30")
	rec.RecordDraw("c.png", today)

	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, rec.UnlockedKeys())
	assert.Equal(t, "c.png", *rec.Current.ItemKey)
}

func TestIsCurrentValid(t *testing.T) {
	key := "a.png"
	rec := &UnlockRecord{Current: CurrentAssignment{ItemKey: &key, AssignedDate: today}}
	assert.True(t, rec.IsCurrentValid(today))
	assert.False(t, rec.IsCurrentValid("2026-09-01"))

	rec.Current.ItemKey = nil
	assert.False(t, rec.IsCurrentValid(today))
}

func TestGroupConfig_UnlockedUnion(t *testing.T) {
	cfg := GroupConfig{
		"u1": {Unlocked: []UnlockEntry{{ItemKey: "a.png"}, {ItemKey: "b.png"}}},
		"u2": {Unlocked: []UnlockEntry{{ItemKey: "b.png"}, {ItemKey: "c.png"}}},
	}
	union := cfg.UnlockedUnion()
	assert.Len(t, union, 3)
	assert.Contains(t, union, "a.png")
	assert.Contains(t, union, "b.png")
	assert.Contains(t, union, "c.png")
}
