package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
	"waifud/internal/models"
	"waifud/internal/structures"
)

// Collaborator slices, implemented by ledger, catalog, gallery and providers.
type (
	LedgerInterface interface {
		Load(groupID string) (models.GroupConfig, error)
		Write(groupID string, cfg models.GroupConfig) error
		Groups() []string
	}

	CatalogInterface interface {
		List() ([]string, error)
		Has(key string) bool
		Path(key string) string
	}

	RemoteInterface interface {
		List(ctx context.Context) ([]string, error)
		URL(key string) string
	}

	StatusInterface interface {
		Enabled(groupID string) bool
		Toggle(groupID string) (bool, error)
	}

	RateCounterInterface interface {
		IncrementAndCheck(groupID, userID, today string, max int) (bool, int, error)
	}

	AdminInterface interface {
		Admins() []string
	}

	GalleryInterface interface {
		GroupGallery(ctx context.Context, groupID string) (string, error)
		PersonalGallery(ctx context.Context, groupID, userID string) (string, error)
		InvalidateBase() error
	}

	ClockInterface interface {
		Today() string
	}

	MetricsInterface interface {
		IncDraws()
		IncNtrAttempts(result string)
	}
)

type WifeServiceInterface interface {
	Draw(ctx context.Context, groupID, userID, nickname string) (models.Chain, error)
	Ntr(ctx context.Context, groupID, userID, nickname, targetID, targetName string) (models.Chain, int, error)
	Search(ctx context.Context, groupID, userID, targetID, targetName string) (models.Chain, error)
	ToggleNtr(groupID, userID string) (bool, error)
	GroupGallery(ctx context.Context, groupID string) (string, error)
	PersonalGallery(ctx context.Context, groupID, userID string) (string, error)
	InvalidateBase(userID string) error
	CatalogSize() int
	GroupCount() int
}

type WifeService struct {
	conf    *structures.Config
	ledger  LedgerInterface
	catalog CatalogInterface
	remote  RemoteInterface
	status  StatusInterface
	limiter RateCounterInterface
	admins  AdminInterface
	gallery GalleryInterface
	clock   ClockInterface
	metrics MetricsInterface

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewWifeService(conf *structures.Config, ledger LedgerInterface, catalog CatalogInterface, remote RemoteInterface, status StatusInterface, limiter RateCounterInterface, admins AdminInterface, gallery GalleryInterface, clock ClockInterface, metrics MetricsInterface, rng *rand.Rand) WifeServiceInterface {
	return &WifeService{
		conf:    conf,
		ledger:  ledger,
		catalog: catalog,
		remote:  remote,
		status:  status,
		limiter: limiter,
		admins:  admins,
		gallery: gallery,
		clock:   clock,
		metrics: metrics,
		rng:     rng,
	}
}

// Draw assigns (or re-announces) today's item for the user. An expired
// assignment is re-rolled; a live one is returned unchanged.
func (ws *WifeService) Draw(ctx context.Context, groupID, userID, nickname string) (models.Chain, error) {
	today := ws.clock.Today()
	cfg, err := ws.loadOrEmpty(groupID)
	if err != nil {
		return nil, err
	}

	rec := cfg[userID]
	if rec != nil && rec.IsCurrentValid(today) {
		// Keep the stored nickname current even when no re-roll happens.
		if nickname != "" && rec.Nickname != nickname {
			rec.Nickname = nickname
			if err := ws.ledger.Write(groupID, cfg); err != nil {
				return nil, err
			}
		}
		return ws.announceChain(nickname, *rec.Current.ItemKey), nil
	}

	itemKey, err := ws.pickRandom(ctx)
	if err != nil {
		return nil, err
	}

	if rec == nil {
		rec = &models.UnlockRecord{}
		cfg[userID] = rec
	}
	rec.Nickname = nickname
	rec.RecordDraw(itemKey, today)

	if err := ws.ledger.Write(groupID, cfg); err != nil {
		return nil, err
	}
	ws.metrics.IncDraws()
	return ws.announceChain(nickname, itemKey), nil
}

// Ntr attempts to steal the target's current assignment. The remaining-count
// return is only meaningful on a failed roll. Rejections before the dice roll
// (no target, expired) never consume an attempt; the rate limit check itself
// is what consumes it.
func (ws *WifeService) Ntr(ctx context.Context, groupID, userID, nickname, targetID, targetName string) (models.Chain, int, error) {
	if !ws.status.Enabled(groupID) {
		return nil, 0, models.ErrFeatureDisabled
	}

	today := ws.clock.Today()
	cfg, err := ws.loadOrEmpty(groupID)
	if err != nil {
		return nil, 0, err
	}
	if len(cfg) == 0 {
		return nil, 0, models.ErrNoRecord
	}

	target := ws.resolveTarget(cfg, targetID, targetName)
	if target == "" {
		return nil, 0, models.ErrNoTarget
	}
	if target == userID {
		return nil, 0, models.ErrSelfTarget
	}

	victim := cfg[target]
	if victim == nil {
		return nil, 0, models.ErrNoRecord
	}
	// Expiry is checked before the counter so a doomed attempt costs nothing.
	if !victim.IsCurrentValid(today) {
		return nil, 0, models.ErrExpired
	}

	allowed, remaining, err := ws.limiter.IncrementAndCheck(groupID, userID, today, ws.conf.Ntr.MaxPerDay)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, models.ErrRateLimited
	}

	if ws.roll() >= ws.conf.Ntr.Possibility {
		ws.metrics.IncNtrAttempts("loss")
		return models.Chain{models.TextSegment{Text: fmt.Sprintf("%s，你的阴谋失败了，黄毛被干掉了！你还有%d次机会", nickname, remaining)}}, remaining, nil
	}

	stolen := *victim.Current.ItemKey
	victim.Current.ItemKey = nil

	attacker := cfg[userID]
	if attacker == nil {
		attacker = &models.UnlockRecord{}
		cfg[userID] = attacker
	}
	attacker.Nickname = nickname
	attacker.RecordDraw(stolen, today)

	if err := ws.ledger.Write(groupID, cfg); err != nil {
		return nil, 0, err
	}
	ws.metrics.IncNtrAttempts("win")
	return models.Chain{models.TextSegment{Text: fmt.Sprintf("%s，你的阴谋已成功！", nickname)}}, remaining, nil
}

// Search looks up the target's (or the caller's own) current assignment.
func (ws *WifeService) Search(ctx context.Context, groupID, userID, targetID, targetName string) (models.Chain, error) {
	today := ws.clock.Today()
	cfg, err := ws.loadOrEmpty(groupID)
	if err != nil {
		return nil, err
	}
	if len(cfg) == 0 {
		return nil, models.ErrNoRecord
	}

	target := ws.resolveTarget(cfg, targetID, targetName)
	if target == "" {
		target = userID
	}

	rec := cfg[target]
	if rec == nil {
		return nil, models.ErrNoRecord
	}
	if !rec.IsCurrentValid(today) {
		return nil, models.ErrExpired
	}

	itemKey := *rec.Current.ItemKey
	item := models.ParseItemKey(itemKey)
	owner := rec.Nickname
	if owner == "" {
		owner = target
	}

	var text string
	if item.Source != models.UnknownSource {
		text = fmt.Sprintf("%s的二次元老婆是%s哒~ 来自《%s》", owner, item.DisplayName, item.Source)
	} else {
		text = fmt.Sprintf("%s的二次元老婆是%s哒~", owner, item.DisplayName)
	}
	return ws.withImage(models.Chain{models.TextSegment{Text: text}}, itemKey), nil
}

// ToggleNtr flips the group's steal feature; admin-only.
func (ws *WifeService) ToggleNtr(groupID, userID string) (bool, error) {
	if !ws.isAdmin(userID) {
		return false, models.ErrNotAdmin
	}
	return ws.status.Toggle(groupID)
}

func (ws *WifeService) GroupGallery(ctx context.Context, groupID string) (string, error) {
	return ws.gallery.GroupGallery(ctx, groupID)
}

func (ws *WifeService) PersonalGallery(ctx context.Context, groupID, userID string) (string, error) {
	return ws.gallery.PersonalGallery(ctx, groupID, userID)
}

// InvalidateBase drops the shared base canvas after a catalog change;
// admin-only, same gate as ToggleNtr.
func (ws *WifeService) InvalidateBase(userID string) error {
	if !ws.isAdmin(userID) {
		return models.ErrNotAdmin
	}
	return ws.gallery.InvalidateBase()
}

func (ws *WifeService) CatalogSize() int {
	items, _ := ws.catalog.List()
	return len(items)
}

func (ws *WifeService) GroupCount() int {
	return len(ws.ledger.Groups())
}

// loadOrEmpty applies the ConfigCorrupt policy: a corrupt file behaves as an
// empty config (the ledger has already logged it). Other I/O errors propagate
// so a transient read failure cannot clobber the file on the next write.
func (ws *WifeService) loadOrEmpty(groupID string) (models.GroupConfig, error) {
	cfg, err := ws.ledger.Load(groupID)
	if err != nil {
		if errors.Is(err, models.ErrConfigCorrupt) {
			return models.GroupConfig{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// pickRandom draws uniformly from the local catalog, falling back to the
// remote list when the local store is empty.
func (ws *WifeService) pickRandom(ctx context.Context) (string, error) {
	items, err := ws.catalog.List()
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		items, err = ws.remote.List(ctx)
		if err != nil {
			return "", err
		}
	}

	ws.rngMu.Lock()
	defer ws.rngMu.Unlock()
	return items[ws.rng.Intn(len(items))], nil
}

func (ws *WifeService) roll() float64 {
	ws.rngMu.Lock()
	defer ws.rngMu.Unlock()
	return ws.rng.Float64()
}

// resolveTarget prefers an explicit ID; otherwise it fuzzy-matches the name
// against known nicknames, case-insensitively, in stable user-ID order.
func (ws *WifeService) resolveTarget(cfg models.GroupConfig, targetID, targetName string) string {
	if targetID != "" {
		return targetID
	}
	if targetName == "" {
		return ""
	}

	needle := strings.ToLower(targetName)
	userIDs := make([]string, 0, len(cfg))
	for userID := range cfg {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		if nick := cfg[userID].Nickname; nick != "" && strings.Contains(strings.ToLower(nick), needle) {
			return userID
		}
	}
	return ""
}

func (ws *WifeService) isAdmin(userID string) bool {
	for _, id := range ws.admins.Admins() {
		if id == userID {
			return true
		}
	}
	return false
}

func (ws *WifeService) announceChain(nickname, itemKey string) models.Chain {
	item := models.ParseItemKey(itemKey)
	var text string
	if item.Source != models.UnknownSource {
		text = fmt.Sprintf("%s，你今天的二次元老婆是来自《%s》的%s哒~ ", nickname, item.Source, item.DisplayName)
	} else {
		text = fmt.Sprintf("%s，你今天的二次元老婆是%s哒~", nickname, item.DisplayName)
	}
	return ws.withImage(models.Chain{models.TextSegment{Text: text}}, itemKey)
}

// withImage attaches the item image, local file first, remote URL second.
// With neither available the chain degrades to text only.
func (ws *WifeService) withImage(chain models.Chain, itemKey string) models.Chain {
	if ws.catalog.Has(itemKey) {
		return append(chain, models.ImageSegment{Path: ws.catalog.Path(itemKey)})
	}
	if url := ws.remote.URL(itemKey); url != "" {
		return append(chain, models.ImageSegment{URL: url})
	}
	return chain
}

// NewRand seeds the service RNG. Tests construct their own seeded source.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
