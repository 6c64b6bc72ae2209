// Package market implements the synthetic price feed: a bounded random walk
// over every priced catalog item, with pull access to bounded history and
// push delivery to live subscriptions.
package market

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/cswatch/catalog/internal/app/domain/catalog"
	domain "github.com/cswatch/catalog/internal/app/domain/market"
	"github.com/cswatch/catalog/internal/metrics"
	"github.com/cswatch/catalog/pkg/logger"
)

// ErrUnknownItem is returned for history queries against an untracked id.
var ErrUnknownItem = errors.New("unknown item")

const (
	// defaultWalkBoundPct is the symmetric per-tick bound: each tick draws a
	// uniform change in [-bound%, +bound%]. One bound applies to every
	// consumer of the feed.
	defaultWalkBoundPct = 2.0
	// seedVariationPct bounds the variation of back-dated seed history
	// around the base price.
	seedVariationPct = 5.0
	defaultSeedDays  = 30
)

// Config controls feed construction. Zero values take defaults.
type Config struct {
	WalkBoundPct float64
	SeedDays     int
	Log          *logger.Logger
	Metrics      *metrics.Metrics
	Now          func() time.Time
	Rand         *rand.Rand
}

// Feed owns the market state for all tradable items. It is the single
// authority for price advancement; adapters only subscribe or read history.
type Feed struct {
	log     *logger.Logger
	metrics *metrics.Metrics
	bound   float64
	now     func() time.Time
	rng     *rand.Rand

	mu      sync.Mutex
	records map[string]*domain.Record
	order   []string
	subs    map[*Subscription]struct{}
}

// NewFeed builds a feed tracking every priced item in the given catalog
// slice. When the catalog carries no priced items the canonical demo set is
// seeded instead so the feed is never empty.
func NewFeed(items []catalog.Item, cfg Config) *Feed {
	log := cfg.Log
	if log == nil {
		log = logger.NewDefault("market-feed")
	}
	bound := cfg.WalkBoundPct
	if bound <= 0 {
		bound = defaultWalkBoundPct
	}
	seedDays := cfg.SeedDays
	if seedDays <= 0 {
		seedDays = defaultSeedDays
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	f := &Feed{
		log:     log,
		metrics: cfg.Metrics,
		bound:   bound,
		now:     now,
		rng:     rng,
		records: make(map[string]*domain.Record),
		subs:    make(map[*Subscription]struct{}),
	}

	for _, item := range items {
		if item.Price == nil || *item.Price <= 0 {
			continue
		}
		f.track(item.ID, item.Name, *item.Price, seedDays)
	}
	if len(f.order) == 0 {
		for _, seed := range defaultSeeds {
			f.track(seed.id, seed.name, seed.price, seedDays)
		}
	}

	log.WithField("items", len(f.order)).WithField("bound_pct", bound).Info("market feed initialised")
	return f
}

var defaultSeeds = []struct {
	id    string
	name  string
	price float64
}{
	{"ak47_asiimov", "AK-47 | Asiimov", 35.75},
	{"awp_dragon_lore", "AWP | Dragon Lore", 1850.00},
	{"m4a4_howl", "M4A4 | Howl", 2100.00},
	{"karambit_doppler", "★ Karambit | Doppler", 420.50},
	{"butterfly_fade", "★ Butterfly Knife | Fade", 1050.00},
}

func (f *Feed) track(id, name string, basePrice float64, seedDays int) {
	if _, exists := f.records[id]; exists {
		return
	}
	f.records[id] = &domain.Record{
		ID:           id,
		Name:         name,
		CurrentPrice: basePrice,
		History:      f.seedHistory(basePrice, seedDays),
	}
	f.order = append(f.order, id)
}

// seedHistory back-dates one point per day around the base price, oldest
// first.
func (f *Feed) seedHistory(basePrice float64, days int) []domain.PricePoint {
	now := f.now()
	points := make([]domain.PricePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		variation := (f.rng.Float64()*2 - 1) * seedVariationPct / 100
		points = append(points, domain.PricePoint{
			Price:     basePrice * (1 + variation),
			Timestamp: now.AddDate(0, 0, -i),
		})
	}
	return points
}

// Items lists the tracked ids and display names in tracking order.
func (f *Feed) Items() []domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Record, 0, len(f.order))
	for _, id := range f.order {
		rec := f.records[id]
		out = append(out, domain.Record{ID: rec.ID, Name: rec.Name, CurrentPrice: rec.CurrentPrice})
	}
	return out
}

// History returns the most recent points covered by the range, oldest first.
// When fewer points exist than the range asks for, all available points are
// returned without padding.
func (f *Feed) History(id string, rng domain.Range) (string, []domain.PricePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return "", nil, ErrUnknownItem
	}
	n := rng.Points()
	history := rec.History
	if n < len(history) {
		history = history[len(history)-n:]
	}
	out := make([]domain.PricePoint, len(history))
	copy(out, history)
	return rec.Name, out, nil
}

// Tick advances every tracked price by one random-walk step and fans the
// updates out to matching subscriptions. Delivery is non-blocking: a slow
// subscriber drops updates rather than stalling the walk or its peers.
func (f *Feed) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	ts := f.now()
	delivered, dropped := 0, 0
	for _, id := range f.order {
		rec := f.records[id]
		previous := rec.CurrentPrice
		pct := (f.rng.Float64()*2 - 1) * f.bound
		rec.CurrentPrice = previous * (1 + pct/100)
		changePct := (rec.CurrentPrice - previous) / previous * 100

		rec.History = append(rec.History, domain.PricePoint{Price: rec.CurrentPrice, Timestamp: ts})
		if len(rec.History) > domain.HistoryCap {
			rec.History = rec.History[len(rec.History)-domain.HistoryCap:]
		}

		update := domain.Update{
			ID:        rec.ID,
			Name:      rec.Name,
			Price:     rec.CurrentPrice,
			Timestamp: ts,
			ChangePct: changePct,
		}
		for sub := range f.subs {
			if !sub.wants(id) {
				continue
			}
			if sub.deliver(update) {
				delivered++
			} else {
				dropped++
			}
		}
	}
	f.metrics.RecordPriceTick(delivered, dropped)
}

// Subscribe registers a subscription for the given ids (empty means every
// tracked item) and synchronously enqueues a zero-change snapshot for each
// matching item, so a subscriber never waits a full tick for first data.
func (f *Feed) Subscribe(ids []string) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := &Subscription{
		feed: f,
		ch:   make(chan domain.Update, subscriptionBuffer(len(f.records))),
	}
	if len(ids) > 0 {
		sub.ids = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			sub.ids[id] = struct{}{}
		}
	}
	f.subs[sub] = struct{}{}
	f.metrics.SetActiveSubscriptions(len(f.subs))

	ts := f.now()
	for _, id := range f.order {
		if !sub.wants(id) {
			continue
		}
		rec := f.records[id]
		sub.deliver(domain.Update{
			ID:        rec.ID,
			Name:      rec.Name,
			Price:     rec.CurrentPrice,
			Timestamp: ts,
			ChangePct: 0,
		})
	}
	return sub
}

func (f *Feed) unsubscribe(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub]; !ok {
		return
	}
	delete(f.subs, sub)
	close(sub.ch)
	f.metrics.SetActiveSubscriptions(len(f.subs))
}

// subscriptionBuffer sizes a subscription channel so the initial snapshot
// always fits with room for a few ticks on top.
func subscriptionBuffer(tracked int) int {
	const minBuffer = 64
	if n := tracked * 4; n > minBuffer {
		return n
	}
	return minBuffer
}

// Subscription is a live registration for tick updates. Updates are read
// from Updates(); the channel is closed on Cancel.
type Subscription struct {
	feed *Feed
	ids  map[string]struct{} // nil means all items
	ch   chan domain.Update
	once sync.Once
}

// Updates is the delivery channel. It is closed when the subscription is
// cancelled.
func (s *Subscription) Updates() <-chan domain.Update { return s.ch }

// Cancel deregisters the subscription. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.feed.unsubscribe(s)
	})
}

func (s *Subscription) wants(id string) bool {
	if s.ids == nil {
		return true
	}
	_, ok := s.ids[id]
	return ok
}

// deliver performs a non-blocking send, dropping the update when the
// subscriber is not keeping up.
func (s *Subscription) deliver(u domain.Update) bool {
	select {
	case s.ch <- u:
		return true
	default:
		return false
	}
}
