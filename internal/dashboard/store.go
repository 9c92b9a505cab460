// Package dashboard owns the in-memory market state behind the dashboard:
// the coin listing, the global figures and the categories, the parameters
// they were fetched with, and the timers that keep them fresh.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"coin-dashboard-go/internal/coingecko"
	"coin-dashboard-go/internal/config"
	"coin-dashboard-go/internal/highlights"
	"coin-dashboard-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize        = 50
	defaultCurrency        = "usd"
	defaultDebounce        = 300 * time.Millisecond
	defaultRefreshInterval = 60 * time.Second
)

var (
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidCurrency = errors.New("currency must not be empty")
	ErrAlreadyStarted  = errors.New("dashboard already started")
	ErrStopped         = errors.New("dashboard stopped")
)

// Params are the parameters the coin listing is fetched with.
type Params struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Sort     models.SortOrder `json:"sort"`
	Search   string           `json:"search"`
	Currency string           `json:"currency"`
}

func (p Params) String() string {
	return fmt.Sprintf("page=%d per_page=%d sort=%s search=%q currency=%s",
		p.Page, p.PageSize, p.Sort, p.Search, p.Currency)
}

// Snapshot is an immutable copy of the dashboard state.
type Snapshot struct {
	Params        Params                             `json:"params"`
	Coins         Resource[[]models.Coin]            `json:"coins"`
	Global        Resource[*models.GlobalMarketData] `json:"global"`
	Categories    Resource[[]models.Category]        `json:"categories"`
	Highlights    highlights.Highlights              `json:"highlights"`
	TopCategories []models.Category                  `json:"top_categories"`
}

// BlockingError is the error that replaces the whole view: set only while
// no coin listing has ever loaded. Once one has, stale data wins.
func (s Snapshot) BlockingError() string {
	if s.Coins.HasData {
		return ""
	}
	if s.Coins.Err != "" {
		return s.Coins.Err
	}
	return s.Categories.Err
}

// Loading reports whether the coin listing is being fetched.
func (s Snapshot) Loading() bool {
	return s.Coins.Status == Loading
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder journals every fetch failure to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// WithRefreshInterval overrides the global-data refresh period.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Store) { s.refreshInterval = d }
}

// WithDebounce overrides the search debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// WithClock overrides the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store fetches and holds the dashboard resources. It is the single
// state container shared by every consumer; create it with New, mount it
// with Start and tear it down with Stop.
type Store struct {
	client          coingecko.MarketData
	logger          *zap.Logger
	recorder        Recorder
	refreshInterval time.Duration
	debounce        time.Duration
	now             func() time.Time

	mu         sync.Mutex
	params     Params
	coins      resourceState[[]models.Coin]
	global     resourceState[*models.GlobalMarketData]
	categories resourceState[[]models.Category]
	memo       highlights.Memo
	subs       map[chan struct{}]struct{}
	started    bool
	stopped    bool

	debouncer *Debouncer
	ctx       context.Context
	cancel    context.CancelFunc
	loops     sync.WaitGroup
	fetches   sync.WaitGroup
}

// New creates a Store for client with the parameters in cfg.
func New(client coingecko.MarketData, cfg config.Dashboard, logger *zap.Logger, opts ...Option) *Store {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	s := &Store{
		client:          client,
		logger:          logger.Named("dashboard"),
		refreshInterval: defaultRefreshInterval,
		debounce:        defaultDebounce,
		now:             time.Now,
		params: Params{
			Page:     1,
			PageSize: pageSize,
			Sort:     models.SortMarketCapDesc,
			Currency: currency,
		},
		subs: make(map[chan struct{}]struct{}),
	}
	if cfg.GlobalRefreshSec > 0 {
		s.refreshInterval = time.Duration(cfg.GlobalRefreshSec) * time.Second
	}
	if cfg.SearchDebounceMs > 0 {
		s.debounce = time.Duration(cfg.SearchDebounceMs) * time.Millisecond
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.refreshInterval <= 0 {
		s.refreshInterval = defaultRefreshInterval
	}
	s.debouncer = NewDebouncer(s.debounce)
	return s
}

// Start mounts the store: it fetches every resource and starts the
// periodic global-data refresh. It returns immediately.
func (s *Store) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("Starting dashboard",
		zap.Stringer("params", s.params),
		zap.Duration("global_refresh", s.refreshInterval),
		zap.Duration("search_debounce", s.debounce),
	)

	s.fetchCoinsLocked()
	s.fetchGlobalLocked()
	s.fetchCategoriesLocked()

	s.loops.Add(1)
	go s.refreshLoop(s.ctx)
	return nil
}

// Stop unmounts the store: timers are cancelled, in-flight requests are
// aborted and nothing is applied afterwards. Stop waits for all
// goroutines the store started.
func (s *Store) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.mu.Unlock()

	s.debouncer.Stop()
	if cancel != nil {
		cancel()
	}
	s.loops.Wait()
	s.fetches.Wait()
	s.logger.Info("Dashboard stopped")
}

func (s *Store) refreshLoop(ctx context.Context) {
	defer s.loops.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.stopped {
				s.logger.Debug("Periodic global data refresh")
				s.fetchGlobalLocked()
			}
			s.mu.Unlock()
		}
	}
}

// Refresh refetches all three resources concurrently.
func (s *Store) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.liveLocked(); err != nil {
		return err
	}
	s.fetchCoinsLocked()
	s.fetchGlobalLocked()
	s.fetchCategoriesLocked()
	s.notifyLocked()
	return nil
}

// SetPage changes the listing page.
func (s *Store) SetPage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	return s.update(func(p *Params) bool {
		changed := p.Page != page
		p.Page = page
		return changed
	}, false)
}

// SetSortOrder changes the server-side sort order of the listing.
func (s *Store) SetSortOrder(order models.SortOrder) error {
	if !order.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidSortOrder, order)
	}
	return s.update(func(p *Params) bool {
		changed := p.Sort != order
		p.Sort = order
		return changed
	}, false)
}

// SetSearch applies a search term immediately.
func (s *Store) SetSearch(term string) error {
	return s.update(func(p *Params) bool {
		changed := p.Search != term
		p.Search = term
		return changed
	}, false)
}

// SubmitSearch applies term once input has been quiet for the debounce
// delay. A later call supersedes an earlier one that has not fired yet.
func (s *Store) SubmitSearch(term string) {
	s.debouncer.Trigger(func() {
		if err := s.SetSearch(term); err != nil && !errors.Is(err, ErrStopped) {
			s.logger.Warn("Debounced search not applied", zap.Error(err))
		}
	})
}

// SetCurrency changes the display currency; it refetches coins and
// global data.
func (s *Store) SetCurrency(currency string) error {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return ErrInvalidCurrency
	}
	return s.update(func(p *Params) bool {
		changed := p.Currency != currency
		p.Currency = currency
		return changed
	}, true)
}

func (s *Store) update(apply func(*Params) bool, affectsGlobal bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrStopped
	}
	if !apply(&s.params) {
		return nil
	}
	s.logger.Debug("Parameters changed", zap.Stringer("params", s.params))
	if !s.started {
		return nil
	}
	s.fetchCoinsLocked()
	if affectsGlobal {
		s.fetchGlobalLocked()
	}
	s.notifyLocked()
	return nil
}

func (s *Store) liveLocked() error {
	if s.stopped {
		return ErrStopped
	}
	if !s.started {
		return errors.New("dashboard not started")
	}
	return nil
}

// Params returns the current fetch parameters.
func (s *Store) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Snapshot returns a copy of the current state. Highlights are
// recomputed only when the coin listing has changed since the last call.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Params:     s.params,
		Coins:      s.coins.Resource,
		Global:     s.global.Resource,
		Categories: s.categories.Resource,
	}
	// Global failures are never shown: without data the summary keeps
	// looking like it is loading.
	snap.Global.Err = ""
	if snap.Global.Status == Failed {
		if snap.Global.HasData {
			snap.Global.Status = Ready
		} else {
			snap.Global.Status = Loading
		}
	}
	snap.Highlights = s.memo.Get(s.coins.dataGen, s.coins.Data)
	snap.TopCategories = highlights.TopCategories(s.categories.Data)
	return snap
}

// Subscribe returns a channel that receives a signal after state changes.
// Signals are coalesced; the channel is closed by cancel or by Stop.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Store) notifyLocked() {
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// spawn runs fn on its own goroutine bound to the store lifetime.
func (s *Store) spawn(fn func(ctx context.Context)) {
	s.fetches.Add(1)
	go func() {
		defer s.fetches.Done()
		fn(s.ctx)
	}()
}

// waitFetches blocks until every fetch issued so far has been applied or
// discarded.
func (s *Store) waitFetches() {
	s.fetches.Wait()
}

func (s *Store) fetchCoinsLocked() {
	seq := s.coins.begin()
	tag := s.params
	reqID := uuid.NewString()
	l := s.logger.With(zap.String("resource", ResourceCoins), zap.String("request_id", reqID), zap.Uint64("seq", seq))
	l.Debug("Fetching coins", zap.Stringer("params", tag))

	s.spawn(func(ctx context.Context) {
		coins, err := s.client.FetchCoins(ctx, tag.Page, tag.PageSize, tag.Sort, tag.Currency)
		if err == nil {
			coins = FilterCoins(coins, tag.Search)
		} else {
			s.recordFailure(ctx, l, reqID, ResourceCoins, tag, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped {
			return
		}
		if tag != s.params {
			l.Debug("Discarding stale coins response", zap.Stringer("issued_for", tag), zap.Stringer("current", s.params))
			return
		}
		if s.coins.complete(seq, coins, coingecko.Message(err), s.now()) {
			if err == nil {
				l.Info("Coins updated", zap.Int("count", len(coins)))
			}
			s.notifyLocked()
		}
	})
}

func (s *Store) fetchGlobalLocked() {
	seq := s.global.begin()
	tag := s.params
	reqID := uuid.NewString()
	l := s.logger.With(zap.String("resource", ResourceGlobal), zap.String("request_id", reqID), zap.Uint64("seq", seq))
	l.Debug("Fetching global data", zap.String("currency", tag.Currency))

	s.spawn(func(ctx context.Context) {
		global, err := s.client.FetchGlobal(ctx, tag.Currency)
		if err != nil {
			s.recordFailure(ctx, l, reqID, ResourceGlobal, tag, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped {
			return
		}
		if tag.Currency != s.params.Currency {
			l.Debug("Discarding stale global response", zap.String("issued_for", tag.Currency))
			return
		}
		if s.global.complete(seq, global, coingecko.Message(err), s.now()) {
			s.notifyLocked()
		}
	})
}

func (s *Store) fetchCategoriesLocked() {
	seq := s.categories.begin()
	tag := s.params
	reqID := uuid.NewString()
	l := s.logger.With(zap.String("resource", ResourceCategories), zap.String("request_id", reqID), zap.Uint64("seq", seq))
	l.Debug("Fetching categories")

	s.spawn(func(ctx context.Context) {
		categories, err := s.client.FetchCategories(ctx)
		if err != nil {
			s.recordFailure(ctx, l, reqID, ResourceCategories, tag, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stopped {
			return
		}
		if s.categories.complete(seq, categories, coingecko.Message(err), s.now()) {
			if err == nil {
				l.Info("Categories updated", zap.Int("count", len(categories)))
			}
			s.notifyLocked()
		}
	})
}

// recordFailure logs err and hands it to the recorder. Failures caused by
// Stop cancelling the request are not failures of the API and are skipped.
func (s *Store) recordFailure(ctx context.Context, l *zap.Logger, reqID, resource string, params Params, err error) {
	if ctx.Err() != nil {
		return
	}
	if resource == ResourceGlobal {
		l.Warn("Failed to fetch global data", zap.String("kind", coingecko.Kind(err)), zap.Error(err))
	} else {
		l.Error("Failed to fetch "+resource, zap.String("kind", coingecko.Kind(err)), zap.Error(err))
	}

	if s.recorder == nil {
		return
	}
	f := Failure{RequestID: reqID, Resource: resource, Params: params, Err: err, At: s.now()}
	if rerr := s.recorder.RecordFailure(ctx, f); rerr != nil {
		l.Warn("Failed to record fetch failure", zap.Error(rerr))
	}
}
