package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"finboard/src/clients/feeds"
	"finboard/src/models"

	"github.com/jackc/pgx/v5"
)

var errUpstream = errors.New("upstream down")

type fakeQuoteSource struct {
	mu      sync.Mutex
	prices  map[string]float64
	prev    map[string]float64
	failing map[string]bool
	calls   map[string]int
	// afterFetch runs after every FetchQuote.
	afterFetch func()
}

func newFakeQuoteSource(prices map[string]float64) *fakeQuoteSource {
	return &fakeQuoteSource{
		prices:  prices,
		prev:    map[string]float64{},
		failing: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeQuoteSource) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if f.afterFetch != nil {
		defer f.afterFetch()
	}
	price, ok := f.prices[symbol]
	if !ok || f.failing[symbol] {
		return nil, errUpstream
	}
	return &models.Quote{Symbol: symbol, Name: symbol, CurrentPrice: price, PreviousClose: f.prev[symbol]}, nil
}

func (f *fakeQuoteSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeQuoteSource) FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	if f.failing[symbol] {
		return nil, errUpstream
	}
	return []models.HistoryBar{{Close: f.prices[symbol]}}, nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	entries map[string][]feeds.Entry
	failing map[string]bool
	// hung feeds block until release is closed, ignoring ctx.
	hung    map[string]bool
	release chan struct{}
	delay   time.Duration

	calls       int
	inFlight    int
	maxInFlight int
}

func (f *fakeFetcher) FetchFeed(ctx context.Context, feedURL string) ([]feeds.Entry, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	hung := f.hung[feedURL]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if hung {
		<-f.release
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[feedURL] {
		return nil, errUpstream
	}
	return f.entries[feedURL], nil
}

type fakeEventSource struct {
	name   string
	events []models.EconomicEvent
	err    error
	calls  int
}

func (f *fakeEventSource) Name() string { return f.name }

func (f *fakeEventSource) FetchEvents(ctx context.Context) ([]models.EconomicEvent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

// fakeTx records how a transaction ended. Unused pgx.Tx methods panic via the nil embed.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs []*fakeTx
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func (b *fakeBeginner) last() *fakeTx {
	return b.txs[len(b.txs)-1]
}

type fakePortfolioRepo struct {
	nextID     int64
	portfolios map[int64]models.Portfolio
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{portfolios: map[int64]models.Portfolio{}}
}

func (r *fakePortfolioRepo) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	var result []models.Portfolio
	for _, p := range r.portfolios {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakePortfolioRepo) GetByID(ctx context.Context, userID string, id int64, tx pgx.Tx) (*models.Portfolio, error) {
	p, ok := r.portfolios[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePortfolioRepo) Create(ctx context.Context, p *models.Portfolio, tx pgx.Tx) error {
	r.nextID++
	p.ID = r.nextID
	r.portfolios[p.ID] = *p
	return nil
}

func (r *fakePortfolioRepo) Update(ctx context.Context, p *models.Portfolio, tx pgx.Tx) (bool, error) {
	existing, ok := r.portfolios[p.ID]
	if !ok || existing.UserID != p.UserID {
		return false, nil
	}
	r.portfolios[p.ID] = *p
	return true, nil
}

func (r *fakePortfolioRepo) Delete(ctx context.Context, userID string, id int64, tx pgx.Tx) (bool, error) {
	existing, ok := r.portfolios[id]
	if !ok || existing.UserID != userID {
		return false, nil
	}
	delete(r.portfolios, id)
	return true, nil
}

type fakeHoldingRepo struct {
	nextID     int64
	holdings   map[int64]models.Holding
	portfolios *fakePortfolioRepo
	failUpdate bool
	// concurrentInsert simulates another request inserting the same symbol
	// between GetBySymbol and CreateIfAbsent.
	concurrentInsert *models.Holding
}

func newFakeHoldingRepo(portfolios *fakePortfolioRepo) *fakeHoldingRepo {
	return &fakeHoldingRepo{holdings: map[int64]models.Holding{}, portfolios: portfolios}
}

func (r *fakeHoldingRepo) owns(userID string, portfolioID int64) bool {
	p, ok := r.portfolios.portfolios[portfolioID]
	return ok && p.UserID == userID
}

func (r *fakeHoldingRepo) ListByPortfolio(ctx context.Context, userID string, portfolioID int64) ([]models.Holding, error) {
	var result []models.Holding
	if !r.owns(userID, portfolioID) {
		return result, nil
	}
	for _, h := range r.holdings {
		if h.PortfolioID == portfolioID {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeHoldingRepo) GetByID(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (*models.Holding, error) {
	h, ok := r.holdings[holdingID]
	if !ok || h.PortfolioID != portfolioID || !r.owns(userID, portfolioID) {
		return nil, nil
	}
	return &h, nil
}

func (r *fakeHoldingRepo) GetBySymbol(ctx context.Context, portfolioID int64, symbol string, tx pgx.Tx) (*models.Holding, error) {
	for _, h := range r.holdings {
		if h.PortfolioID == portfolioID && h.Symbol == symbol {
			return &h, nil
		}
	}
	return nil, nil
}

func (r *fakeHoldingRepo) Create(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	r.nextID++
	h.ID = r.nextID
	r.holdings[h.ID] = *h
	return nil
}

func (r *fakeHoldingRepo) CreateIfAbsent(ctx context.Context, h *models.Holding, tx pgx.Tx) (bool, error) {
	if other := r.concurrentInsert; other != nil {
		r.concurrentInsert = nil
		_ = r.Create(ctx, other, tx)
	}
	if existing, _ := r.GetBySymbol(ctx, h.PortfolioID, h.Symbol, tx); existing != nil {
		return false, nil
	}
	return true, r.Create(ctx, h, tx)
}

func (r *fakeHoldingRepo) Update(ctx context.Context, h *models.Holding, tx pgx.Tx) error {
	if r.failUpdate {
		return errors.New("write failed")
	}
	r.holdings[h.ID] = *h
	return nil
}

func (r *fakeHoldingRepo) Delete(ctx context.Context, userID string, portfolioID, holdingID int64, tx pgx.Tx) (bool, error) {
	h, ok := r.holdings[holdingID]
	if !ok || h.PortfolioID != portfolioID || !r.owns(userID, portfolioID) {
		return false, nil
	}
	delete(r.holdings, holdingID)
	return true, nil
}

type fakeWatchlistRepo struct {
	items []models.WatchlistItem
}

func (r *fakeWatchlistRepo) ListByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	var result []models.WatchlistItem
	for _, item := range r.items {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeWatchlistRepo) Create(ctx context.Context, item *models.WatchlistItem, tx pgx.Tx) (bool, error) {
	for _, existing := range r.items {
		if existing.UserID == item.UserID && existing.Symbol == item.Symbol {
			return false, nil
		}
	}
	item.ID = int64(len(r.items) + 1)
	r.items = append(r.items, *item)
	return true, nil
}

func (r *fakeWatchlistRepo) Delete(ctx context.Context, userID string, symbol string, tx pgx.Tx) (bool, error) {
	for i, existing := range r.items {
		if existing.UserID == userID && existing.Symbol == symbol {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
