package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ticker-sentiment/internal/fetch"
	"ticker-sentiment/internal/interfaces"
	"ticker-sentiment/internal/logger"
	"ticker-sentiment/internal/store"
	"ticker-sentiment/internal/types"
	"ticker-sentiment/internal/validate"
)

// ErrInvalidTicker is returned when the validator does not recognise the symbol
var ErrInvalidTicker = errors.New("invalid ticker")

// Service runs validate, fetch and filter for one ticker, caching results per symbol and time filter
type Service struct {
	validator interfaces.TickerValidator
	fetcher   interfaces.Fetcher
	pipeline  interfaces.Pipeline
	cache     *resultCache
}

func NewService(validator interfaces.TickerValidator, fetcher interfaces.Fetcher, pipeline interfaces.Pipeline, ttl time.Duration) *Service {
	return &Service{
		validator: validator,
		fetcher:   fetcher,
		pipeline:  pipeline,
		cache:     newResultCache(ttl),
	}
}

// Scan returns the scored posts about symbol, from cache when fresh
func (s *Service) Scan(ctx context.Context, symbol, timeFilter string) (*types.ScanResult, error) {
	sym, tf, err := s.normalize(symbol, timeFilter)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.get(cacheKey(sym, tf)); ok {
		logger.Info(ctx, "Using cached scan", "symbol", sym, "time_filter", tf,
			"age_minutes", time.Since(time.Unix(cached.Timestamp, 0)).Minutes())
		return cached, nil
	}

	return s.run(ctx, sym, tf)
}

// Refresh scans again, bypassing and then replacing the cached result
func (s *Service) Refresh(ctx context.Context, symbol, timeFilter string) (*types.ScanResult, error) {
	sym, tf, err := s.normalize(symbol, timeFilter)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, sym, tf)
}

func (s *Service) normalize(symbol, timeFilter string) (string, string, error) {
	sym := validate.Normalize(symbol)
	if sym == "" {
		return "", "", fmt.Errorf("%w: empty symbol", ErrInvalidTicker)
	}
	tf := strings.ToLower(strings.TrimSpace(timeFilter))
	if !store.ValidTimeFilter(tf) {
		return "", "", fmt.Errorf("%w: %q", fetch.ErrInvalidTimeFilter, timeFilter)
	}
	return sym, tf, nil
}

func (s *Service) run(ctx context.Context, sym, tf string) (result *types.ScanResult, err error) {
	timer := logger.StartOperation(ctx, "scan.run", "symbol", sym, "time_filter", tf)
	ctx = timer.GetContext()
	defer func() {
		if err != nil {
			timer.EndWithError(err)
			return
		}
		timer.End("posts", len(result.Posts))
	}()

	ok, err := s.validator.Validate(ctx, sym)
	if err != nil {
		return nil, fmt.Errorf("ticker validation failed: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTicker, sym)
	}

	logger.Info(ctx, "Scanning forums", "symbol", sym, "time_filter", tf)

	batches, err := s.fetcher.Fetch(ctx, sym, tf)
	if err != nil {
		return nil, err
	}

	res, err := s.pipeline.Run(ctx, batches, sym)
	if err != nil {
		return nil, err
	}

	result = &types.ScanResult{
		Symbol:     sym,
		TimeFilter: tf,
		Posts:      res.Posts,
		Skipped:    res.Skipped,
		Stats:      res.Stats,
		Timestamp:  time.Now().Unix(),
	}
	s.cache.set(cacheKey(sym, tf), result)
	return result, nil
}

// ClearCache drops every cached scan
func (s *Service) ClearCache() {
	s.cache.clear()
}

// CachedKeys lists "SYMBOL|filter" keys with a live cache entry, sorted
func (s *Service) CachedKeys() []string {
	return s.cache.keys()
}

func cacheKey(sym, tf string) string {
	return sym + "|" + tf
}

// resultCache keeps scan results for ttl; ttl <= 0 disables caching
type resultCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
	now  func() time.Time
}

type cacheEntry struct {
	result    *types.ScanResult
	timestamp time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (c *resultCache) get(key string) (*types.ScanResult, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[key]
	if !exists || c.now().Sub(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// set stores result and prunes expired entries
func (c *resultCache) set(key string, result *types.ScanResult) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.data {
		if now.Sub(e.timestamp) > c.ttl {
			delete(c.data, k)
		}
	}
	c.data[key] = &cacheEntry{result: result, timestamp: now}
}

func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*cacheEntry)
}

func (c *resultCache) keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	keys := make([]string, 0, len(c.data))
	for k, e := range c.data {
		if now.Sub(e.timestamp) <= c.ttl {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
