package services

import (
	"context"
	"fmt"
	"time"

	"kassan/internal/auth"
	"kassan/internal/cache"
	"kassan/internal/core"
	"kassan/internal/storage"
)

// SummaryCache memoizes monthly summaries keyed by organization and month.
// All methods are nil-safe so services can run uncached.
type SummaryCache struct {
	lru *cache.LRUCache[core.MonthlySummary]
}

func NewSummaryCache(maxSize int, ttl time.Duration) *SummaryCache {
	return &SummaryCache{lru: cache.NewLRU[core.MonthlySummary](maxSize, ttl)}
}

func summaryKey(orgID string, year int, month time.Month) string {
	return fmt.Sprintf("%s/%04d-%02d", orgID, year, int(month))
}

func (c *SummaryCache) Get(orgID string, year int, month time.Month) (core.MonthlySummary, bool) {
	if c == nil {
		return core.MonthlySummary{}, false
	}
	return c.lru.Get(summaryKey(orgID, year, month))
}

func (c *SummaryCache) Set(orgID string, year int, month time.Month, s core.MonthlySummary) {
	if c == nil {
		return
	}
	c.lru.Set(summaryKey(orgID, year, month), s)
}

// InvalidateOrganization drops every cached month of one organization. Called
// on any transaction mutation.
func (c *SummaryCache) InvalidateOrganization(orgID string) {
	if c == nil {
		return
	}
	c.lru.DeletePrefix(orgID + "/")
}

// SummaryService computes the monthly aggregates over the full transaction
// set of a month.
type SummaryService struct {
	store    storage.Store
	resolver *auth.Resolver
	cache    *SummaryCache
}

func NewSummaryService(store storage.Store, resolver *auth.Resolver, cache *SummaryCache) *SummaryService {
	return &SummaryService{store: store, resolver: resolver, cache: cache}
}

func (s *SummaryService) Monthly(ctx context.Context, profileID, orgID string, year int, month time.Month) (core.MonthlySummary, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	if cached, ok := s.cache.Get(m.OrganizationID, year, month); ok {
		return cached, nil
	}

	txs, err := s.monthTransactions(ctx, m.OrganizationID, year, month)
	if err != nil {
		return core.MonthlySummary{}, err
	}

	summary := core.Summarize(txs, year, month)
	s.cache.Set(m.OrganizationID, year, month, summary)
	return summary, nil
}

// Breakdown returns the per-category expense totals of a month, largest
// first.
func (s *SummaryService) Breakdown(ctx context.Context, profileID, orgID string, year int, month time.Month) ([]core.CategoryAmount, error) {
	m, err := s.resolver.Require(ctx, profileID, orgID, auth.CapRead)
	if err != nil {
		return nil, err
	}

	txs, err := s.monthTransactions(ctx, m.OrganizationID, year, month)
	if err != nil {
		return nil, err
	}
	return core.ExpenseBreakdown(txs, year, month), nil
}

// monthTransactions pages through the month so aggregation always covers the
// full set regardless of the list limit.
func (s *SummaryService) monthTransactions(ctx context.Context, orgID string, year int, month time.Month) ([]core.Transaction, error) {
	var all []core.Transaction
	filter := storage.TransactionFilter{
		Year:  year,
		Month: month,
		Limit: storage.MaxListLimit,
	}
	for {
		page, err := s.store.ListTransactions(ctx, orgID, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < filter.Limit {
			return all, nil
		}
		filter.Offset += filter.Limit
	}
}
