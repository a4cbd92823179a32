package usecase

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"skill-matrix/internal/domain/analytics"
	"skill-matrix/internal/domain/dataset"
	"skill-matrix/internal/domain/report"
	"skill-matrix/internal/repository"
)

const (
	analyticsKeyPrefix = "analytics:"
	summaryCacheKey    = analyticsKeyPrefix + "summary"
	overviewCacheKey   = analyticsKeyPrefix + "overview"
)

// Cache is the JSON cache the analytics summary is kept in. Implementations
// report a miss rather than an error when they are unavailable.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type AnalyticsService struct {
	stores repository.Stores
	cache  Cache
	logger *zap.Logger
}

func NewAnalyticsService(stores repository.Stores, cache Cache, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{stores: stores, cache: cache, logger: logger}
}

func (s *AnalyticsService) Summary(ctx context.Context) (analytics.TeamSummary, error) {
	return cachedView(ctx, s, summaryCacheKey, analytics.Summarize)
}

// Overview is the dashboard head: catalog totals and technologies per type.
func (s *AnalyticsService) Overview(ctx context.Context) (analytics.CatalogOverview, error) {
	return cachedView(ctx, s, overviewCacheKey, analytics.Overview)
}

// cachedView serves key from the cache, or computes it from a fresh dataset
// and stores it until the next Invalidate.
func cachedView[T any](ctx context.Context, s *AnalyticsService, key string, compute func(dataset.Dataset) T) (T, error) {
	if s.cache != nil {
		var cached T
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Debug("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	d, err := repository.LoadDataset(ctx, s.stores)
	if err != nil {
		var zero T
		return zero, err
	}
	v := compute(d)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, v, 0); err != nil {
			s.logger.Debug("analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func (s *AnalyticsService) WriteLeaderboardCSV(ctx context.Context, w io.Writer) error {
	d, err := repository.LoadDataset(ctx, s.stores)
	if err != nil {
		return err
	}
	entries := analytics.Leaderboard(d)
	return report.WriteCSV(w, report.LeaderboardColumns(), report.LeaderboardRows(entries))
}

// Invalidate drops every cached analytics view. Cache failures are logged and
// otherwise ignored.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, analyticsKeyPrefix+"*"); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
