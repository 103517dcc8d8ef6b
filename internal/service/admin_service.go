package service

import (
	"context"
	"time"

	"bzr-portal-be/internal/dto"
	"bzr-portal-be/internal/pkg/logger"
	"bzr-portal-be/internal/repository/unitofwork"
	"bzr-portal-be/pkg/semcache"

	"github.com/google/uuid"
)

// IAdminService is the maintenance surface: suggestion-cache inspection
// and the system log viewer.
type IAdminService interface {
	GetCacheStats(ctx context.Context) (*dto.CacheStatsResponse, error)
	ClearCache(ctx context.Context, request *dto.ClearCacheRequest) (*dto.ClearCacheResponse, error)
	GetLogs(level string, limit, offset int) ([]*dto.LogListResponse, error)
	GetLogById(id string) (*dto.LogDetailResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *semcache.Cache
	zapLogger  *logger.ZapLogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, cache *semcache.Cache, zapLogger *logger.ZapLogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		cache:      cache,
		zapLogger:  zapLogger,
	}
}

func (s *adminService) GetCacheStats(ctx context.Context) (*dto.CacheStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := s.cache.CollectStats(ctx, uow)
	if err != nil {
		return nil, err
	}

	return &dto.CacheStatsResponse{
		Entries:    stats.Entries,
		TotalHits:  stats.TotalHits,
		AvgHitRate: stats.AvgHitRate,
	}, nil
}

// ClearCache drops cached suggestion sets, for one company or globally.
// Used after catalog revisions so stale suggestions stop resurfacing.
func (s *adminService) ClearCache(ctx context.Context, request *dto.ClearCacheRequest) (*dto.ClearCacheResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	scope := "all"
	if request.CompanyId != nil && *request.CompanyId != uuid.Nil {
		scope = "company"
		if err := uow.SuggestionCacheRepository().DeleteByCompanyId(ctx, *request.CompanyId); err != nil {
			return nil, err
		}
	} else {
		if err := uow.SuggestionCacheRepository().DeleteAll(ctx); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ClearCacheResponse{Cleared: true, Scope: scope}, nil
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]*dto.LogListResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	entries, err := s.zapLogger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			CreatedAt: parseLogTimestamp(e.Timestamp),
		})
	}
	return response, nil
}

func (s *adminService) GetLogById(id string) (*dto.LogDetailResponse, error) {
	entry, err := s.zapLogger.GetLogById(id)
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			CreatedAt: parseLogTimestamp(entry.Timestamp),
		},
		Details: entry.Details,
	}, nil
}

func parseLogTimestamp(ts string) time.Time {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}
	}
	return t
}
