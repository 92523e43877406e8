package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/authz"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardStats aggregates counters for the admin dashboard.
type DashboardStats struct {
	TotalComplaints int64                              `json:"total_complaints"`
	ByStatus        map[domain.ComplaintStatus]int64   `json:"by_status"`
	ByPriority      map[domain.ComplaintPriority]int64 `json:"by_priority"`
	SLABreached     int64                              `json:"sla_breached"`
	TotalStudents   int64                              `json:"total_students"`
	TotalStaff      int64                              `json:"total_staff"`
	GeneratedAt     time.Time                          `json:"generated_at"`
}

// StatsService computes dashboard counters with a short-lived Redis cache.
type StatsService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewStatsService constructs the service. A nil cache client disables
// caching; counters are then computed on every call.
func NewStatsService(complaints repository.ComplaintRepository, users repository.UserRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	return &StatsService{
		complaints: complaints,
		users:      users,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Dashboard returns aggregate counters; admin only.
func (s *StatsService) Dashboard(ctx context.Context, actor *domain.User) (*DashboardStats, error) {
	if err := authz.Can(actor, authz.ActionDashboardView, authz.ComplaintRef{}); err != nil {
		return nil, err
	}

	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, stats)
	return stats, nil
}

// Invalidate drops the cached counters. Called after bulk changes such as
// an SLA sweep.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}

func (s *StatsService) compute(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	byPriority, err := s.complaints.CountByPriority(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	breached, err := s.complaints.CountBreached(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	students, err := s.users.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	staff, err := s.users.CountByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &DashboardStats{
		TotalComplaints: total,
		ByStatus:        byStatus,
		ByPriority:      byPriority,
		SLABreached:     breached,
		TotalStudents:   students,
		TotalStaff:      staff,
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *StatsService) fromCache(ctx context.Context) *DashboardStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *DashboardStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, dashboardCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}
