package service

import (
	"context"

	"blogCPT/internal/models"
	"blogCPT/internal/policy"
	"blogCPT/internal/repository"
)

type StatsService interface {
	GetBlogStats(ctx context.Context, requester *models.User) (map[string]int, error)
}

type statsService struct {
	statsRepo repository.StatsRepository
}

func NewStatsService(statsRepo repository.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

// GetBlogStats - счетчики постов по статусам, только для админа:
// количество черновиков и архива не должно быть видно остальным.
func (s *statsService) GetBlogStats(ctx context.Context, requester *models.User) (map[string]int, error) {
	if requester == nil {
		return nil, policy.ErrUnauthenticated
	}
	if requester.Role != models.RoleAdmin {
		return nil, policy.ErrForbidden
	}

	return s.statsRepo.CountByStatus(ctx)
}
