package service

import (
	"context"
	"vjbot/internal/domain/model"
	"vjbot/internal/domain/repository"

	"github.com/gosimple/slug"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// LeaderboardService answers leaderboard and solve-history queries. The
// aggregation lives in SQL and is recomputed on every call.
type LeaderboardService struct {
	solveRepo repository.SolveRepository
}

func NewLeaderboardService(solveRepo repository.SolveRepository) *LeaderboardService {
	return &LeaderboardService{solveRepo: solveRepo}
}

func (s *LeaderboardService) Leaderboard(ctx context.Context, judgeName string, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	judgeKey := ""
	if judgeName != "" {
		judgeKey = slug.Make(judgeName)
	}
	return s.solveRepo.Leaderboard(ctx, judgeKey, limit)
}

func (s *LeaderboardService) SolvesForUser(ctx context.Context, userID, judgeName string, limit int) ([]model.SolveRecord, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	judgeKey := ""
	if judgeName != "" {
		judgeKey = slug.Make(judgeName)
	}
	return s.solveRepo.ListByUser(ctx, userID, judgeKey, limit)
}
