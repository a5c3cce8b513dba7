package service

import (
	"context"
	"sync"
	"testing"
	"vjbot/internal/domain/model"

	"github.com/stretchr/testify/require"
)

// recordingSolveRepo captures what the service asks the store for.
type recordingSolveRepo struct {
	mu         sync.Mutex
	lastJudge  string
	lastLimit  int
	lastUserID string
}

func (r *recordingSolveRepo) Append(ctx context.Context, rec *model.SolveRecord) error { return nil }

func (r *recordingSolveRepo) Leaderboard(ctx context.Context, judgeName string, limit int) ([]model.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastJudge = judgeName
	r.lastLimit = limit
	return nil, nil
}

func (r *recordingSolveRepo) ListByUser(ctx context.Context, userID, judgeName string, limit int) ([]model.SolveRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastUserID = userID
	r.lastJudge = judgeName
	r.lastLimit = limit
	return nil, nil
}

func TestLeaderboardDefaultsAndClampsLimit(t *testing.T) {
	repo := &recordingSolveRepo{}
	svc := NewLeaderboardService(repo)
	ctx := context.Background()

	_, err := svc.Leaderboard(ctx, "", 0)
	require.NoError(t, err)
	require.Equal(t, defaultLeaderboardLimit, repo.lastLimit)

	_, err = svc.Leaderboard(ctx, "", 5000)
	require.NoError(t, err)
	require.Equal(t, maxLeaderboardLimit, repo.lastLimit)
}

func TestLeaderboardCanonicalizesJudgeFilter(t *testing.T) {
	repo := &recordingSolveRepo{}
	svc := NewLeaderboardService(repo)

	_, err := svc.Leaderboard(context.Background(), "CodeForces", 10)
	require.NoError(t, err)
	require.Equal(t, "codeforces", repo.lastJudge)

	_, err = svc.Leaderboard(context.Background(), "", 10)
	require.NoError(t, err)
	require.Equal(t, "", repo.lastJudge, "empty filter stays empty, meaning all judges")
}

func TestSolvesForUserPassesThrough(t *testing.T) {
	repo := &recordingSolveRepo{}
	svc := NewLeaderboardService(repo)

	_, err := svc.SolvesForUser(context.Background(), "u1", "CF", 7)
	require.NoError(t, err)
	require.Equal(t, "u1", repo.lastUserID)
	require.Equal(t, "cf", repo.lastJudge)
	require.Equal(t, 7, repo.lastLimit)
}
