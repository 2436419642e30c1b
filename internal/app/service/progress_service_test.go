package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"codecrux/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProgressRepo implements the first-wins contract of the real repository:
// only the call that creates the solved record adds points.
type fakeProgressRepo struct {
	mu            sync.Mutex
	solved        map[string]map[int]struct{}
	points        map[string]int
	solvedQueries int
	lastLimit     int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		solved: make(map[string]map[int]struct{}),
		points: make(map[string]int),
	}
}

func (r *fakeProgressRepo) CreditSolve(ctx context.Context, userID string, problemID, points int) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.solved[userID][problemID]; ok {
		return false, 0, nil
	}
	if r.solved[userID] == nil {
		r.solved[userID] = make(map[int]struct{})
	}
	r.solved[userID][problemID] = struct{}{}
	r.points[userID] += points
	return true, r.points[userID], nil
}

func (r *fakeProgressRepo) SolvedProblemIDs(ctx context.Context, userID string) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.solvedQueries++
	var ids []int
	for id := range r.solved[userID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

func (r *fakeProgressRepo) UserPoints(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.points[userID], nil
}

func (r *fakeProgressRepo) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	return nil, nil
}

func TestTryCreditIdempotent(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo)
	ctx := context.Background()

	first, err := svc.TryCredit(ctx, "user-1", 1, 100)
	require.NoError(t, err)
	assert.True(t, first.Awarded)
	assert.Equal(t, 100, first.Points)
	assert.Equal(t, 100, first.TotalPoints)

	second, err := svc.TryCredit(ctx, "user-1", 1, 100)
	require.NoError(t, err)
	assert.False(t, second.Awarded)
	assert.True(t, second.AlreadySolved)

	total, err := svc.UserPoints(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100, total, "re-solving must not add points")

	// A different problem is credited independently.
	third, err := svc.TryCredit(ctx, "user-1", 2, 200)
	require.NoError(t, err)
	assert.True(t, third.Awarded)
	assert.Equal(t, 300, third.TotalPoints)
}

func TestTryCreditConcurrentAwardsOnce(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo)
	ctx := context.Background()

	const n = 50
	outcomes := make([]*model.CreditOutcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.TryCredit(ctx, "user-1", 1, 100)
			assert.NoError(t, err)
			outcomes[i] = out
		}(i)
	}
	wg.Wait()

	awarded := 0
	for _, out := range outcomes {
		require.NotNil(t, out)
		if out.Awarded {
			awarded++
		} else {
			assert.True(t, out.AlreadySolved)
		}
	}
	assert.Equal(t, 1, awarded, "racing submissions must award exactly once")

	total, err := svc.UserPoints(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 100, total)
}

func TestSolvedProblemIDsCached(t *testing.T) {
	repo := newFakeProgressRepo()
	repo.solved["user-1"] = map[int]struct{}{3: {}, 1: {}}
	svc := NewProgressService(repo)
	ctx := context.Background()

	ids, err := svc.SolvedProblemIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)

	ids, err = svc.SolvedProblemIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)
	assert.Equal(t, 1, repo.solvedQueries, "second read must come from cache")
}

func TestCreditUpdatesCachedSolvedSet(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo)
	ctx := context.Background()

	_, err := svc.SolvedProblemIDs(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.TryCredit(ctx, "user-1", 2, 200)
	require.NoError(t, err)

	ids, err := svc.SolvedProblemIDs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, ids)
	assert.Equal(t, 1, repo.solvedQueries, "credit must refresh the cache in place")
}

func TestLeaderboardLimitClamped(t *testing.T) {
	repo := newFakeProgressRepo()
	svc := NewProgressService(repo)
	ctx := context.Background()

	_, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.Leaderboard(ctx, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}
