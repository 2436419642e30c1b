package service

import (
	"context"
	"sort"

	"codecrux/internal/common"
	"codecrux/internal/domain/model"
	"codecrux/internal/domain/repository"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

const solvedCacheSize = 4096

// ProgressService is the progress ledger: it guarantees at-most-once point
// crediting per (user, problem) pair. The uniqueness gate lives in the
// repository; the service adds the cache and the outcome shape.
type ProgressService struct {
	progressRepo repository.ProgressRepository
	solvedCache  *lru.Cache[string, map[int]struct{}]
}

func NewProgressService(progressRepo repository.ProgressRepository) *ProgressService {
	cache, err := lru.New[string, map[int]struct{}](solvedCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &ProgressService{
		progressRepo: progressRepo,
		solvedCache:  cache,
	}
}

// TryCredit records the solved fact and awards points exactly once. Calling
// it again for an already-solved problem is a no-op reported as AlreadySolved;
// two racing calls resolve to exactly one award via the unique constraint.
func (s *ProgressService) TryCredit(ctx context.Context, userID string, problemID, points int) (*model.CreditOutcome, error) {
	inserted, total, err := s.progressRepo.CreditSolve(ctx, userID, problemID, points)
	if err != nil {
		return nil, common.Errorf("failed to credit solve: %w", err)
	}

	s.cacheSolved(userID, problemID)

	if !inserted {
		return &model.CreditOutcome{AlreadySolved: true}, nil
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"problem_id": problemID,
		"points":     points,
	}).Info("points credited")

	return &model.CreditOutcome{
		Awarded:     true,
		Points:      points,
		TotalPoints: total,
	}, nil
}

// SolvedProblemIDs returns the sorted ids of problems the user has solved.
func (s *ProgressService) SolvedProblemIDs(ctx context.Context, userID string) ([]int, error) {
	if solved, ok := s.solvedCache.Get(userID); ok {
		return sortedIDs(solved), nil
	}

	ids, err := s.progressRepo.SolvedProblemIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	solved := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		solved[id] = struct{}{}
	}
	s.solvedCache.Add(userID, solved)
	return ids, nil
}

func (s *ProgressService) UserPoints(ctx context.Context, userID string) (int, error) {
	return s.progressRepo.UserPoints(ctx, userID)
}

func (s *ProgressService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.progressRepo.GetLeaderboard(ctx, limit)
}

func (s *ProgressService) cacheSolved(userID string, problemID int) {
	solved, ok := s.solvedCache.Get(userID)
	if !ok {
		// Not cached yet; the next SolvedProblemIDs call fills it from the DB.
		return
	}
	// Cached sets are treated as immutable so concurrent readers never see a
	// map being written.
	next := make(map[int]struct{}, len(solved)+1)
	for id := range solved {
		next[id] = struct{}{}
	}
	next[problemID] = struct{}{}
	s.solvedCache.Add(userID, next)
}

func sortedIDs(solved map[int]struct{}) []int {
	ids := make([]int, 0, len(solved))
	for id := range solved {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
