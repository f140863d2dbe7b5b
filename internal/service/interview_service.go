package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"singularshift/internal/cache"
	"singularshift/internal/model"
	"singularshift/internal/repository"
)

var ErrInterviewNotFound = errors.New("interview not found")

// ErrInterviewExists is returned when an interview id was already stored
var ErrInterviewExists = repository.ErrInterviewExists

// DefaultLatestLimit is the page size of the peer interview feed
const DefaultLatestLimit = 20

// DefaultLeaderboardLimit is the size of the admin leaderboard
const DefaultLeaderboardLimit = 10

// DefaultFeedbackCategory is shown when an interview has no role category
const DefaultFeedbackCategory model.RoleCategory = "General"

// InterviewService serves the read side of stored interviews
type InterviewService struct {
	repo        repository.InterviewRepo
	leaderboard cache.LeaderboardCache
}

func NewInterviewService(repo repository.InterviewRepo) *InterviewService {
	return &InterviewService{repo: repo}
}

// SetLeaderboard enables peer standings on feedback
func (s *InterviewService) SetLeaderboard(lb cache.LeaderboardCache) {
	s.leaderboard = lb
}

// ListForUser returns the user's interviews, newest first
func (s *InterviewService) ListForUser(ctx context.Context, userID string) ([]*model.InterviewDocument, error) {
	docs, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*model.InterviewDocument{}
	}
	return docs, nil
}

// Latest returns other users' finalized interviews, newest first
func (s *InterviewService) Latest(ctx context.Context, excludeUserID string, limit int) ([]*model.InterviewDocument, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	docs, err := s.repo.LatestFinalized(ctx, excludeUserID, int64(limit))
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []*model.InterviewDocument{}
	}
	return docs, nil
}

func (s *InterviewService) Get(ctx context.Context, id string) (*model.InterviewDocument, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrInterviewNotFound
	}
	return doc, nil
}

// Feedback builds the feedback view, filling gaps with the report defaults
func (s *InterviewService) Feedback(ctx context.Context, id string) (*model.Feedback, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.FeedbackFor(ctx, id, doc), nil
}

// FeedbackFor builds the feedback view of an already loaded interview.
// A leaderboard failure only drops the standing.
func (s *InterviewService) FeedbackFor(ctx context.Context, id string, doc *model.InterviewDocument) *model.Feedback {
	fb := BuildFeedback(id, doc)
	if s.leaderboard != nil && doc.Finalized {
		if standing, err := s.leaderboard.Standing(ctx, doc.RoleCategory, id); err == nil {
			fb.Standing = standing
		}
	}
	return fb
}

// Leaderboard returns the top finalized scores of a role category
func (s *InterviewService) Leaderboard(ctx context.Context, category model.RoleCategory, limit int) ([]cache.LeaderboardEntry, error) {
	if s.leaderboard == nil {
		return []cache.LeaderboardEntry{}, nil
	}
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	return s.leaderboard.GetTop(ctx, category, limit)
}

// BuildFeedback maps a stored interview onto the feedback view
func BuildFeedback(id string, doc *model.InterviewDocument) *model.Feedback {
	fb := &model.Feedback{
		InterviewID:     id,
		UserID:          doc.UserID,
		TotalScore:      doc.ReadinessScore,
		Benchmark:       doc.BenchmarkSummary,
		Recommendations: doc.Recommendations,
		Strengths:       doc.Strengths,
		Weaknesses:      doc.Weaknesses,
		RoleCategory:    doc.RoleCategory,
		CreatedAt:       doc.CreatedAt,
	}
	if fb.Benchmark == "" {
		fb.Benchmark = model.DefaultBenchmarkSummary
	}
	if fb.Recommendations == nil {
		fb.Recommendations = []string{model.DefaultRecommendation}
	}
	if fb.Strengths == nil {
		fb.Strengths = []string{model.DefaultStrength}
	}
	if fb.Weaknesses == nil {
		fb.Weaknesses = []string{model.DefaultWeakness}
	}
	if fb.RoleCategory == "" {
		fb.RoleCategory = DefaultFeedbackCategory
	}
	return fb
}

// Stats counts all and finalized interviews concurrently
func (s *InterviewService) Stats(ctx context.Context) (model.InterviewStats, error) {
	var stats model.InterviewStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.Count(gctx, false)
		stats.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.Count(gctx, true)
		stats.Completed = n
		return err
	})
	if err := g.Wait(); err != nil {
		return model.InterviewStats{}, err
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}
