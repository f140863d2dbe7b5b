package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"singularshift/internal/model"
)

// LeaderboardCache ranks finalized readiness scores within each role category
type LeaderboardCache interface {
	Record(ctx context.Context, category model.RoleCategory, interviewID string, score int) error
	GetTop(ctx context.Context, category model.RoleCategory, limit int) ([]LeaderboardEntry, error)
	Standing(ctx context.Context, category model.RoleCategory, interviewID string) (*model.PeerStanding, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	InterviewID string `json:"interviewId"`
	Score       int    `json:"score"`
	Rank        int    `json:"rank"`
}

type leaderboardCache struct {
	client redis.Cmdable
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client redis.Cmdable) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func leaderboardKey(category model.RoleCategory) string {
	return fmt.Sprintf("leaderboard:%s", category)
}

func (c *leaderboardCache) Record(ctx context.Context, category model.RoleCategory, interviewID string, score int) error {
	return c.client.ZAdd(ctx, leaderboardKey(category), redis.Z{
		Score:  float64(score),
		Member: interviewID,
	}).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, category model.RoleCategory, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey(category), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			InterviewID: z.Member.(string),
			Score:       int(z.Score),
			Rank:        i + 1,
		}
	}
	return entries, nil
}

// Standing returns nil when the interview has not been recorded
func (c *leaderboardCache) Standing(ctx context.Context, category model.RoleCategory, interviewID string) (*model.PeerStanding, error) {
	key := leaderboardKey(category)
	score, err := c.client.ZScore(ctx, key, interviewID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rank, err := c.client.ZRevRank(ctx, key, interviewID).Result()
	if err != nil {
		return nil, err
	}
	total, err := c.client.ZCard(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	lower, err := c.client.ZCount(ctx, key, "-inf", "("+strconv.FormatFloat(score, 'f', -1, 64)).Result()
	if err != nil {
		return nil, err
	}

	return &model.PeerStanding{
		Category:       category,
		Rank:           rank + 1, // 1-indexed
		Peers:          total,
		AheadOfPercent: aheadOf(lower, total),
	}, nil
}

// aheadOf is the share of the other peers scoring strictly lower, in percent
func aheadOf(lower, total int64) int {
	if total <= 1 {
		return 0
	}
	return int(lower * 100 / (total - 1))
}
