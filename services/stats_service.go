package services

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StatsService keeps lightweight per-quiz submission counters in Redis so
// they can be served without touching the database.
type StatsService struct {
	redis *redis.Client
}

func NewStatsService(redis *redis.Client) *StatsService {
	return &StatsService{redis: redis}
}

type QuizStats struct {
	Attempts          int64 `json:"attempts"`
	AveragePercentage int   `json:"averagePercentage"`
}

func (s *StatsService) statsKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d:stats", quizID)
}

// RecordSubmission folds one scored submission into the quiz counters.
func (s *StatsService) RecordSubmission(ctx context.Context, quizID uint, score, totalQuestions int) error {
	key := s.statsKey(quizID)

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, "attempts", 1)
	pipe.HIncrBy(ctx, key, "correct", int64(score))
	pipe.HIncrBy(ctx, key, "questions", int64(totalQuestions))
	_, err := pipe.Exec(ctx)
	return err
}

// GetStats returns the accumulated counters for a quiz. A quiz with no
// recorded submissions yields zeroed stats.
func (s *StatsService) GetStats(ctx context.Context, quizID uint) (*QuizStats, error) {
	values, err := s.redis.HGetAll(ctx, s.statsKey(quizID)).Result()
	if err != nil {
		return nil, err
	}

	stats := &QuizStats{}
	stats.Attempts = parseCounter(values["attempts"])
	correct := parseCounter(values["correct"])
	questions := parseCounter(values["questions"])
	if questions > 0 {
		stats.AveragePercentage = int(math.Round(float64(correct) / float64(questions) * 100))
	}
	return stats, nil
}

func parseCounter(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
