package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps progress records in one hash per (learner, course), with
// lesson slugs as fields. The hash has no TTL; resetting a course deletes the
// whole hash in a single DEL.
type RedisStore struct {
	rdb        *redis.Client
	sessionTTL time.Duration
}

// NewRedisStore creates a RedisStore. sessionTTL applies only to lesson
// sessions, never to progress records.
func NewRedisStore(rdb *redis.Client, sessionTTL time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, sessionTTL: sessionTTL}
}

func (s *RedisStore) Get(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonProgress, error) {
	key := config.CacheKey.LearnerProgressKey(learnerID, courseSlug)
	data, err := s.rdb.HGet(ctx, key, lessonSlug).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("hget progress: %w", err)
	}

	var rec model.LessonProgress
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal progress: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Set(ctx context.Context, learnerID, courseSlug, lessonSlug string, rec *model.LessonProgress) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	key := config.CacheKey.LearnerProgressKey(learnerID, courseSlug)
	if err := s.rdb.HSet(ctx, key, lessonSlug, data).Err(); err != nil {
		return fmt.Errorf("hset progress: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteAll(ctx context.Context, learnerID, courseSlug string) error {
	key := config.CacheKey.LearnerProgressKey(learnerID, courseSlug)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("del progress: %w", err)
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonSession, error) {
	key := config.CacheKey.LessonSessionKey(learnerID, courseSlug, lessonSlug)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess model.LessonSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) SaveSession(ctx context.Context, learnerID string, sess *model.LessonSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := config.CacheKey.LessonSessionKey(learnerID, sess.CourseSlug, sess.LessonSlug)
	if err := s.rdb.Set(ctx, key, data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// DeleteSessions scans for the learner's lesson sessions within one course and
// removes them. SCAN keeps this safe on a shared Redis.
func (s *RedisStore) DeleteSessions(ctx context.Context, learnerID, courseSlug string) error {
	pattern := config.CacheKey.LessonSessionPattern(learnerID, courseSlug)

	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("del sessions: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
