package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProgressSyncWorker consumes the persist queue and UPSERTs progress snapshots
// to PostgreSQL. Submissions stay fast because the request path only touches
// Redis; this worker is the sole writer of progress_snapshots.
type ProgressSyncWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewProgressSyncWorker creates a new ProgressSyncWorker.
func NewProgressSyncWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ProgressSyncWorker {
	return &ProgressSyncWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "progress_sync_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ProgressSyncWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ProgressSyncWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistProgressQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var snapshot model.ProgressSnapshot
	if err := json.Unmarshal([]byte(result[1]), &snapshot); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistSnapshot(ctx, &snapshot); err != nil {
		w.log.Error().Err(err).
			Str("learner_id", snapshot.LearnerID).
			Str("course", snapshot.CourseSlug).
			Str("lesson", snapshot.LessonSlug).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *ProgressSyncWorker) persistSnapshot(ctx context.Context, s *model.ProgressSnapshot) error {
	// UPSERT keeps one row per (learner, course, lesson); resubmissions
	// overwrite, matching the durable record semantics.
	_, err := w.pool.Exec(ctx,
		`INSERT INTO progress_snapshots (learner_id, course_slug, lesson_slug, score, total, error_count, completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (learner_id, course_slug, lesson_slug) DO UPDATE
		 SET score = EXCLUDED.score,
		     total = EXCLUDED.total,
		     error_count = EXCLUDED.error_count,
		     completed = EXCLUDED.completed,
		     updated_at = NOW()`,
		s.LearnerID, s.CourseSlug, s.LessonSlug, s.Score, s.Total, s.ErrorCount, s.Completed,
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *ProgressSyncWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistProgressQueue).Result()
		if err != nil {
			break
		}

		var snapshot model.ProgressSnapshot
		if err := json.Unmarshal([]byte(result), &snapshot); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistSnapshot(ctx, &snapshot); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained queue on shutdown")
	}
}
