package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luxilearn/luxilearn-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalCourses, totalLessons, totalQuizzes, totalLearners int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM lessons),
			(SELECT COUNT(*) FROM quizzes),
			(SELECT COUNT(DISTINCT learner_id) FROM progress_snapshots)`,
	).Scan(&totalCourses, &totalLessons, &totalQuizzes, &totalLearners)
	return
}

// GetCourseStatusCounts retrieves the distribution of courses by status.
func (r *DashboardRepository) GetCourseStatusCounts(ctx context.Context) (map[model.CourseStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM courses GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.CourseStatus]int)
	for rows.Next() {
		var status model.CourseStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DashboardCourseStats aggregates learner activity for one course.
type DashboardCourseStats struct {
	CourseSlug   string   `json:"course_slug"`
	Learners     int      `json:"learners"`
	Completions  int      `json:"completions"`
	AverageScore *float64 `json:"average_score"`
}

// GetCourseStats aggregates progress snapshots per course: distinct learners,
// completed lesson submissions and the mean score ratio.
func (r *DashboardRepository) GetCourseStats(ctx context.Context, limit int) ([]DashboardCourseStats, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_slug,
		        COUNT(DISTINCT learner_id),
		        COUNT(*) FILTER (WHERE completed),
		        AVG(CASE WHEN total > 0 THEN score::float / total END)
		 FROM progress_snapshots
		 GROUP BY course_slug
		 ORDER BY COUNT(DISTINCT learner_id) DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DashboardCourseStats
	for rows.Next() {
		var s DashboardCourseStats
		if err := rows.Scan(&s.CourseSlug, &s.Learners, &s.Completions, &s.AverageScore); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if stats == nil {
		stats = []DashboardCourseStats{}
	}
	return stats, rows.Err()
}

// DashboardRecentSubmission is one recently persisted quiz submission.
type DashboardRecentSubmission struct {
	CourseSlug string    `json:"course_slug"`
	LessonSlug string    `json:"lesson_slug"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	ErrorCount int       `json:"error_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetRecentSubmissions retrieves the last N persisted submissions.
func (r *DashboardRepository) GetRecentSubmissions(ctx context.Context, limit int) ([]DashboardRecentSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT course_slug, lesson_slug, score, total, error_count, updated_at
		 FROM progress_snapshots
		 ORDER BY updated_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []DashboardRecentSubmission
	for rows.Next() {
		var s DashboardRecentSubmission
		if err := rows.Scan(&s.CourseSlug, &s.LessonSlug, &s.Score, &s.Total, &s.ErrorCount, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if subs == nil {
		subs = []DashboardRecentSubmission{}
	}
	return subs, rows.Err()
}
