package service

import (
	"context"
	"fmt"

	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/repository"
	"github.com/rs/zerolog"
)

// DashboardOverview is the admin dashboard payload.
type DashboardOverview struct {
	TotalCourses      int                                    `json:"total_courses"`
	TotalLessons      int                                    `json:"total_lessons"`
	TotalQuizzes      int                                    `json:"total_quizzes"`
	TotalLearners     int                                    `json:"total_learners"`
	CoursesByStatus   map[model.CourseStatus]int             `json:"courses_by_status"`
	CourseStats       []repository.DashboardCourseStats      `json:"course_stats"`
	RecentSubmissions []repository.DashboardRecentSubmission `json:"recent_submissions"`
}

// DashboardService assembles back-office statistics from persisted progress
// snapshots and the content catalog.
type DashboardService struct {
	repo *repository.DashboardRepository
	log  zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		repo: repo,
		log:  log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetOverview builds the full dashboard in one call.
func (s *DashboardService) GetOverview(ctx context.Context) (*DashboardOverview, error) {
	totalCourses, totalLessons, totalQuizzes, totalLearners, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}

	statusCounts, err := s.repo.GetCourseStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("course status counts: %w", err)
	}

	courseStats, err := s.repo.GetCourseStats(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}

	recent, err := s.repo.GetRecentSubmissions(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("recent submissions: %w", err)
	}

	return &DashboardOverview{
		TotalCourses:      totalCourses,
		TotalLessons:      totalLessons,
		TotalQuizzes:      totalQuizzes,
		TotalLearners:     totalLearners,
		CoursesByStatus:   statusCounts,
		CourseStats:       courseStats,
		RecentSubmissions: recent,
	}, nil
}
