package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Domain errors.
var (
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrCourseNotPublished = errors.New("course is not published")
)

// CatalogService serves course and lesson content to learners. Published
// payloads are cached in Redis and prewarmed at startup so lesson views never
// race a cold cache.
type CatalogService struct {
	courseRepo *repository.CourseRepository
	lessonRepo *repository.LessonRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *CatalogService {
	return &CatalogService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "catalog_service").Logger(),
	}
}

// ListPublishedCourses returns the payloads of every published course.
func (s *CatalogService) ListPublishedCourses(ctx context.Context) ([]model.CoursePayload, error) {
	courses, err := s.courseRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published courses: %w", err)
	}

	payloads := make([]model.CoursePayload, 0, len(courses))
	for i := range courses {
		payload, err := s.GetCoursePayload(ctx, courses[i].Slug)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *payload)
	}
	return payloads, nil
}

// GetCoursePayload retrieves the cached learner view of a published course,
// rebuilding the cache on a miss.
func (s *CatalogService) GetCoursePayload(ctx context.Context, courseSlug string) (*model.CoursePayload, error) {
	key := config.CacheKey.CoursePayloadKey(courseSlug)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.CoursePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal course payload: %w", err)
		}
		return &payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get course payload: %w", err)
	}

	course, err := s.getPublishedCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}
	if err := s.WarmCourseCache(ctx, course); err != nil {
		return nil, err
	}
	return s.buildCoursePayload(ctx, course)
}

// GetLessonPayload retrieves the cached learner view of one lesson.
func (s *CatalogService) GetLessonPayload(ctx context.Context, courseSlug, lessonSlug string) (*model.LessonPayload, error) {
	key := config.CacheKey.LessonPayloadKey(courseSlug, lessonSlug)
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var payload model.LessonPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal lesson payload: %w", err)
		}
		return &payload, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get lesson payload: %w", err)
	}

	lesson, err := s.GetLesson(ctx, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}
	payload := buildLessonPayload(courseSlug, lesson)

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal lesson payload: %w", err)
	}
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return nil, fmt.Errorf("cache lesson payload: %w", err)
	}
	return payload, nil
}

// GetLesson retrieves the full lesson of a published course, correct answers
// and solution included. For server-side grading only — never returned to
// learners as-is.
func (s *CatalogService) GetLesson(ctx context.Context, courseSlug, lessonSlug string) (*model.Lesson, error) {
	course, err := s.getPublishedCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.GetBySlug(ctx, course.ID, lessonSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return lesson, nil
}

// WarmCourseCache loads a course's learner payloads from PostgreSQL into
// Redis: the course payload plus one payload per lesson, in one pipeline.
func (s *CatalogService) WarmCourseCache(ctx context.Context, course *model.Course) error {
	payload, err := s.buildCoursePayload(ctx, course)
	if err != nil {
		return err
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal course payload: %w", err)
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.CoursePayloadKey(course.Slug), payloadJSON, 0)

	for i := range lessons {
		lesson, err := s.lessonRepo.GetBySlug(ctx, course.ID, lessons[i].Slug)
		if err != nil {
			return fmt.Errorf("load lesson %s: %w", lessons[i].Slug, err)
		}
		raw, err := json.Marshal(buildLessonPayload(course.Slug, lesson))
		if err != nil {
			return fmt.Errorf("marshal lesson payload: %w", err)
		}
		pipe.Set(ctx, config.CacheKey.LessonPayloadKey(course.Slug, lesson.Slug), raw, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("course", course.Slug).
		Int("lessons", len(lessons)).
		Msg("Cache warmed")
	return nil
}

// InvalidateCourseCache drops a course's cached payloads after authoring
// changes or unpublish.
func (s *CatalogService) InvalidateCourseCache(ctx context.Context, course *model.Course) error {
	lessons, err := s.lessonRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	keys := make([]string, 0, len(lessons)+1)
	keys = append(keys, config.CacheKey.CoursePayloadKey(course.Slug))
	for i := range lessons {
		keys = append(keys, config.CacheKey.LessonPayloadKey(course.Slug, lessons[i].Slug))
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

// PrewarmAllCaches loads every published course into Redis on startup.
func (s *CatalogService) PrewarmAllCaches(ctx context.Context) error {
	courses, err := s.courseRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published courses: %w", err)
	}

	if len(courses) == 0 {
		s.log.Info().Msg("No published courses to prewarm")
		return nil
	}

	warmed := 0
	for i := range courses {
		if err := s.WarmCourseCache(ctx, &courses[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("course", courses[i].Slug).
				Msg("Failed to warm course, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(courses)).
		Msg("Prewarming complete")
	return nil
}

func (s *CatalogService) getPublishedCourse(ctx context.Context, courseSlug string) (*model.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, courseSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.Status != model.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}
	return course, nil
}

func (s *CatalogService) buildCoursePayload(ctx context.Context, course *model.Course) (*model.CoursePayload, error) {
	summaries, err := s.lessonRepo.ListSummariesByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list lesson summaries: %w", err)
	}
	if summaries == nil {
		summaries = []model.LessonSummary{}
	}

	return &model.CoursePayload{
		Slug:        course.Slug,
		Title:       course.Title,
		Description: course.Description,
		Level:       course.Level,
		Lessons:     summaries,
	}, nil
}

func buildLessonPayload(courseSlug string, lesson *model.Lesson) *model.LessonPayload {
	quizzes := make([]model.QuizForLearner, len(lesson.Quizzes))
	for i, q := range lesson.Quizzes {
		quizzes[i] = model.QuizForLearner{
			Question: q.Question,
			Options:  q.Options,
			OrderNum: q.OrderNum,
		}
	}

	payload := &model.LessonPayload{
		CourseSlug: courseSlug,
		Slug:       lesson.Slug,
		Title:      lesson.Title,
		Content:    lesson.Content,
		OrderNum:   lesson.OrderNum,
		Quizzes:    quizzes,
	}
	if lesson.Exercise != nil {
		payload.Exercise = &model.ExerciseForLearner{
			Description: lesson.Exercise.Description,
			StarterCode: lesson.Exercise.StarterCode,
		}
	}
	return payload
}
