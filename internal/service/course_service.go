package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/repository"
	"github.com/rs/zerolog"
)

var (
	ErrSlugTaken            = errors.New("slug already in use")
	ErrCourseNotDraft       = errors.New("course is not a draft")
	ErrInvalidCorrectOption = errors.New("correct option out of range")
	ErrLessonHasNoExercise  = errors.New("lesson has no exercise")
)

// CourseService handles admin authoring: course CRUD, nested lesson writes,
// publishing, and the cache invalidation that goes with them.
type CourseService struct {
	courseRepo *repository.CourseRepository
	lessonRepo *repository.LessonRepository
	catalog    *CatalogService
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	catalog *CatalogService,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
		catalog:    catalog,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// ListCourses returns a page of courses in any status, newest first.
func (s *CourseService) ListCourses(ctx context.Context, limit, offset int) ([]model.Course, int, error) {
	return s.courseRepo.ListPaginated(ctx, limit, offset)
}

// GetCourse returns one course by id regardless of status.
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return course, nil
}

// CreateCourse creates a new draft course.
func (s *CourseService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	level := req.Level
	if level == "" {
		level = "debutant"
	}

	course := &model.Course{
		ID:          uuid.New(),
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		Level:       level,
		Status:      model.CourseStatusDraft,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Str("slug", course.Slug).Msg("Course created")
	return course, nil
}

// UpdateCourse patches a course's own fields and refreshes the cache when the
// course is live.
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Level != "" {
		course.Level = req.Level
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	if err := s.rewarmIfPublished(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// PublishCourse moves a draft course live and warms its learner cache. Only
// drafts can be published.
func (s *CourseService) PublishCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusDraft {
		return nil, ErrCourseNotDraft
	}

	if err := s.courseRepo.UpdateStatus(ctx, id, model.CourseStatusPublished); err != nil {
		return nil, fmt.Errorf("publish course: %w", err)
	}
	course.Status = model.CourseStatusPublished

	if err := s.catalog.WarmCourseCache(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", course.Slug).Msg("Course published")
	return course, nil
}

// ArchiveCourse takes a published course offline and drops its cache.
func (s *CourseService) ArchiveCourse(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.UpdateStatus(ctx, id, model.CourseStatusArchived); err != nil {
		return nil, fmt.Errorf("archive course: %w", err)
	}
	course.Status = model.CourseStatusArchived

	if err := s.catalog.InvalidateCourseCache(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", course.Slug).Msg("Course archived")
	return course, nil
}

// DeleteCourse removes a course and all its lessons.
func (s *CourseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	course, err := s.GetCourse(ctx, id)
	if err != nil {
		return err
	}

	if err := s.catalog.InvalidateCourseCache(ctx, course); err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	s.log.Info().Str("slug", course.Slug).Msg("Course deleted")
	return nil
}

// ListLessons returns a course's lessons in order, children included.
func (s *CourseService) ListLessons(ctx context.Context, courseID uuid.UUID) ([]model.Lesson, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.lessonRepo.ListByCourse(ctx, courseID)
}

// GetLessonAdmin returns one lesson with answers and solution intact.
func (s *CourseService) GetLessonAdmin(ctx context.Context, courseID uuid.UUID, lessonSlug string) (*model.Lesson, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	lesson, err := s.lessonRepo.GetBySlug(ctx, courseID, lessonSlug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	return lesson, nil
}

// CreateLesson creates a lesson together with its quizzes and optional
// exercise in one transaction.
func (s *CourseService) CreateLesson(ctx context.Context, courseID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ID:       uuid.New(),
		CourseID: courseID,
		Slug:     req.Slug,
		Title:    req.Title,
		Content:  req.Content,
		OrderNum: req.OrderNum,
	}

	lesson.Quizzes, err = quizzesFromInputs(lesson.ID, req.Quizzes)
	if err != nil {
		return nil, err
	}
	if req.Exercise != nil {
		lesson.Exercise = &model.Exercise{
			ID:           uuid.New(),
			LessonID:     lesson.ID,
			Description:  req.Exercise.Description,
			StarterCode:  req.Exercise.StarterCode,
			SolutionCode: req.Exercise.SolutionCode,
		}
	}

	if err := s.lessonRepo.CreateWithChildren(ctx, lesson); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	if err := s.rewarmIfPublished(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("course", course.Slug).
		Str("lesson", lesson.Slug).
		Int("quizzes", len(lesson.Quizzes)).
		Msg("Lesson created")
	return lesson, nil
}

// UpdateLesson patches a lesson's own fields, quizzes and exercise untouched.
func (s *CourseService) UpdateLesson(ctx context.Context, courseID uuid.UUID, lessonSlug string, req *model.UpdateLessonRequest) (*model.Lesson, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.GetLessonAdmin(ctx, courseID, lessonSlug)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}
	if req.OrderNum != nil {
		lesson.OrderNum = *req.OrderNum
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	if err := s.rewarmIfPublished(ctx, course); err != nil {
		return nil, err
	}
	return lesson, nil
}

// DeleteLesson removes a lesson and everything under it.
func (s *CourseService) DeleteLesson(ctx context.Context, courseID uuid.UUID, lessonSlug string) error {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	lesson, err := s.GetLessonAdmin(ctx, courseID, lessonSlug)
	if err != nil {
		return err
	}

	if err := s.lessonRepo.Delete(ctx, lesson.ID); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return s.rewarmIfPublished(ctx, course)
}

// ReplaceQuizzes swaps a lesson's full quiz set atomically. In-flight learner
// sessions keep grading against the quizzes they started with only until
// their next submit, so authors should avoid editing live lessons.
func (s *CourseService) ReplaceQuizzes(ctx context.Context, courseID uuid.UUID, lessonSlug string, inputs []model.QuizInput) (*model.Lesson, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.GetLessonAdmin(ctx, courseID, lessonSlug)
	if err != nil {
		return nil, err
	}

	quizzes, err := quizzesFromInputs(lesson.ID, inputs)
	if err != nil {
		return nil, err
	}
	if err := s.lessonRepo.ReplaceQuizzes(ctx, lesson.ID, quizzes); err != nil {
		return nil, fmt.Errorf("replace quizzes: %w", err)
	}
	lesson.Quizzes = quizzes

	if err := s.rewarmIfPublished(ctx, course); err != nil {
		return nil, err
	}
	return lesson, nil
}

// UpsertExercise creates or replaces a lesson's exercise.
func (s *CourseService) UpsertExercise(ctx context.Context, courseID uuid.UUID, lessonSlug string, input *model.ExerciseInput) (*model.Exercise, error) {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	lesson, err := s.GetLessonAdmin(ctx, courseID, lessonSlug)
	if err != nil {
		return nil, err
	}

	exercise := &model.Exercise{
		ID:           uuid.New(),
		LessonID:     lesson.ID,
		Description:  input.Description,
		StarterCode:  input.StarterCode,
		SolutionCode: input.SolutionCode,
	}
	if err := s.lessonRepo.UpsertExercise(ctx, exercise); err != nil {
		return nil, fmt.Errorf("upsert exercise: %w", err)
	}
	if err := s.rewarmIfPublished(ctx, course); err != nil {
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise removes a lesson's exercise.
func (s *CourseService) DeleteExercise(ctx context.Context, courseID uuid.UUID, lessonSlug string) error {
	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return err
	}
	lesson, err := s.GetLessonAdmin(ctx, courseID, lessonSlug)
	if err != nil {
		return err
	}
	if lesson.Exercise == nil {
		return ErrLessonHasNoExercise
	}

	if err := s.lessonRepo.DeleteExercise(ctx, lesson.ID); err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return s.rewarmIfPublished(ctx, course)
}

func (s *CourseService) rewarmIfPublished(ctx context.Context, course *model.Course) error {
	if course.Status != model.CourseStatusPublished {
		return nil
	}
	return s.catalog.WarmCourseCache(ctx, course)
}

// quizzesFromInputs validates that every correct option points inside its
// option list before anything touches the database.
func quizzesFromInputs(lessonID uuid.UUID, inputs []model.QuizInput) ([]model.Quiz, error) {
	quizzes := make([]model.Quiz, len(inputs))
	for i, in := range inputs {
		if in.CorrectOption < 0 || in.CorrectOption >= len(in.Options) {
			return nil, fmt.Errorf("%w: quiz %d", ErrInvalidCorrectOption, i)
		}
		quizzes[i] = model.Quiz{
			ID:            uuid.New(),
			LessonID:      lessonID,
			Question:      in.Question,
			Options:       in.Options,
			CorrectOption: in.CorrectOption,
			OrderNum:      in.OrderNum,
		}
	}
	return quizzes, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
