package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxilearn/luxilearn-backend/internal/config"
	"github.com/luxilearn/luxilearn-backend/internal/exercise"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/progress"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var (
	ErrQuizIndexOutOfRange   = errors.New("quiz index out of range")
	ErrOptionIndexOutOfRange = errors.New("option index out of range")
	ErrQuizAlreadyAnswered   = errors.New("quiz already answered")
	ErrSessionMissing        = errors.New("no open lesson session")
	ErrNoQuizzes             = errors.New("lesson has no quizzes")
	ErrNoExercise            = errors.New("lesson has no exercise")
)

// LessonSource is the slice of the catalog the progression flow needs: full
// lessons for grading and ordered course payloads for navigation.
type LessonSource interface {
	GetLesson(ctx context.Context, courseSlug, lessonSlug string) (*model.Lesson, error)
	GetCoursePayload(ctx context.Context, courseSlug string) (*model.CoursePayload, error)
}

// ProgressionService drives a learner through a lesson: one answer per quiz
// slot, an explicit submit that grades and persists, exercise validation, and
// the gate to the next lesson. All session state lives server-side; option
// correctness never reaches the client before submission.
type ProgressionService struct {
	catalog  LessonSource
	store    progress.Store
	sessions progress.SessionStore
	registry *exercise.Registry
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewProgressionService creates a new ProgressionService.
func NewProgressionService(
	catalog LessonSource,
	store progress.Store,
	sessions progress.SessionStore,
	registry *exercise.Registry,
	rdb *redis.Client,
	log zerolog.Logger,
) *ProgressionService {
	return &ProgressionService{
		catalog:  catalog,
		store:    store,
		sessions: sessions,
		registry: registry,
		rdb:      rdb,
		log:      log.With().Str("component", "progression_service").Logger(),
	}
}

// StartLesson opens (or resumes) a lesson session and returns the current
// progression state. When no session is open but a durable record exists, the
// session is rebuilt from it: answers restored, score shown, exercise flag NOT
// restored (it is session-only). StartLesson never writes the durable record.
func (s *ProgressionService) StartLesson(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonState, error) {
	lesson, err := s.catalog.GetLesson(ctx, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.GetSession(ctx, learnerID, courseSlug, lessonSlug)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	switch {
	case sess == nil:
		sess = &model.LessonSession{
			CourseSlug: courseSlug,
			LessonSlug: lessonSlug,
			Answers:    make([]*int, len(lesson.Quizzes)),
		}

		rec, err := s.store.Get(ctx, learnerID, courseSlug, lessonSlug)
		if err != nil {
			return nil, fmt.Errorf("get progress: %w", err)
		}
		if rec != nil && len(rec.AnswersHistory) == len(lesson.Quizzes) {
			sess.Answers = rec.AnswersHistory
			sess.ScoreShown = true
			sess.Score = rec.Score
			sess.ErrorCount = rec.ErrorCount
		}

		if err := s.sessions.SaveSession(ctx, learnerID, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	case len(sess.Answers) != len(lesson.Quizzes):
		// Lesson was re-authored under an open session: start over.
		sess.Answers = make([]*int, len(lesson.Quizzes))
		sess.ScoreShown = false
		sess.Score = 0
		sess.ErrorCount = 0
		if err := s.sessions.SaveSession(ctx, learnerID, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return s.buildState(ctx, lesson, sess)
}

// Answer records one choice into the session's answer vector. Each slot is
// write-once: a second answer to the same quiz is rejected, never overwritten.
func (s *ProgressionService) Answer(ctx context.Context, learnerID, courseSlug, lessonSlug string, quizIndex, optionIndex int) (*model.LessonState, error) {
	lesson, err := s.catalog.GetLesson(ctx, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}
	sess, err := s.requireSession(ctx, learnerID, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}

	if quizIndex < 0 || quizIndex >= len(lesson.Quizzes) {
		return nil, ErrQuizIndexOutOfRange
	}
	if optionIndex < 0 || optionIndex >= len(lesson.Quizzes[quizIndex].Options) {
		return nil, ErrOptionIndexOutOfRange
	}
	if len(sess.Answers) != len(lesson.Quizzes) {
		// Lesson was re-authored under an open session: start over.
		sess.Answers = make([]*int, len(lesson.Quizzes))
		sess.ScoreShown = false
	}
	if sess.Answers[quizIndex] != nil {
		return nil, ErrQuizAlreadyAnswered
	}

	choice := optionIndex
	sess.Answers[quizIndex] = &choice
	if err := s.sessions.SaveSession(ctx, learnerID, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return s.buildState(ctx, lesson, sess)
}

// SubmitQuiz grades the session's answer vector, reveals the score, and
// overwrites the learner's durable record for this lesson. Errors count only
// answered-and-wrong slots, so a partial but flawless vector still celebrates.
func (s *ProgressionService) SubmitQuiz(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.SubmitResult, error) {
	lesson, err := s.catalog.GetLesson(ctx, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}
	if len(lesson.Quizzes) == 0 {
		return nil, ErrNoQuizzes
	}
	sess, err := s.requireSession(ctx, learnerID, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}

	total := len(lesson.Quizzes)
	score, errorCount := 0, 0
	for i, q := range lesson.Quizzes {
		if i >= len(sess.Answers) || sess.Answers[i] == nil {
			continue
		}
		if *sess.Answers[i] == q.CorrectOption {
			score++
		} else {
			errorCount++
		}
	}

	sess.ScoreShown = true
	sess.Score = score
	sess.ErrorCount = errorCount
	if err := s.sessions.SaveSession(ctx, learnerID, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	record := &model.LessonProgress{
		Score:          score,
		Total:          total,
		ErrorCount:     errorCount,
		Completed:      true,
		AnswersHistory: sess.Answers,
	}
	if err := s.store.Set(ctx, learnerID, courseSlug, lessonSlug, record); err != nil {
		return nil, fmt.Errorf("persist progress: %w", err)
	}

	s.dispatchSubmission(ctx, learnerID, courseSlug, lessonSlug, record)

	s.log.Info().
		Str("course", courseSlug).
		Str("lesson", lessonSlug).
		Int("score", score).
		Int("total", total).
		Msg("Quiz submitted")

	return &model.SubmitResult{
		Score:      score,
		Total:      total,
		ErrorCount: errorCount,
		Celebrate:  errorCount == 0,
		CanProceed: canProceed(lesson, sess),
	}, nil
}

// SubmitExercise runs the lesson's validator over the submitted code and, on
// success, marks the session's exercise flag. The flag is session-only: it
// gates progression now but is never part of the durable record.
func (s *ProgressionService) SubmitExercise(ctx context.Context, learnerID, courseSlug, lessonSlug, code string) (*model.ExerciseResult, error) {
	lesson, err := s.catalog.GetLesson(ctx, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}
	if lesson.Exercise == nil {
		return nil, ErrNoExercise
	}
	sess, err := s.requireSession(ctx, learnerID, courseSlug, lessonSlug)
	if err != nil {
		return nil, err
	}

	res := s.registry.Check(courseSlug, lessonSlug, code, lesson.Exercise.SolutionCode)
	if res.Success {
		sess.ExerciseDone = true
		if err := s.sessions.SaveSession(ctx, learnerID, sess); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	return &model.ExerciseResult{Success: res.Success, Message: res.Message}, nil
}

// CourseSummary aggregates the learner's durable records over every lesson of
// the course, in course order. Lessons without a record contribute nothing to
// the totals, so the percentage reflects only the lessons actually attempted.
func (s *ProgressionService) CourseSummary(ctx context.Context, learnerID, courseSlug string) (*model.CourseSummary, error) {
	payload, err := s.catalog.GetCoursePayload(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	summary := &model.CourseSummary{
		CourseSlug:   courseSlug,
		TotalLessons: len(payload.Lessons),
		Lessons:      make([]model.LessonScore, 0, len(payload.Lessons)),
	}

	for _, ls := range payload.Lessons {
		line := model.LessonScore{
			LessonSlug: ls.Slug,
			Title:      ls.Title,
		}

		rec, err := s.store.Get(ctx, learnerID, courseSlug, ls.Slug)
		if err != nil {
			return nil, fmt.Errorf("get progress: %w", err)
		}
		if rec != nil {
			line.Score = rec.Score
			line.Total = rec.Total
			line.ErrorCount = rec.ErrorCount
			line.Completed = rec.Completed
			summary.SumScore += rec.Score
			summary.SumErrors += rec.ErrorCount
			if rec.Completed {
				summary.LessonsCompleted++
			}
		}
		summary.SumTotal += line.Total
		summary.Lessons = append(summary.Lessons, line)
	}

	if summary.SumTotal > 0 {
		summary.Percent = float64(summary.SumScore) / float64(summary.SumTotal) * 100
	}
	// The full-course cue requires a literally perfect score, not just
	// completion of every lesson.
	summary.Celebrate = summary.SumTotal > 0 && summary.SumScore == summary.SumTotal

	return summary, nil
}

// ResetCourse wipes the learner's records and open sessions for a course and
// returns the slug of the first lesson, empty when the course has none.
func (s *ProgressionService) ResetCourse(ctx context.Context, learnerID, courseSlug string) (string, error) {
	payload, err := s.catalog.GetCoursePayload(ctx, courseSlug)
	if err != nil {
		return "", err
	}

	if err := s.store.DeleteAll(ctx, learnerID, courseSlug); err != nil {
		return "", fmt.Errorf("delete progress: %w", err)
	}
	if err := s.sessions.DeleteSessions(ctx, learnerID, courseSlug); err != nil {
		return "", fmt.Errorf("delete sessions: %w", err)
	}

	s.log.Info().Str("course", courseSlug).Msg("Course progress reset")

	if len(payload.Lessons) == 0 {
		return "", nil
	}
	return payload.Lessons[0].Slug, nil
}

func (s *ProgressionService) requireSession(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonSession, error) {
	sess, err := s.sessions.GetSession(ctx, learnerID, courseSlug, lessonSlug)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionMissing
	}
	return sess, nil
}

func (s *ProgressionService) buildState(ctx context.Context, lesson *model.Lesson, sess *model.LessonSession) (*model.LessonState, error) {
	state := &model.LessonState{
		CourseSlug:   sess.CourseSlug,
		LessonSlug:   sess.LessonSlug,
		Answers:      sess.Answers,
		Total:        len(lesson.Quizzes),
		ScoreShown:   sess.ScoreShown,
		Score:        sess.Score,
		ErrorCount:   sess.ErrorCount,
		HasExercise:  lesson.Exercise != nil,
		ExerciseDone: sess.ExerciseDone,
		CanProceed:   canProceed(lesson, sess),
	}

	payload, err := s.catalog.GetCoursePayload(ctx, sess.CourseSlug)
	if err != nil {
		return nil, err
	}
	for i, ls := range payload.Lessons {
		if ls.Slug != sess.LessonSlug {
			continue
		}
		if i+1 < len(payload.Lessons) {
			state.NextLesson = payload.Lessons[i+1].Slug
		} else {
			state.IsLast = true
		}
		break
	}
	return state, nil
}

// canProceed reports whether the learner may leave the lesson: every quiz slot
// must hold the correct answer, and a lesson with an exercise additionally
// requires a successful validation this session.
func canProceed(lesson *model.Lesson, sess *model.LessonSession) bool {
	for i, q := range lesson.Quizzes {
		if i >= len(sess.Answers) || sess.Answers[i] == nil || *sess.Answers[i] != q.CorrectOption {
			return false
		}
	}
	if lesson.Exercise != nil && !sess.ExerciseDone {
		return false
	}
	return true
}

// dispatchSubmission hands the submission to the async pipeline: a snapshot on
// the persistence queue and an event on the activity channel. Both are best
// effort; a Redis hiccup here never fails the submission.
func (s *ProgressionService) dispatchSubmission(ctx context.Context, learnerID, courseSlug, lessonSlug string, rec *model.LessonProgress) {
	if s.rdb == nil {
		return
	}

	snapshot := model.ProgressSnapshot{
		LearnerID:  learnerID,
		CourseSlug: courseSlug,
		LessonSlug: lessonSlug,
		Score:      rec.Score,
		Total:      rec.Total,
		ErrorCount: rec.ErrorCount,
		Completed:  rec.Completed,
	}
	if raw, err := json.Marshal(snapshot); err == nil {
		if err := s.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, raw).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to enqueue progress snapshot")
		}
	}

	event := model.ActivityEvent{
		LearnerID:  learnerID,
		CourseSlug: courseSlug,
		LessonSlug: lessonSlug,
		Score:      rec.Score,
		Total:      rec.Total,
		ErrorCount: rec.ErrorCount,
		At:         time.Now(),
	}
	if raw, err := json.Marshal(event); err == nil {
		if err := s.rdb.Publish(ctx, config.WorkerKey.ActivityChannel, raw).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to publish activity event")
		}
	}
}
