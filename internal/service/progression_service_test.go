package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/luxilearn/luxilearn-backend/internal/exercise"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/progress"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves lessons straight from memory, standing in for the
// Redis-backed catalog.
type fakeCatalog struct {
	payloads map[string]*model.CoursePayload
	lessons  map[string]*model.Lesson
}

func (f *fakeCatalog) GetLesson(_ context.Context, courseSlug, lessonSlug string) (*model.Lesson, error) {
	lesson, ok := f.lessons[courseSlug+"/"+lessonSlug]
	if !ok {
		if _, courseOK := f.payloads[courseSlug]; !courseOK {
			return nil, ErrCourseNotFound
		}
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

func (f *fakeCatalog) GetCoursePayload(_ context.Context, courseSlug string) (*model.CoursePayload, error) {
	payload, ok := f.payloads[courseSlug]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return payload, nil
}

func quiz(question string, correct int, options ...string) model.Quiz {
	return model.Quiz{
		ID:            uuid.New(),
		Question:      question,
		Options:       options,
		CorrectOption: correct,
	}
}

// newFixture builds a two-lesson course: "intro" has two quizzes and an
// exercise, "suite" has one quiz and no exercise.
func newFixture(t *testing.T) (*ProgressionService, *progress.MemoryStore) {
	t.Helper()

	intro := &model.Lesson{
		ID:   uuid.New(),
		Slug: "intro",
		Quizzes: []model.Quiz{
			quiz("q1", 1, "a", "b", "c"),
			quiz("q2", 0, "x", "y"),
		},
		Exercise: &model.Exercise{
			ID:           uuid.New(),
			Description:  "write the solution",
			SolutionCode: "let x = 1;",
		},
	}
	suite := &model.Lesson{
		ID:      uuid.New(),
		Slug:    "suite",
		Quizzes: []model.Quiz{quiz("q3", 2, "a", "b", "c")},
	}

	catalog := &fakeCatalog{
		payloads: map[string]*model.CoursePayload{
			"go-bases": {
				Slug: "go-bases",
				Lessons: []model.LessonSummary{
					{Slug: "intro", Title: "Intro", OrderNum: 1, QuizCount: 2, HasExercise: true},
					{Slug: "suite", Title: "Suite", OrderNum: 2, QuizCount: 1},
				},
			},
		},
		lessons: map[string]*model.Lesson{
			"go-bases/intro": intro,
			"go-bases/suite": suite,
		},
	}

	store := progress.NewMemoryStore()
	registry := exercise.NewRegistry(zerolog.Nop())
	svc := NewProgressionService(catalog, store, store, registry, nil, zerolog.Nop())
	return svc, store
}

const learner = "8a37cf2e-8c34-4f62-9d0a-5a4f2da6e111"

func TestStartLessonFreshSession(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	state, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	assert.Equal(t, 2, state.Total)
	assert.Len(t, state.Answers, 2)
	assert.Nil(t, state.Answers[0])
	assert.Nil(t, state.Answers[1])
	assert.False(t, state.ScoreShown)
	assert.True(t, state.HasExercise)
	assert.False(t, state.CanProceed)
	assert.Equal(t, "suite", state.NextLesson)
	assert.False(t, state.IsLast)
}

func TestStartLessonLastLesson(t *testing.T) {
	svc, _ := newFixture(t)

	state, err := svc.StartLesson(context.Background(), learner, "go-bases", "suite")
	require.NoError(t, err)
	assert.True(t, state.IsLast)
	assert.Empty(t, state.NextLesson)
}

func TestStartLessonUnknownCourseOrLesson(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "nope", "intro")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.StartLesson(ctx, learner, "go-bases", "nope")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestAnswerRecordsChoice(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	state, err := svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)
	require.NotNil(t, state.Answers[0])
	assert.Equal(t, 1, *state.Answers[0])
	assert.Nil(t, state.Answers[1])
}

func TestAnswerSlotIsImmutable(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 2)
	assert.ErrorIs(t, err, ErrQuizAlreadyAnswered)

	// The first choice survives.
	state, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	require.NotNil(t, state.Answers[0])
	assert.Equal(t, 1, *state.Answers[0])
}

func TestAnswerBounds(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 5, 0)
	assert.ErrorIs(t, err, ErrQuizIndexOutOfRange)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", -1, 0)
	assert.ErrorIs(t, err, ErrQuizIndexOutOfRange)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 9)
	assert.ErrorIs(t, err, ErrOptionIndexOutOfRange)
}

func TestAnswerWithoutSession(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.Answer(context.Background(), learner, "go-bases", "intro", 0, 0)
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestSubmitQuizScoresAndPersists(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1) // correct
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 1, 1) // wrong (correct is 0)
	require.NoError(t, err)

	result, err := svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.ErrorCount)
	assert.False(t, result.Celebrate)
	assert.False(t, result.CanProceed) // exercise still pending

	rec, err := store.Get(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Score)
	assert.True(t, rec.Completed)
	require.Len(t, rec.AnswersHistory, 2)
	assert.Equal(t, 1, *rec.AnswersHistory[0])
}

func TestSubmitQuizPerfectScoreCelebrates(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)

	result, err := svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Zero(t, result.ErrorCount)
	assert.True(t, result.Celebrate)
	assert.True(t, result.CanProceed) // no exercise on this lesson
}

func TestSubmitQuizPartialVectorIsNotAnError(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)

	// Only answered-and-wrong slots count as errors; the empty slot stays
	// neutral, so this partial run still celebrates.
	result, err := svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Zero(t, result.ErrorCount)
	assert.True(t, result.Celebrate)
	assert.False(t, result.CanProceed) // q2 unanswered

	rec, err := store.Get(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.True(t, rec.Completed)
}

func TestResubmissionOverwritesRecord(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1) // correct
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	// Filling the remaining slot and resubmitting replaces the record.
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 1, 1) // wrong
	require.NoError(t, err)
	result, err := svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.ErrorCount)
	assert.False(t, result.Celebrate)

	rec, err := store.Get(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Score)
	assert.Equal(t, 1, rec.ErrorCount)
	require.Len(t, rec.AnswersHistory, 2)
	require.NotNil(t, rec.AnswersHistory[1])
	assert.Equal(t, 1, *rec.AnswersHistory[1])
}

func TestStartLessonRestoresFromRecord(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	// Simulate a reload: the session is gone, the record survives and the
	// next visit rebuilds the session from it.
	require.NoError(t, store.DeleteSessions(ctx, learner, "go-bases"))

	state, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	require.Len(t, state.Answers, 1)
	require.NotNil(t, state.Answers[0])
	assert.Equal(t, 2, *state.Answers[0])
	assert.True(t, state.ScoreShown)
	assert.Equal(t, 1, state.Score)
	assert.Zero(t, state.ErrorCount)
	assert.True(t, state.CanProceed)
}

func TestSubmitExerciseGatesProgression(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 1, 0)
	require.NoError(t, err)

	result, err := svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.True(t, result.Celebrate)
	assert.False(t, result.CanProceed)

	// Wrong code: validation fails, gate stays closed.
	exRes, err := svc.SubmitExercise(ctx, learner, "go-bases", "intro", "nope")
	require.NoError(t, err)
	assert.False(t, exRes.Success)
	assert.NotEmpty(t, exRes.Message)

	state, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.False(t, state.CanProceed)

	// Whitespace and casing are tolerated by the fallback comparison.
	exRes, err = svc.SubmitExercise(ctx, learner, "go-bases", "intro", "LET  x  =  1;")
	require.NoError(t, err)
	assert.True(t, exRes.Success)

	state, err = svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	assert.True(t, state.ExerciseDone)
	assert.True(t, state.CanProceed)
}

func TestSubmitExerciseOnLessonWithoutExercise(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	_, err = svc.SubmitExercise(ctx, learner, "go-bases", "suite", "code")
	assert.ErrorIs(t, err, ErrNoExercise)
}

func TestCourseSummaryAggregates(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	// Complete intro with one error, suite perfectly.
	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 1, 1)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	_, err = svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	summary, err := svc.CourseSummary(ctx, learner, "go-bases")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalLessons)
	assert.Equal(t, 2, summary.LessonsCompleted)
	assert.Equal(t, 2, summary.SumScore)
	assert.Equal(t, 3, summary.SumTotal)
	assert.Equal(t, 1, summary.SumErrors)
	assert.InDelta(t, 66.67, summary.Percent, 0.01)
	assert.False(t, summary.Celebrate)
	require.Len(t, summary.Lessons, 2)
	assert.Equal(t, "intro", summary.Lessons[0].LessonSlug)
	assert.Equal(t, 1, summary.Lessons[0].Score)
}

func TestCourseSummaryNoProgress(t *testing.T) {
	svc, _ := newFixture(t)

	summary, err := svc.CourseSummary(context.Background(), learner, "go-bases")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalLessons)
	assert.Zero(t, summary.LessonsCompleted)
	assert.Zero(t, summary.SumScore)
	assert.Zero(t, summary.SumTotal) // untouched lessons contribute nothing
	assert.Zero(t, summary.Percent)
	assert.False(t, summary.Celebrate)
}

func TestCourseSummaryCountsOnlyAttemptedLessons(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	// Ace "suite", never touch "intro": the percentage must reflect the
	// attempted lesson alone, not the whole course's quiz count.
	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	summary, err := svc.CourseSummary(ctx, learner, "go-bases")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SumScore)
	assert.Equal(t, 1, summary.SumTotal)
	assert.Equal(t, float64(100), summary.Percent)
	assert.True(t, summary.Celebrate)
	assert.Equal(t, 1, summary.LessonsCompleted)
	assert.Equal(t, 2, summary.TotalLessons)

	require.Len(t, summary.Lessons, 2)
	assert.Zero(t, summary.Lessons[0].Total) // intro has no record
	assert.Equal(t, 1, summary.Lessons[1].Total)
}

func TestCourseSummaryPerfectRunCelebrates(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 0, 1)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "intro", 1, 0)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "intro")
	require.NoError(t, err)

	_, err = svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	summary, err := svc.CourseSummary(ctx, learner, "go-bases")
	require.NoError(t, err)
	assert.Equal(t, float64(100), summary.Percent)
	assert.True(t, summary.Celebrate)
}

func TestResetCourse(t *testing.T) {
	svc, store := newFixture(t)
	ctx := context.Background()

	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	first, err := svc.ResetCourse(ctx, learner, "go-bases")
	require.NoError(t, err)
	assert.Equal(t, "intro", first)

	rec, err := store.Get(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Sessions are gone too: answering requires a fresh start.
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 0)
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestLearnersAreIsolated(t *testing.T) {
	svc, _ := newFixture(t)
	ctx := context.Background()
	other := "0b51dc9a-11f0-4f5c-9a2e-77f10c3b4d02"

	_, err := svc.StartLesson(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)
	_, err = svc.Answer(ctx, learner, "go-bases", "suite", 0, 2)
	require.NoError(t, err)
	_, err = svc.SubmitQuiz(ctx, learner, "go-bases", "suite")
	require.NoError(t, err)

	summary, err := svc.CourseSummary(ctx, other, "go-bases")
	require.NoError(t, err)
	assert.Zero(t, summary.SumScore)
	assert.Zero(t, summary.LessonsCompleted)
}
