package progress

import (
	"context"
	"testing"

	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestMemoryStoreGetAbsent(t *testing.T) {
	s := NewMemoryStore()

	rec, err := s.Get(context.Background(), "learner", "course", "lesson")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStoreSetGetOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &model.LessonProgress{Score: 1, Total: 3, ErrorCount: 2, AnswersHistory: []*int{intPtr(0), nil, intPtr(2)}}
	require.NoError(t, s.Set(ctx, "learner", "course", "lesson", first))

	got, err := s.Get(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Score)
	assert.Nil(t, got.AnswersHistory[1])

	// Overwrite wins unconditionally, even with a worse score.
	second := &model.LessonProgress{Score: 0, Total: 3, ErrorCount: 3, Completed: false}
	require.NoError(t, s.Set(ctx, "learner", "course", "lesson", second))

	got, err = s.Get(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, 3, got.ErrorCount)
}

func TestMemoryStoreGetDoesNotAliasStoredState(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := &model.LessonProgress{Total: 1, AnswersHistory: []*int{intPtr(1)}}
	require.NoError(t, s.Set(ctx, "learner", "course", "lesson", rec))

	got, err := s.Get(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	*got.AnswersHistory[0] = 99

	again, err := s.Get(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	assert.Equal(t, 1, *again.AnswersHistory[0])
}

func TestMemoryStoreDeleteAllIsCourseScoped(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "learner", "course-a", "lesson", &model.LessonProgress{Score: 1}))
	require.NoError(t, s.Set(ctx, "learner", "course-b", "lesson", &model.LessonProgress{Score: 2}))
	require.NoError(t, s.Set(ctx, "other", "course-a", "lesson", &model.LessonProgress{Score: 3}))

	require.NoError(t, s.DeleteAll(ctx, "learner", "course-a"))

	rec, err := s.Get(ctx, "learner", "course-a", "lesson")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.Get(ctx, "learner", "course-b", "lesson")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Score)

	rec, err = s.Get(ctx, "other", "course-a", "lesson")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Score)
}

func TestMemoryStoreSessions(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess, err := s.GetSession(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	assert.Nil(t, sess)

	saved := &model.LessonSession{
		CourseSlug: "course",
		LessonSlug: "lesson",
		Answers:    []*int{intPtr(0), nil},
	}
	require.NoError(t, s.SaveSession(ctx, "learner", saved))

	sess, err = s.GetSession(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.False(t, sess.AllAnswered())

	sess.Answers[1] = intPtr(1)
	require.NoError(t, s.SaveSession(ctx, "learner", sess))

	sess, err = s.GetSession(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	assert.True(t, sess.AllAnswered())

	require.NoError(t, s.DeleteSessions(ctx, "learner", "course"))

	sess, err = s.GetSession(ctx, "learner", "course", "lesson")
	require.NoError(t, err)
	assert.Nil(t, sess)
}
