package progress

import (
	"context"
	"sync"

	"github.com/luxilearn/luxilearn-backend/internal/model"
)

// MemoryStore is an in-process Store/SessionStore used by tests and local
// development without Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]map[string]model.LessonProgress // learner|course -> lesson -> record
	sessions map[string]model.LessonSession             // learner|course|lesson -> session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:  make(map[string]map[string]model.LessonProgress),
		sessions: make(map[string]model.LessonSession),
	}
}

func courseKey(learnerID, courseSlug string) string {
	return learnerID + "|" + courseSlug
}

func sessionKey(learnerID, courseSlug, lessonSlug string) string {
	return learnerID + "|" + courseSlug + "|" + lessonSlug
}

// cloneAnswers deep-copies an answer vector so callers never alias stored
// state, matching the serialization round-trip of the Redis store.
func cloneAnswers(in []*int) []*int {
	if in == nil {
		return nil
	}
	out := make([]*int, len(in))
	for i, a := range in {
		if a != nil {
			v := *a
			out[i] = &v
		}
	}
	return out
}

func (s *MemoryStore) Get(_ context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lessons, ok := s.records[courseKey(learnerID, courseSlug)]
	if !ok {
		return nil, nil
	}
	rec, ok := lessons[lessonSlug]
	if !ok {
		return nil, nil
	}
	rec.AnswersHistory = cloneAnswers(rec.AnswersHistory)
	return &rec, nil
}

func (s *MemoryStore) Set(_ context.Context, learnerID, courseSlug, lessonSlug string, rec *model.LessonProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := courseKey(learnerID, courseSlug)
	if s.records[key] == nil {
		s.records[key] = make(map[string]model.LessonProgress)
	}
	stored := *rec
	stored.AnswersHistory = cloneAnswers(rec.AnswersHistory)
	s.records[key][lessonSlug] = stored
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context, learnerID, courseSlug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, courseKey(learnerID, courseSlug))
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionKey(learnerID, courseSlug, lessonSlug)]
	if !ok {
		return nil, nil
	}
	sess.Answers = cloneAnswers(sess.Answers)
	return &sess, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, learnerID string, sess *model.LessonSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *sess
	stored.Answers = cloneAnswers(sess.Answers)
	s.sessions[sessionKey(learnerID, sess.CourseSlug, sess.LessonSlug)] = stored
	return nil
}

func (s *MemoryStore) DeleteSessions(_ context.Context, learnerID, courseSlug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := learnerID + "|" + courseSlug + "|"
	for key := range s.sessions {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.sessions, key)
		}
	}
	return nil
}
