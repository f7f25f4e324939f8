// Package progress defines the persistence ports for learner progress: the
// durable per-learner record store and the transient lesson session store.
// Both are keyed by (learner, course, lesson) and scoped to a single anonymous
// learner, so writes are last-writer-wins with no locking discipline.
package progress

import (
	"context"

	"github.com/luxilearn/luxilearn-backend/internal/model"
)

// Store persists lesson progress records. Get returns (nil, nil) when no
// record exists for the key. Records carry no expiry: they live until
// DeleteAll wipes the course or the backing store is cleared.
type Store interface {
	Get(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonProgress, error)
	Set(ctx context.Context, learnerID, courseSlug, lessonSlug string, rec *model.LessonProgress) error
	DeleteAll(ctx context.Context, learnerID, courseSlug string) error
}

// SessionStore holds open lesson sessions: the in-flight answer vector and the
// session-only exercise flag. GetSession returns (nil, nil) when absent.
type SessionStore interface {
	GetSession(ctx context.Context, learnerID, courseSlug, lessonSlug string) (*model.LessonSession, error)
	SaveSession(ctx context.Context, learnerID string, sess *model.LessonSession) error
	DeleteSessions(ctx context.Context, learnerID, courseSlug string) error
}
