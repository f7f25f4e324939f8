package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// LearnerCookieName is the cookie that carries the anonymous learner id.
	LearnerCookieName = "luxilearn_lid"

	// ContextKeyLearnerID is the Gin context key for the learner id.
	ContextKeyLearnerID = "learner_id"
)

// LearnerIdentity assigns every visitor a stable anonymous UUID via a
// long-lived cookie. No account, no PII: the id only scopes progress. A
// missing or malformed cookie gets a fresh id, which effectively resets
// progress from this browser's point of view.
func LearnerIdentity(maxAgeSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		learnerID := ""

		if raw, err := c.Cookie(LearnerCookieName); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				learnerID = id.String()
			}
		}

		if learnerID == "" {
			learnerID = uuid.New().String()
		}

		// Refresh the cookie on every request to keep it rolling.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(LearnerCookieName, learnerID, maxAgeSeconds, "/", "", false, true)

		c.Set(ContextKeyLearnerID, learnerID)
		c.Next()
	}
}

// GetLearnerID retrieves the learner id from the Gin context.
func GetLearnerID(c *gin.Context) string {
	return c.GetString(ContextKeyLearnerID)
}
