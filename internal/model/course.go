package model

import (
	"time"

	"github.com/google/uuid"
)

// CourseStatus enumerates the possible states of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
	CourseStatusArchived  CourseStatus = "ARCHIVED"
)

// Course represents a course entity.
type Course struct {
	ID          uuid.UUID    `json:"id"`
	Slug        string       `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Level       string       `json:"level"`
	Status      CourseStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a new course.
type CreateCourseRequest struct {
	Slug        string `json:"slug" binding:"required,min=2,max=100,lowercase"`
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Level       string `json:"level" binding:"omitempty,oneof=debutant intermediaire avance"`
}

// UpdateCourseRequest is the payload for updating an existing course.
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	Level       string `json:"level" binding:"omitempty,oneof=debutant intermediaire avance"`
}

// CoursePayload is the Redis-cached course view sent to learners.
type CoursePayload struct {
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       string          `json:"level"`
	Lessons     []LessonSummary `json:"lessons"`
}

// LessonSummary is a lesson entry inside a course payload, in course order.
type LessonSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	OrderNum    int    `json:"order_num"`
	QuizCount   int    `json:"quiz_count"`
	HasExercise bool   `json:"has_exercise"`
}
