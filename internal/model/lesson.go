package model

import (
	"time"

	"github.com/google/uuid"
)

// Lesson represents a lesson with its quizzes and optional exercise.
// Content is the raw markdown body, opaque to the backend.
type Lesson struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OrderNum  int       `json:"order_num"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Quizzes   []Quiz    `json:"quizzes"`
	Exercise  *Exercise `json:"exercise,omitempty"`
}

// Quiz represents a single multiple-choice question. Order matters: the
// question's position is the addressing key for answers.
type Quiz struct {
	ID            uuid.UUID `json:"id"`
	LessonID      uuid.UUID `json:"lesson_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`
	CorrectOption int       `json:"correct_option"`
	OrderNum      int       `json:"order_num"`
}

// Exercise represents a lesson's code exercise.
type Exercise struct {
	ID           uuid.UUID `json:"id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	Description  string    `json:"description"`
	StarterCode  string    `json:"starter_code"`
	SolutionCode string    `json:"solution_code"`
}

// QuizInput is one quiz inside a lesson authoring payload.
type QuizInput struct {
	Question      string   `json:"question" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,min=2,max=10,dive,required,max=500"`
	CorrectOption int      `json:"correct_option" binding:"min=0"`
	OrderNum      int      `json:"order_num" binding:"min=0"`
}

// ExerciseInput is the exercise part of a lesson authoring payload.
type ExerciseInput struct {
	Description  string `json:"description" binding:"required,min=1,max=2000"`
	StarterCode  string `json:"starter_code" binding:"omitempty,max=10000"`
	SolutionCode string `json:"solution_code" binding:"required,max=10000"`
}

// CreateLessonRequest is the payload for creating a lesson together with its
// nested quizzes and optional exercise.
type CreateLessonRequest struct {
	Slug     string         `json:"slug" binding:"required,min=2,max=100,lowercase"`
	Title    string         `json:"title" binding:"required,min=3,max=255"`
	Content  string         `json:"content" binding:"omitempty"`
	OrderNum int            `json:"order_num" binding:"min=0"`
	Quizzes  []QuizInput    `json:"quizzes" binding:"omitempty,dive"`
	Exercise *ExerciseInput `json:"exercise" binding:"omitempty"`
}

// UpdateLessonRequest is the payload for updating a lesson's own fields.
type UpdateLessonRequest struct {
	Title    string `json:"title" binding:"omitempty,min=3,max=255"`
	Content  string `json:"content" binding:"omitempty"`
	OrderNum *int   `json:"order_num" binding:"omitempty,min=0"`
}

// ReplaceQuizzesRequest is the payload for bulk replacing a lesson's quizzes.
type ReplaceQuizzesRequest struct {
	Quizzes []QuizInput `json:"quizzes" binding:"dive"`
}

// LessonPayload is the learner-facing lesson view: no correct answer indexes,
// no solution code. Grading stays server-side.
type LessonPayload struct {
	CourseSlug string              `json:"course_slug"`
	Slug       string              `json:"slug"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	OrderNum   int                 `json:"order_num"`
	Quizzes    []QuizForLearner    `json:"quizzes"`
	Exercise   *ExerciseForLearner `json:"exercise,omitempty"`
}

// QuizForLearner is a quiz stripped of its correct option.
type QuizForLearner struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	OrderNum int      `json:"order_num"`
}

// ExerciseForLearner is an exercise stripped of its solution code.
type ExerciseForLearner struct {
	Description string `json:"description"`
	StarterCode string `json:"starter_code"`
}
