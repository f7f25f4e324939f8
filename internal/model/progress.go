package model

import "time"

// LessonProgress is the persisted summary of one learner's attempt at one
// lesson's quiz, keyed by (course slug, lesson slug). Written only on explicit
// quiz submission, overwriting any prior record.
type LessonProgress struct {
	Score          int    `json:"score"`
	Total          int    `json:"total"`
	ErrorCount     int    `json:"error_count"`
	Completed      bool   `json:"completed"`
	AnswersHistory []*int `json:"answers_history"`
}

// LessonSession is the transient per-lesson state of one learner: the answer
// vector plus the session-only exercise flag. It is never the durable record;
// submitting the quiz is what writes LessonProgress.
type LessonSession struct {
	CourseSlug   string `json:"course_slug"`
	LessonSlug   string `json:"lesson_slug"`
	Answers      []*int `json:"answers"`
	ExerciseDone bool   `json:"exercise_done"`
	ScoreShown   bool   `json:"score_shown"`
	Score        int    `json:"score"`
	ErrorCount   int    `json:"error_count"`
}

// AllAnswered reports whether every quiz slot holds an answer.
func (s *LessonSession) AllAnswered() bool {
	for _, a := range s.Answers {
		if a == nil {
			return false
		}
	}
	return true
}

// AnswerRequest records one learner choice. Pointers distinguish the zero
// index from an absent field.
type AnswerRequest struct {
	QuizIndex   *int `json:"quiz_index" binding:"required,min=0"`
	OptionIndex *int `json:"option_index" binding:"required,min=0"`
}

// SubmitExerciseRequest carries the learner's submitted code.
type SubmitExerciseRequest struct {
	Code string `json:"code" binding:"required,max=20000"`
}

// LessonState is the progression view returned to the lesson page.
type LessonState struct {
	CourseSlug   string `json:"course_slug"`
	LessonSlug   string `json:"lesson_slug"`
	Answers      []*int `json:"answers"`
	Total        int    `json:"total"`
	ScoreShown   bool   `json:"score_shown"`
	Score        int    `json:"score"`
	ErrorCount   int    `json:"error_count"`
	HasExercise  bool   `json:"has_exercise"`
	ExerciseDone bool   `json:"exercise_done"`
	CanProceed   bool   `json:"can_proceed"`
	// NextLesson is the slug of the following lesson in course order, empty
	// when this is the last lesson and the summary becomes available.
	NextLesson string `json:"next_lesson"`
	IsLast     bool   `json:"is_last"`
}

// SubmitResult is the outcome of a quiz submission.
type SubmitResult struct {
	Score      int  `json:"score"`
	Total      int  `json:"total"`
	ErrorCount int  `json:"error_count"`
	Celebrate  bool `json:"celebrate"`
	CanProceed bool `json:"can_proceed"`
}

// ExerciseResult is the outcome of an exercise validation.
type ExerciseResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// LessonScore is one lesson's line in a course summary.
type LessonScore struct {
	LessonSlug string `json:"lesson_slug"`
	Title      string `json:"title"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	ErrorCount int    `json:"error_count"`
	Completed  bool   `json:"completed"`
}

// CourseSummary aggregates a learner's progress over every lesson of a course.
type CourseSummary struct {
	CourseSlug       string        `json:"course_slug"`
	TotalLessons     int           `json:"total_lessons"`
	LessonsCompleted int           `json:"lessons_completed"`
	SumScore         int           `json:"sum_score"`
	SumTotal         int           `json:"sum_total"`
	SumErrors        int           `json:"sum_errors"`
	Percent          float64       `json:"percent"`
	Celebrate        bool          `json:"celebrate"`
	Lessons          []LessonScore `json:"lessons"`
}

// ProgressSnapshot is the queue payload the progress sync worker persists to
// PostgreSQL for back-office statistics.
type ProgressSnapshot struct {
	LearnerID  string `json:"learner_id"`
	CourseSlug string `json:"course_slug"`
	LessonSlug string `json:"lesson_slug"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	ErrorCount int    `json:"error_count"`
	Completed  bool   `json:"completed"`
}

// ActivityEvent is published on quiz submission for the admin activity feed.
type ActivityEvent struct {
	LearnerID  string    `json:"learner_id"`
	CourseSlug string    `json:"course_slug"`
	LessonSlug string    `json:"lesson_slug"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	ErrorCount int       `json:"error_count"`
	At         time.Time `json:"at"`
}
