package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luxilearn/luxilearn-backend/internal/middleware"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/response"
	"github.com/luxilearn/luxilearn-backend/internal/service"
	"github.com/luxilearn/luxilearn-backend/internal/validator"
)

// LearnHandler drives the learner progression flow: sessions, answers,
// submissions, summaries. Every route is scoped by the anonymous learner
// cookie, never by an account.
type LearnHandler struct {
	progressionService *service.ProgressionService
}

// NewLearnHandler creates a new LearnHandler.
func NewLearnHandler(progressionService *service.ProgressionService) *LearnHandler {
	return &LearnHandler{progressionService: progressionService}
}

// StartLesson godoc
// POST /api/v1/learn/:courseSlug/lessons/:lessonSlug/start
// Opens or resumes a lesson session and returns the progression state.
func (h *LearnHandler) StartLesson(c *gin.Context) {
	state, err := h.progressionService.StartLesson(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
		c.Param("lessonSlug"),
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Answer godoc
// POST /api/v1/learn/:courseSlug/lessons/:lessonSlug/answer
// Records one answer. Answered slots are immutable.
func (h *LearnHandler) Answer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	state, err := h.progressionService.Answer(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
		c.Param("lessonSlug"),
		*req.QuizIndex,
		*req.OptionIndex,
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// SubmitQuiz godoc
// POST /api/v1/learn/:courseSlug/lessons/:lessonSlug/submit
// Grades the answer vector, reveals the score and persists the record.
func (h *LearnHandler) SubmitQuiz(c *gin.Context) {
	result, err := h.progressionService.SubmitQuiz(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
		c.Param("lessonSlug"),
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// SubmitExercise godoc
// POST /api/v1/learn/:courseSlug/lessons/:lessonSlug/exercise
// Validates submitted code against the lesson's exercise.
func (h *LearnHandler) SubmitExercise(c *gin.Context) {
	var req model.SubmitExerciseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	result, err := h.progressionService.SubmitExercise(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
		c.Param("lessonSlug"),
		req.Code,
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetSummary godoc
// GET /api/v1/learn/:courseSlug/summary
// Aggregates the learner's progress over the whole course.
func (h *LearnHandler) GetSummary(c *gin.Context) {
	summary, err := h.progressionService.CourseSummary(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// ResetCourse godoc
// POST /api/v1/learn/:courseSlug/reset
// Wipes the learner's progress for the course and points at the first lesson.
func (h *LearnHandler) ResetCourse(c *gin.Context) {
	firstLesson, err := h.progressionService.ResetCourse(
		c.Request.Context(),
		middleware.GetLearnerID(c),
		c.Param("courseSlug"),
	)
	if err != nil {
		failProgression(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"first_lesson": firstLesson})
}

// failProgression maps progression errors onto the response envelope.
func failProgression(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrLessonNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCourseNotPublished):
		response.Fail(c, http.StatusNotFound, response.ErrCourseNotPublished)
	case errors.Is(err, service.ErrQuizIndexOutOfRange), errors.Is(err, service.ErrOptionIndexOutOfRange):
		response.Fail(c, http.StatusBadRequest, response.ErrQuizIndexOutOfRange)
	case errors.Is(err, service.ErrQuizAlreadyAnswered):
		response.Fail(c, http.StatusConflict, response.ErrQuizAlreadyAnswered)
	case errors.Is(err, service.ErrSessionMissing):
		response.Fail(c, http.StatusNotFound, response.ErrLessonSessionMissing)
	case errors.Is(err, service.ErrNoQuizzes):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuizzes)
	case errors.Is(err, service.ErrNoExercise):
		response.Fail(c, http.StatusBadRequest, response.ErrNoExercise)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
