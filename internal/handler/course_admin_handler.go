package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luxilearn/luxilearn-backend/internal/model"
	"github.com/luxilearn/luxilearn-backend/internal/response"
	"github.com/luxilearn/luxilearn-backend/internal/service"
	"github.com/luxilearn/luxilearn-backend/internal/validator"
)

// CourseAdminHandler exposes the authoring CRUD to the back office.
type CourseAdminHandler struct {
	courseService *service.CourseService
}

// NewCourseAdminHandler creates a new CourseAdminHandler.
func NewCourseAdminHandler(courseService *service.CourseService) *CourseAdminHandler {
	return &CourseAdminHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/admin/courses
// Lists courses in any status, paginated.
func (h *CourseAdminHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	courses, total, err := h.courseService.ListCourses(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"courses": courses}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GetCourse godoc
// GET /api/v1/admin/courses/:id
func (h *CourseAdminHandler) GetCourse(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// CreateCourse godoc
// POST /api/v1/admin/courses
// Creates a new draft course.
func (h *CourseAdminHandler) CreateCourse(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// UpdateCourse godoc
// PUT /api/v1/admin/courses/:id
func (h *CourseAdminHandler) UpdateCourse(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), id, &req)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// PublishCourse godoc
// POST /api/v1/admin/courses/:id/publish
func (h *CourseAdminHandler) PublishCourse(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.PublishCourse(c.Request.Context(), id)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// ArchiveCourse godoc
// POST /api/v1/admin/courses/:id/archive
func (h *CourseAdminHandler) ArchiveCourse(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	course, err := h.courseService.ArchiveCourse(c.Request.Context(), id)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:id
func (h *CourseAdminHandler) DeleteCourse(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ListLessons godoc
// GET /api/v1/admin/courses/:id/lessons
func (h *CourseAdminHandler) ListLessons(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	lessons, err := h.courseService.ListLessons(c.Request.Context(), id)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lessons": lessons})
}

// GetLesson godoc
// GET /api/v1/admin/courses/:id/lessons/:lessonSlug
// Returns the lesson with answers and solution intact.
func (h *CourseAdminHandler) GetLesson(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	lesson, err := h.courseService.GetLessonAdmin(c.Request.Context(), id, c.Param("lessonSlug"))
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

// CreateLesson godoc
// POST /api/v1/admin/courses/:id/lessons
// Creates a lesson with nested quizzes and optional exercise.
func (h *CourseAdminHandler) CreateLesson(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req model.CreateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	lesson, err := h.courseService.CreateLesson(c.Request.Context(), id, &req)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"lesson": lesson})
}

// UpdateLesson godoc
// PUT /api/v1/admin/courses/:id/lessons/:lessonSlug
func (h *CourseAdminHandler) UpdateLesson(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req model.UpdateLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	lesson, err := h.courseService.UpdateLesson(c.Request.Context(), id, c.Param("lessonSlug"), &req)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

// DeleteLesson godoc
// DELETE /api/v1/admin/courses/:id/lessons/:lessonSlug
func (h *CourseAdminHandler) DeleteLesson(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	if err := h.courseService.DeleteLesson(c.Request.Context(), id, c.Param("lessonSlug")); err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ReplaceQuizzes godoc
// PUT /api/v1/admin/courses/:id/lessons/:lessonSlug/quizzes
// Replaces the lesson's full quiz set.
func (h *CourseAdminHandler) ReplaceQuizzes(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req model.ReplaceQuizzesRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	lesson, err := h.courseService.ReplaceQuizzes(c.Request.Context(), id, c.Param("lessonSlug"), req.Quizzes)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": lesson})
}

// UpsertExercise godoc
// PUT /api/v1/admin/courses/:id/lessons/:lessonSlug/exercise
func (h *CourseAdminHandler) UpsertExercise(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	var req model.ExerciseInput
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, fields)
		return
	}

	exercise, err := h.courseService.UpsertExercise(c.Request.Context(), id, c.Param("lessonSlug"), &req)
	if err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exercise": exercise})
}

// DeleteExercise godoc
// DELETE /api/v1/admin/courses/:id/lessons/:lessonSlug/exercise
func (h *CourseAdminHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseCourseID(c)
	if !ok {
		return
	}

	if err := h.courseService.DeleteExercise(c.Request.Context(), id, c.Param("lessonSlug")); err != nil {
		failAuthoring(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

func parseCourseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failAuthoring maps authoring errors onto the response envelope.
func failAuthoring(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrLessonNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrSlugTaken):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrCourseNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrCourseNotDraft)
	case errors.Is(err, service.ErrInvalidCorrectOption):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidCorrectOption)
	case errors.Is(err, service.ErrLessonHasNoExercise):
		response.Fail(c, http.StatusNotFound, response.ErrNoExercise)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
