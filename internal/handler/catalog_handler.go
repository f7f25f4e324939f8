package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luxilearn/luxilearn-backend/internal/response"
	"github.com/luxilearn/luxilearn-backend/internal/service"
)

// CatalogHandler serves the public course catalog to learners.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCourses godoc
// GET /api/v1/courses
// Returns every published course with its lesson list.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogService.ListPublishedCourses(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/courses/:courseSlug
// Returns one published course payload.
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	payload, err := h.catalogService.GetCoursePayload(c.Request.Context(), c.Param("courseSlug"))
	if err != nil {
		failCatalog(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": payload})
}

// GetLesson godoc
// GET /api/v1/courses/:courseSlug/lessons/:lessonSlug
// Returns one lesson payload, correct answers and solution stripped.
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	payload, err := h.catalogService.GetLessonPayload(
		c.Request.Context(), c.Param("courseSlug"), c.Param("lessonSlug"))
	if err != nil {
		failCatalog(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"lesson": payload})
}

// failCatalog maps catalog lookup errors onto the response envelope.
func failCatalog(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrLessonNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCourseNotPublished):
		response.Fail(c, http.StatusNotFound, response.ErrCourseNotPublished)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
