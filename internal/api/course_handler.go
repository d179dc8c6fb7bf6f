package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"commonroom-backend-go/internal/core"
	"commonroom-backend-go/internal/models"
)

// CourseHandler handles course, section and lesson API endpoints.
type CourseHandler struct {
	courseService core.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(cs core.CourseService) *CourseHandler {
	return &CourseHandler{courseService: cs}
}

// mapCourseErrorToStatus maps errors from core.CourseService to HTTP status
// codes and ErrorResponse.
func mapCourseErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrPlatformNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPlatformNotFound.Error()}
	case errors.Is(err, core.ErrCourseNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrCourseNotFound.Error()}
	case errors.Is(err, core.ErrSectionNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrSectionNotFound.Error()}
	case errors.Is(err, core.ErrLessonNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrLessonNotFound.Error()}
	case errors.Is(err, core.ErrLessonLocked):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrLessonLocked.Error()}
	case errors.Is(err, core.ErrInvalidLessonType):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: core.ErrInvalidLessonType.Error()}
	case errors.Is(err, core.ErrForbidden):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbidden.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// CreateCourse handles POST /platforms/:platformId/communities/:communityId/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	course, err := h.courseService.CreateCourse(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId"), req)
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// GetCourse handles GET /platforms/:platformId/communities/:communityId/courses/:courseId
func (h *CourseHandler) GetCourse(c *gin.Context) {
	course, err := h.courseService.GetCourse(
		c.Request.Context(), c.Param("platformId"), c.Param("communityId"), c.Param("courseId"))
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ListCourses handles GET /platforms/:platformId/communities/:communityId/courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses(
		c.Request.Context(), c.Param("platformId"), c.Param("communityId"))
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// DeleteCourse handles DELETE /platforms/:platformId/communities/:communityId/courses/:courseId
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.courseService.DeleteCourse(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId"), c.Param("courseId")); err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// CreateSection handles POST .../courses/:courseId/sections
func (h *CourseHandler) CreateSection(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	section, err := h.courseService.CreateSection(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId"), c.Param("courseId"), req)
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// ListSections handles GET .../courses/:courseId/sections
func (h *CourseHandler) ListSections(c *gin.Context) {
	sections, err := h.courseService.ListSections(
		c.Request.Context(), c.Param("platformId"), c.Param("communityId"), c.Param("courseId"))
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

// CreateLesson handles POST .../sections/:sectionId/lessons
func (h *CourseHandler) CreateLesson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	lesson, err := h.courseService.CreateLesson(
		c.Request.Context(), userID, c.Param("platformId"), c.Param("communityId"),
		c.Param("courseId"), c.Param("sectionId"), req)
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// ListLessons handles GET .../sections/:sectionId/lessons
func (h *CourseHandler) ListLessons(c *gin.Context) {
	lessons, err := h.courseService.ListLessons(
		c.Request.Context(), c.Param("platformId"), c.Param("communityId"),
		c.Param("courseId"), c.Param("sectionId"))
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GetLessonContent handles GET .../sections/:sectionId/lessons/:lessonId
func (h *CourseHandler) GetLessonContent(c *gin.Context) {
	content, err := h.courseService.GetLessonContent(
		c.Request.Context(), currentUserID(c), c.Param("platformId"), c.Param("communityId"),
		c.Param("courseId"), c.Param("sectionId"), c.Param("lessonId"))
	if err != nil {
		mapCourseErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
