package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commonroom-backend-go/internal/db"
	"commonroom-backend-go/internal/models"
	"commonroom-backend-go/internal/storage"
	"commonroom-backend-go/pkg/cache"
)

// Custom errors for the CourseService.
var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrSectionNotFound   = errors.New("section not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrLessonLocked      = errors.New("lesson content is locked for this viewer")
	ErrInvalidLessonType = errors.New("invalid lesson type")
)

// VideoSigner issues time-limited URLs for stored video objects.
// storage.Service implements it.
type VideoSigner interface {
	SignedURL(path string) (string, error)
	TTL() time.Duration
}

// courseService implements the CourseService interface.
type courseService struct {
	platformRepo db.PlatformRepository
	memberRepo   db.MemberRepository
	courseRepo   db.CourseRepository
	signer       VideoSigner
	urlCache     cache.Cache
	auditService AuditService
}

// NewCourseService creates a new CourseService instance.
func NewCourseService(pr db.PlatformRepository, mr db.MemberRepository, cr db.CourseRepository, signer VideoSigner, urlCache cache.Cache, as AuditService) CourseService {
	if urlCache == nil {
		urlCache = cache.Noop{}
	}
	return &courseService{
		platformRepo: pr,
		memberRepo:   mr,
		courseRepo:   cr,
		signer:       signer,
		urlCache:     urlCache,
		auditService: as,
	}
}

// requireOwner resolves the viewer's role and rejects non-owners.
func (s *courseService) requireOwner(ctx context.Context, platformID, userID string) error {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return fmt.Errorf("%w: user '%s' is not owner of platform '%s'", ErrForbidden, userID, platformID)
	}
	return nil
}

// CreateCourse creates a course under a community; owner only.
func (s *courseService) CreateCourse(ctx context.Context, userID, platformID, communityID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.requireOwner(ctx, platformID, userID); err != nil {
		return nil, err
	}

	course := &models.Course{
		CommunityID: communityID,
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	courseID, err := s.courseRepo.CreateCourse(ctx, platformID, communityID, course)
	if err != nil {
		return nil, fmt.Errorf("failed to create course in repository: %w", err)
	}
	course.ID = courseID

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "COURSE_CREATE",
		TargetType: "COURSE",
		TargetID:   courseID,
		Timestamp:  time.Now().UTC(),
		Details: map[string]interface{}{
			"platformId":  platformID,
			"communityId": communityID,
			"name":        course.Name,
		},
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for COURSE_CREATE (courseID: %s): %v\n", courseID, auditErr)
	}

	return course, nil
}

// GetCourse retrieves a course. The structure (names, ordering) is browsable
// by anyone; content gating happens per lesson.
func (s *courseService) GetCourse(ctx context.Context, platformID, communityID, courseID string) (*models.Course, error) {
	course, err := s.courseRepo.GetCourse(ctx, platformID, communityID, courseID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: course with ID '%s'", ErrCourseNotFound, courseID)
		}
		return nil, fmt.Errorf("failed to get course '%s': %w", courseID, err)
	}
	return course, nil
}

// ListCourses lists a community's courses in display order.
func (s *courseService) ListCourses(ctx context.Context, platformID, communityID string) ([]*models.Course, error) {
	courses, err := s.courseRepo.ListCourses(ctx, platformID, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses of community '%s': %w", communityID, err)
	}
	return courses, nil
}

// DeleteCourse deletes a course; owner only.
func (s *courseService) DeleteCourse(ctx context.Context, userID, platformID, communityID, courseID string) error {
	if err := s.requireOwner(ctx, platformID, userID); err != nil {
		return err
	}

	if err := s.courseRepo.DeleteCourse(ctx, platformID, communityID, courseID); err != nil {
		return fmt.Errorf("failed to delete course '%s': %w", courseID, err)
	}

	auditLogEntry := models.AuditLog{
		UserID:     userID,
		Action:     "COURSE_DELETE",
		TargetType: "COURSE",
		TargetID:   courseID,
		Timestamp:  time.Now().UTC(),
	}
	if auditErr := s.auditService.CreateAuditLog(ctx, auditLogEntry); auditErr != nil {
		fmt.Printf("Warning: failed to create audit log for COURSE_DELETE (courseID: %s): %v\n", courseID, auditErr)
	}

	return nil
}

// CreateSection creates a section under a course; owner only.
func (s *courseService) CreateSection(ctx context.Context, userID, platformID, communityID, courseID string, req models.CreateSectionRequest) (*models.Section, error) {
	if err := s.requireOwner(ctx, platformID, userID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID:    courseID,
		Name:        req.Name,
		FreePreview: req.FreePreview,
		Order:       req.Order,
		CreatedAt:   time.Now().UTC(),
	}

	sectionID, err := s.courseRepo.CreateSection(ctx, platformID, communityID, courseID, section)
	if err != nil {
		return nil, fmt.Errorf("failed to create section in repository: %w", err)
	}
	section.ID = sectionID

	return section, nil
}

// ListSections lists a course's sections in display order.
func (s *courseService) ListSections(ctx context.Context, platformID, communityID, courseID string) ([]*models.Section, error) {
	sections, err := s.courseRepo.ListSections(ctx, platformID, communityID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections of course '%s': %w", courseID, err)
	}
	return sections, nil
}

// CreateLesson creates a lesson under a section; owner only.
func (s *courseService) CreateLesson(ctx context.Context, userID, platformID, communityID, courseID, sectionID string, req models.CreateLessonRequest) (*models.Lesson, error) {
	if err := s.requireOwner(ctx, platformID, userID); err != nil {
		return nil, err
	}

	switch req.Type {
	case models.LessonTypeVideo, models.LessonTypeArticle, models.LessonTypeQuiz:
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidLessonType, req.Type)
	}

	lesson := &models.Lesson{
		SectionID:   sectionID,
		Name:        req.Name,
		Type:        req.Type,
		Body:        req.Body,
		VideoPath:   req.VideoPath,
		FreePreview: req.FreePreview,
		Order:       req.Order,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	lessonID, err := s.courseRepo.CreateLesson(ctx, platformID, communityID, courseID, sectionID, lesson)
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson in repository: %w", err)
	}
	lesson.ID = lessonID

	return lesson, nil
}

// ListLessons lists a section's lessons in display order. Listing exposes
// names and preview flags only at the handler's discretion; content is gated
// by GetLessonContent.
func (s *courseService) ListLessons(ctx context.Context, platformID, communityID, courseID, sectionID string) ([]*models.Lesson, error) {
	lessons, err := s.courseRepo.ListLessons(ctx, platformID, communityID, courseID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons of section '%s': %w", sectionID, err)
	}
	return lessons, nil
}

// GetLessonContent applies the lesson gate: owners and members always pass,
// anonymous viewers only when the lesson or its whole section is marked free
// preview. Video lessons get a signed delivery URL, cached for the signing
// TTL.
func (s *courseService) GetLessonContent(ctx context.Context, userID, platformID, communityID, courseID, sectionID, lessonID string) (*LessonContent, error) {
	_, _, role, err := resolveRole(ctx, s.platformRepo, s.memberRepo, platformID, userID)
	if err != nil {
		return nil, err
	}

	section, err := s.courseRepo.GetSection(ctx, platformID, communityID, courseID, sectionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: section with ID '%s'", ErrSectionNotFound, sectionID)
		}
		return nil, fmt.Errorf("failed to get section '%s': %w", sectionID, err)
	}

	lesson, err := s.courseRepo.GetLesson(ctx, platformID, communityID, courseID, sectionID, lessonID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: lesson with ID '%s'", ErrLessonNotFound, lessonID)
		}
		return nil, fmt.Errorf("failed to get lesson '%s': %w", lessonID, err)
	}

	if !LessonVisibility(lesson, section, role) {
		return nil, fmt.Errorf("%w: lesson '%s'", ErrLessonLocked, lessonID)
	}

	content := &LessonContent{Lesson: lesson}
	if lesson.Type == models.LessonTypeVideo && lesson.VideoPath != "" && s.signer != nil {
		content.VideoURL = s.signedVideoURL(lesson.VideoPath)
	}

	return content, nil
}

// signedVideoURL resolves a delivery URL through the cache. Signing failures
// degrade to an empty URL so lesson metadata still renders.
func (s *courseService) signedVideoURL(path string) string {
	key := "signedurl:" + path
	if cached, err := s.urlCache.Get(key); err == nil && cached != "" {
		return cached
	}

	url, err := s.signer.SignedURL(path)
	if err != nil {
		if !errors.Is(err, storage.ErrSigningUnavailable) {
			fmt.Printf("Warning: failed to sign video URL for '%s': %v\n", path, err)
		}
		return ""
	}

	if err := s.urlCache.Set(key, url, s.signer.TTL()); err != nil {
		fmt.Printf("Warning: failed to cache signed URL for '%s': %v\n", path, err)
	}
	return url
}
