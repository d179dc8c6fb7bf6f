package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"commonroom-backend-go/internal/models"
)

const (
	coursesCollection  = "courses"
	sectionsCollection = "sections"
	lessonsCollection  = "lessons"
)

// firestoreCourseRepository implements CourseRepository using Firestore. The
// course tree is nested subcollections:
// platforms/{p}/communities/{c}/courses/{co}/sections/{s}/lessons/{l}.
type firestoreCourseRepository struct {
	client *firestore.Client
}

// NewFirestoreCourseRepository creates a new instance of firestoreCourseRepository.
func NewFirestoreCourseRepository(client *firestore.Client) CourseRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CourseRepository.")
	}
	return &firestoreCourseRepository{client: client}
}

func (r *firestoreCourseRepository) courses(platformID, communityID string) *firestore.CollectionRef {
	return r.client.Collection(platformsCollection).Doc(platformID).
		Collection(communitiesCollection).Doc(communityID).
		Collection(coursesCollection)
}

func (r *firestoreCourseRepository) sections(platformID, communityID, courseID string) *firestore.CollectionRef {
	return r.courses(platformID, communityID).Doc(courseID).Collection(sectionsCollection)
}

func (r *firestoreCourseRepository) lessons(platformID, communityID, courseID, sectionID string) *firestore.CollectionRef {
	return r.sections(platformID, communityID, courseID).Doc(sectionID).Collection(lessonsCollection)
}

// CreateCourse adds a new course document with an auto-generated ID.
func (r *firestoreCourseRepository) CreateCourse(ctx context.Context, platformID, communityID string, course *models.Course) (string, error) {
	if platformID == "" || communityID == "" {
		return "", errors.New("platformID and communityID are required for CreateCourse operation")
	}
	docRef := r.courses(platformID, communityID).NewDoc()
	course.ID = docRef.ID
	course.CommunityID = communityID

	if _, err := docRef.Create(ctx, course); err != nil {
		return "", fmt.Errorf("failed to create course in community '%s': %w", communityID, err)
	}
	return docRef.ID, nil
}

// GetCourse retrieves a course document by its ID.
func (r *firestoreCourseRepository) GetCourse(ctx context.Context, platformID, communityID, courseID string) (*models.Course, error) {
	if platformID == "" || communityID == "" || courseID == "" {
		return nil, errors.New("platformID, communityID and courseID are required for GetCourse operation")
	}
	docSnap, err := r.courses(platformID, communityID).Doc(courseID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("course with ID '%s' not found: %w", courseID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course with ID '%s': %w", courseID, err)
	}

	var course models.Course
	if err := docSnap.DataTo(&course); err != nil {
		return nil, fmt.Errorf("failed to decode course data for ID '%s': %w", courseID, err)
	}
	course.ID = docSnap.Ref.ID
	course.CommunityID = communityID

	return &course, nil
}

// ListCourses retrieves all courses of a community in display order.
func (r *firestoreCourseRepository) ListCourses(ctx context.Context, platformID, communityID string) ([]*models.Course, error) {
	if platformID == "" || communityID == "" {
		return nil, errors.New("platformID and communityID are required for ListCourses operation")
	}

	iter := r.courses(platformID, communityID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var courses []*models.Course
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate courses of community '%s': %w", communityID, err)
		}

		var course models.Course
		if err := doc.DataTo(&course); err != nil {
			log.Printf("Error decoding course data (ID: %s) in community '%s': %v. Skipping.", doc.Ref.ID, communityID, err)
			continue
		}
		course.ID = doc.Ref.ID
		course.CommunityID = communityID
		courses = append(courses, &course)
	}

	return courses, nil
}

// DeleteCourse removes a course document. Sections and lessons beneath it are
// not deleted automatically.
func (r *firestoreCourseRepository) DeleteCourse(ctx context.Context, platformID, communityID, courseID string) error {
	if platformID == "" || communityID == "" || courseID == "" {
		return errors.New("platformID, communityID and courseID are required for DeleteCourse operation")
	}
	_, err := r.courses(platformID, communityID).Doc(courseID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("course with ID '%s' not found for deletion: %w", courseID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete course with ID '%s': %w", courseID, err)
	}
	return nil
}

// CountByCommunity counts the courses under a community. Used to block
// community deletion while children exist.
func (r *firestoreCourseRepository) CountByCommunity(ctx context.Context, platformID, communityID string) (int, error) {
	if platformID == "" || communityID == "" {
		return 0, errors.New("platformID and communityID are required for CountByCommunity operation")
	}

	iter := r.courses(platformID, communityID).Documents(ctx)
	defer iter.Stop()

	count := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to iterate courses for counting (community '%s'): %w", communityID, err)
		}
		count++
	}
	return count, nil
}

// CreateSection adds a new section document with an auto-generated ID.
func (r *firestoreCourseRepository) CreateSection(ctx context.Context, platformID, communityID, courseID string, section *models.Section) (string, error) {
	if platformID == "" || communityID == "" || courseID == "" {
		return "", errors.New("platformID, communityID and courseID are required for CreateSection operation")
	}
	docRef := r.sections(platformID, communityID, courseID).NewDoc()
	section.ID = docRef.ID
	section.CourseID = courseID

	if _, err := docRef.Create(ctx, section); err != nil {
		return "", fmt.Errorf("failed to create section in course '%s': %w", courseID, err)
	}
	return docRef.ID, nil
}

// GetSection retrieves a section document by its ID.
func (r *firestoreCourseRepository) GetSection(ctx context.Context, platformID, communityID, courseID, sectionID string) (*models.Section, error) {
	if sectionID == "" {
		return nil, errors.New("sectionID cannot be empty for GetSection operation")
	}
	docSnap, err := r.sections(platformID, communityID, courseID).Doc(sectionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("section with ID '%s' not found: %w", sectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get section with ID '%s': %w", sectionID, err)
	}

	var section models.Section
	if err := docSnap.DataTo(&section); err != nil {
		return nil, fmt.Errorf("failed to decode section data for ID '%s': %w", sectionID, err)
	}
	section.ID = docSnap.Ref.ID
	section.CourseID = courseID

	return &section, nil
}

// ListSections retrieves all sections of a course in display order.
func (r *firestoreCourseRepository) ListSections(ctx context.Context, platformID, communityID, courseID string) ([]*models.Section, error) {
	if platformID == "" || communityID == "" || courseID == "" {
		return nil, errors.New("platformID, communityID and courseID are required for ListSections operation")
	}

	iter := r.sections(platformID, communityID, courseID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var sections []*models.Section
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate sections of course '%s': %w", courseID, err)
		}

		var section models.Section
		if err := doc.DataTo(&section); err != nil {
			log.Printf("Error decoding section data (ID: %s) in course '%s': %v. Skipping.", doc.Ref.ID, courseID, err)
			continue
		}
		section.ID = doc.Ref.ID
		section.CourseID = courseID
		sections = append(sections, &section)
	}

	return sections, nil
}

// CreateLesson adds a new lesson document with an auto-generated ID.
func (r *firestoreCourseRepository) CreateLesson(ctx context.Context, platformID, communityID, courseID, sectionID string, lesson *models.Lesson) (string, error) {
	if sectionID == "" {
		return "", errors.New("sectionID cannot be empty for CreateLesson operation")
	}
	docRef := r.lessons(platformID, communityID, courseID, sectionID).NewDoc()
	lesson.ID = docRef.ID
	lesson.SectionID = sectionID

	if _, err := docRef.Create(ctx, lesson); err != nil {
		return "", fmt.Errorf("failed to create lesson in section '%s': %w", sectionID, err)
	}
	return docRef.ID, nil
}

// GetLesson retrieves a lesson document by its ID.
func (r *firestoreCourseRepository) GetLesson(ctx context.Context, platformID, communityID, courseID, sectionID, lessonID string) (*models.Lesson, error) {
	if lessonID == "" {
		return nil, errors.New("lessonID cannot be empty for GetLesson operation")
	}
	docSnap, err := r.lessons(platformID, communityID, courseID, sectionID).Doc(lessonID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("lesson with ID '%s' not found: %w", lessonID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lesson with ID '%s': %w", lessonID, err)
	}

	var lesson models.Lesson
	if err := docSnap.DataTo(&lesson); err != nil {
		return nil, fmt.Errorf("failed to decode lesson data for ID '%s': %w", lessonID, err)
	}
	lesson.ID = docSnap.Ref.ID
	lesson.SectionID = sectionID

	return &lesson, nil
}

// ListLessons retrieves all lessons of a section in display order.
func (r *firestoreCourseRepository) ListLessons(ctx context.Context, platformID, communityID, courseID, sectionID string) ([]*models.Lesson, error) {
	if sectionID == "" {
		return nil, errors.New("sectionID cannot be empty for ListLessons operation")
	}

	iter := r.lessons(platformID, communityID, courseID, sectionID).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var lessons []*models.Lesson
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate lessons of section '%s': %w", sectionID, err)
		}

		var lesson models.Lesson
		if err := doc.DataTo(&lesson); err != nil {
			log.Printf("Error decoding lesson data (ID: %s) in section '%s': %v. Skipping.", doc.Ref.ID, sectionID, err)
			continue
		}
		lesson.ID = doc.Ref.ID
		lesson.SectionID = sectionID
		lessons = append(lessons, &lesson)
	}

	return lessons, nil
}
