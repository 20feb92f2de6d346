package course

import (
	"context"
	"errors"
)

// Store-level sentinel errors.
var (
	ErrNotFound        = errors.New("course not found")
	ErrLectureNotFound = errors.New("lecture not found")
)

// Patch carries the mutable course fields of a partial update. Nil fields
// are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Category    *string
	Thumbnail   *Media
}

// Repository persists the course catalog.
type Repository interface {
	// List returns all courses with lectures stripped.
	List(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, id string) (Course, error)
	Create(ctx context.Context, c Course) error
	Update(ctx context.Context, id string, patch Patch) (Course, error)
	Delete(ctx context.Context, id string) (Course, error)
	AddLecture(ctx context.Context, courseID string, l Lecture) (Course, error)
	RemoveLecture(ctx context.Context, courseID, lectureID string) (Lecture, error)
}
