package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/media"
)

const (
	thumbnailFolder = "lms/thumbnails"
	lectureFolder   = "lms/lectures"
)

// Service exposes catalog operations. Persistence is pass-through; the only
// extra work is moving media through the storage collaborator.
type Service struct {
	repo   Repository
	media  media.Storage
	logger *slog.Logger
}

// NewService builds a course service instance.
func NewService(repo Repository, store media.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, media: store, logger: logger}
}

// List returns the catalog with lectures stripped.
func (s *Service) List(ctx context.Context) ([]Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindStoreUnavailable, "failed to fetch courses", err)
	}
	return courses, nil
}

// Lectures returns the lecture list of one course.
func (s *Service) Lectures(ctx context.Context, id string) ([]Lecture, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.E(domain.KindNotFound, "course not found")
		}
		return nil, domain.Wrap(domain.KindStoreUnavailable, "failed to fetch lectures", err)
	}
	return c.Lectures, nil
}

// CreateInput carries the course creation form. ThumbnailPath is the local
// copy of an uploaded file; empty means no upload.
type CreateInput struct {
	Title         string
	Description   string
	Category      string
	CreatedBy     string
	ThumbnailPath string
}

// Create adds a catalog entry with an optional thumbnail upload.
func (s *Service) Create(ctx context.Context, input CreateInput) (Course, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Category) == "" || strings.TrimSpace(input.CreatedBy) == "" {
		return Course{}, domain.E(domain.KindValidation, "all fields are required")
	}

	now := time.Now().UTC()
	c := Course{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		CreatedBy:   strings.TrimSpace(input.CreatedBy),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if input.ThumbnailPath != "" {
		asset, err := s.media.Upload(ctx, input.ThumbnailPath, media.UploadOptions{Folder: thumbnailFolder})
		if err != nil {
			return Course{}, domain.Wrap(domain.KindUploadFailed, "file upload failed", err)
		}
		c.Thumbnail = Media{PublicID: asset.PublicID, URL: asset.URL}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Course{}, domain.Wrap(domain.KindStoreUnavailable, "failed to create course", err)
	}

	return c, nil
}

// UpdateInput carries a partial course update.
type UpdateInput struct {
	Title       string
	Description string
	Category    string
}

// Update applies a partial update of the course fields.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Course, error) {
	patch := Patch{}
	if v := strings.TrimSpace(input.Title); v != "" {
		patch.Title = &v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		patch.Description = &v
	}
	if v := strings.TrimSpace(input.Category); v != "" {
		patch.Category = &v
	}

	c, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Course{}, domain.E(domain.KindNotFound, "course not found")
		}
		return Course{}, domain.Wrap(domain.KindStoreUnavailable, "failed to update course", err)
	}
	return c, nil
}

// Delete removes a course and best-effort cleans its stored media.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.E(domain.KindNotFound, "course not found")
		}
		return domain.Wrap(domain.KindStoreUnavailable, "failed to delete course", err)
	}

	if c.Thumbnail.PublicID != "" {
		if err := s.media.Delete(ctx, c.Thumbnail.PublicID); err != nil {
			s.logger.Warn("delete course thumbnail", "course_id", c.ID, "error", err)
		}
	}
	for _, l := range c.Lectures {
		if l.Video.PublicID == "" {
			continue
		}
		if err := s.media.Delete(ctx, l.Video.PublicID); err != nil {
			s.logger.Warn("delete lecture video", "course_id", c.ID, "lecture_id", l.ID, "error", err)
		}
	}
	return nil
}

// LectureInput carries a lecture creation form.
type LectureInput struct {
	Title       string
	Description string
	VideoPath   string
}

// AddLecture uploads lecture media and appends the lecture to the course.
func (s *Service) AddLecture(ctx context.Context, courseID string, input LectureInput) (Course, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return Course{}, domain.E(domain.KindValidation, "all fields are required")
	}

	l := Lecture{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
	}

	if input.VideoPath != "" {
		asset, err := s.media.Upload(ctx, input.VideoPath, media.UploadOptions{Folder: lectureFolder})
		if err != nil {
			return Course{}, domain.Wrap(domain.KindUploadFailed, "file upload failed", err)
		}
		l.Video = Media{PublicID: asset.PublicID, URL: asset.URL}
	}

	c, err := s.repo.AddLecture(ctx, courseID, l)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Course{}, domain.E(domain.KindNotFound, "course not found")
		}
		return Course{}, domain.Wrap(domain.KindStoreUnavailable, "failed to add lecture", err)
	}
	return c, nil
}

// RemoveLecture deletes a lecture and best-effort cleans its video asset.
func (s *Service) RemoveLecture(ctx context.Context, courseID, lectureID string) error {
	l, err := s.repo.RemoveLecture(ctx, courseID, lectureID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return domain.E(domain.KindNotFound, "course not found")
		case errors.Is(err, ErrLectureNotFound):
			return domain.E(domain.KindNotFound, "lecture not found")
		default:
			return domain.Wrap(domain.KindStoreUnavailable, "failed to remove lecture", err)
		}
	}

	if l.Video.PublicID != "" {
		if err := s.media.Delete(ctx, l.Video.PublicID); err != nil {
			s.logger.Warn("delete lecture video", "course_id", courseID, "lecture_id", l.ID, "error", err)
		}
	}
	return nil
}
