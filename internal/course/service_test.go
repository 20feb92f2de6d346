package course

import (
	"context"
	"testing"

	"github.com/lectoria/lectoria/internal/domain"
	"github.com/lectoria/lectoria/internal/logging"
	"github.com/lectoria/lectoria/internal/media"
)

func newTestService() (*Service, *media.MemoryStorage) {
	store := media.NewMemoryStorage()
	return NewService(NewMemoryRepository(), store, logging.Discard()), store
}

func createCourse(t *testing.T, svc *Service) Course {
	t.Helper()
	c, err := svc.Create(context.Background(), CreateInput{
		Title:         "Distributed Systems",
		Description:   "Consensus, replication and failure models.",
		Category:      "engineering",
		CreatedBy:     "admin@example.com",
		ThumbnailPath: "/tmp/thumb.png",
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	return c
}

func TestCreateCourse_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Title: "Distributed Systems"})
	if !domain.Is(err, domain.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCourse_UploadFailure(t *testing.T) {
	svc, store := newTestService()
	store.FailUploads = true

	_, err := svc.Create(context.Background(), CreateInput{
		Title:         "Distributed Systems",
		Description:   "Consensus, replication and failure models.",
		Category:      "engineering",
		CreatedBy:     "admin@example.com",
		ThumbnailPath: "/tmp/thumb.png",
	})
	if !domain.Is(err, domain.KindUploadFailed) {
		t.Fatalf("expected upload failure, got %v", err)
	}
}

func TestList_StripsLectures(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := createCourse(t, svc)
	if _, err := svc.AddLecture(ctx, c.ID, LectureInput{
		Title:       "Intro",
		Description: "Course overview.",
		VideoPath:   "/tmp/intro.mp4",
	}); err != nil {
		t.Fatalf("add lecture: %v", err)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one course, got %d", len(listed))
	}
	if listed[0].Lectures != nil {
		t.Fatalf("listing must not expose lecture content")
	}
	if listed[0].NumberOfLectures != 1 {
		t.Fatalf("expected lecture count 1, got %d", listed[0].NumberOfLectures)
	}
}

func TestLectures_EntitledView(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := createCourse(t, svc)
	if _, err := svc.AddLecture(ctx, c.ID, LectureInput{
		Title:       "Intro",
		Description: "Course overview.",
		VideoPath:   "/tmp/intro.mp4",
	}); err != nil {
		t.Fatalf("add lecture: %v", err)
	}

	lectures, err := svc.Lectures(ctx, c.ID)
	if err != nil {
		t.Fatalf("lectures: %v", err)
	}
	if len(lectures) != 1 || lectures[0].Title != "Intro" {
		t.Fatalf("unexpected lectures: %+v", lectures)
	}
	if lectures[0].Video.URL == "" {
		t.Fatalf("expected uploaded video reference")
	}

	if _, err := svc.Lectures(ctx, "missing"); !domain.Is(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCourse_PartialPatch(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	c := createCourse(t, svc)

	updated, err := svc.Update(ctx, c.ID, UpdateInput{Title: "Distributed Systems II"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Distributed Systems II" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Description != c.Description || updated.Category != c.Category {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", UpdateInput{Title: "x"}); !domain.Is(err, domain.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteCourse_CleansMedia(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	c := createCourse(t, svc)
	withLecture, err := svc.AddLecture(ctx, c.ID, LectureInput{
		Title:       "Intro",
		Description: "Course overview.",
		VideoPath:   "/tmp/intro.mp4",
	})
	if err != nil {
		t.Fatalf("add lecture: %v", err)
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	deleted := map[string]bool{}
	for _, id := range store.Deleted {
		deleted[id] = true
	}
	if !deleted[c.Thumbnail.PublicID] {
		t.Fatalf("thumbnail asset not deleted: %v", store.Deleted)
	}
	if !deleted[withLecture.Lectures[0].Video.PublicID] {
		t.Fatalf("lecture video asset not deleted: %v", store.Deleted)
	}

	if _, err := svc.Lectures(ctx, c.ID); !domain.Is(err, domain.KindNotFound) {
		t.Fatalf("course still present after delete")
	}
}

func TestRemoveLecture(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	c := createCourse(t, svc)
	withLecture, err := svc.AddLecture(ctx, c.ID, LectureInput{
		Title:       "Intro",
		Description: "Course overview.",
		VideoPath:   "/tmp/intro.mp4",
	})
	if err != nil {
		t.Fatalf("add lecture: %v", err)
	}
	lecture := withLecture.Lectures[0]

	if err := svc.RemoveLecture(ctx, c.ID, lecture.ID); err != nil {
		t.Fatalf("remove lecture: %v", err)
	}

	found := false
	for _, id := range store.Deleted {
		if id == lecture.Video.PublicID {
			found = true
		}
	}
	if !found {
		t.Fatalf("video asset not deleted: %v", store.Deleted)
	}

	if err := svc.RemoveLecture(ctx, c.ID, lecture.ID); !domain.Is(err, domain.KindNotFound) {
		t.Fatalf("expected not found for removed lecture, got %v", err)
	}
}
