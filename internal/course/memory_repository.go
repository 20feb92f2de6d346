package course

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu      sync.RWMutex
	courses map[string]Course
}

// NewMemoryRepository builds an in-memory catalog for tests and
// development mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{courses: make(map[string]Course)}
}

func (r *memoryRepository) List(_ context.Context) ([]Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Course, 0, len(r.courses))
	for _, c := range r.courses {
		c.Lectures = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) Create(_ context.Context, c Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[c.ID] = c
	return nil
}

func (r *memoryRepository) Update(_ context.Context, id string, patch Patch) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Category != nil {
		c.Category = *patch.Category
	}
	if patch.Thumbnail != nil {
		c.Thumbnail = *patch.Thumbnail
	}
	c.UpdatedAt = time.Now().UTC()
	r.courses[id] = c
	return c, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	delete(r.courses, id)
	return c, nil
}

func (r *memoryRepository) AddLecture(_ context.Context, courseID string, l Lecture) (Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return Course{}, ErrNotFound
	}
	c.Lectures = append(c.Lectures, l)
	c.NumberOfLectures = len(c.Lectures)
	c.UpdatedAt = time.Now().UTC()
	r.courses[courseID] = c
	return c, nil
}

func (r *memoryRepository) RemoveLecture(_ context.Context, courseID, lectureID string) (Lecture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[courseID]
	if !ok {
		return Lecture{}, ErrNotFound
	}
	for i, l := range c.Lectures {
		if l.ID == lectureID {
			c.Lectures = append(c.Lectures[:i], c.Lectures[i+1:]...)
			c.NumberOfLectures = len(c.Lectures)
			c.UpdatedAt = time.Now().UTC()
			r.courses[courseID] = c
			return l, nil
		}
	}
	return Lecture{}, ErrLectureNotFound
}
