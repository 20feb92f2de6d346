package course

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores courses and lectures in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the catalog without lecture content.
func (r *PostgresRepository) List(ctx context.Context) ([]Course, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, description, category, created_by,
        thumbnail_public_id, thumbnail_url,
        (SELECT count(*) FROM lectures WHERE course_id = courses.id),
        created_at, updated_at
        FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Get fetches one course including its lectures.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Course, error) {
	courseID, err := uuid.Parse(id)
	if err != nil {
		return Course{}, ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT id, title, description, category, created_by,
        thumbnail_public_id, thumbnail_url,
        (SELECT count(*) FROM lectures WHERE course_id = courses.id),
        created_at, updated_at
        FROM courses WHERE id = $1`, courseID)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}

	rows, err := r.db.Query(ctx, `SELECT id, title, description, video_public_id, video_url
        FROM lectures WHERE course_id = $1 ORDER BY created_at`, courseID)
	if err != nil {
		return Course{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Lecture
		var lid uuid.UUID
		if err := rows.Scan(&lid, &l.Title, &l.Description, &l.Video.PublicID, &l.Video.URL); err != nil {
			return Course{}, err
		}
		l.ID = lid.String()
		c.Lectures = append(c.Lectures, l)
	}
	return c, rows.Err()
}

// Create inserts a catalog entry.
func (r *PostgresRepository) Create(ctx context.Context, c Course) error {
	courseID, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO courses
        (id, title, description, category, created_by, thumbnail_public_id, thumbnail_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		courseID, c.Title, c.Description, c.Category, c.CreatedBy,
		c.Thumbnail.PublicID, c.Thumbnail.URL, c.CreatedAt.UTC())
	return err
}

// Update applies a partial update of the course fields.
func (r *PostgresRepository) Update(ctx context.Context, id string, patch Patch) (Course, error) {
	courseID, err := uuid.Parse(id)
	if err != nil {
		return Course{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `UPDATE courses SET
        title = COALESCE($2, title),
        description = COALESCE($3, description),
        category = COALESCE($4, category),
        thumbnail_public_id = COALESCE($5, thumbnail_public_id),
        thumbnail_url = COALESCE($6, thumbnail_url),
        updated_at = now()
        WHERE id = $1
        RETURNING id, title, description, category, created_by, thumbnail_public_id, thumbnail_url,
        (SELECT count(*) FROM lectures WHERE course_id = courses.id), created_at, updated_at`,
		courseID, patch.Title, patch.Description, patch.Category,
		mediaField(patch.Thumbnail, func(m Media) string { return m.PublicID }),
		mediaField(patch.Thumbnail, func(m Media) string { return m.URL }))
	c, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Course{}, ErrNotFound
	}
	return c, err
}

// Delete removes a course and returns its final state so callers can clean
// up associated media.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (Course, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return Course{}, err
	}
	courseID, _ := uuid.Parse(id)
	if _, err := r.db.Exec(ctx, `DELETE FROM lectures WHERE course_id = $1`, courseID); err != nil {
		return Course{}, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID); err != nil {
		return Course{}, err
	}
	return c, nil
}

// AddLecture appends a lecture to a course.
func (r *PostgresRepository) AddLecture(ctx context.Context, courseIDStr string, l Lecture) (Course, error) {
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		return Course{}, ErrNotFound
	}
	lectureID, err := uuid.Parse(l.ID)
	if err != nil {
		return Course{}, err
	}
	cmd, err := r.db.Exec(ctx, `INSERT INTO lectures
        (id, course_id, title, description, video_public_id, video_url, created_at)
        SELECT $1, $2, $3, $4, $5, $6, now()
        WHERE EXISTS (SELECT 1 FROM courses WHERE id = $2)`,
		lectureID, courseID, l.Title, l.Description, l.Video.PublicID, l.Video.URL)
	if err != nil {
		return Course{}, err
	}
	if cmd.RowsAffected() == 0 {
		return Course{}, ErrNotFound
	}
	return r.Get(ctx, courseIDStr)
}

// RemoveLecture deletes a lecture and returns it for media cleanup.
func (r *PostgresRepository) RemoveLecture(ctx context.Context, courseIDStr, lectureIDStr string) (Lecture, error) {
	courseID, err := uuid.Parse(courseIDStr)
	if err != nil {
		return Lecture{}, ErrNotFound
	}
	lectureID, err := uuid.Parse(lectureIDStr)
	if err != nil {
		return Lecture{}, ErrLectureNotFound
	}
	row := r.db.QueryRow(ctx, `DELETE FROM lectures WHERE id = $1 AND course_id = $2
        RETURNING id, title, description, video_public_id, video_url`, lectureID, courseID)
	var l Lecture
	var lid uuid.UUID
	if err := row.Scan(&lid, &l.Title, &l.Description, &l.Video.PublicID, &l.Video.URL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lecture{}, ErrLectureNotFound
		}
		return Lecture{}, err
	}
	l.ID = lid.String()
	return l, nil
}

func mediaField(m *Media, pick func(Media) string) *string {
	if m == nil {
		return nil
	}
	v := pick(*m)
	return &v
}

func scanCourse(row pgx.Row) (Course, error) {
	var (
		c         Course
		id        uuid.UUID
		lectures  int64
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(&id, &c.Title, &c.Description, &c.Category, &c.CreatedBy,
		&c.Thumbnail.PublicID, &c.Thumbnail.URL, &lectures, &createdAt, &updatedAt)
	if err != nil {
		return Course{}, err
	}
	c.ID = id.String()
	c.NumberOfLectures = int(lectures)
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	return c, nil
}
