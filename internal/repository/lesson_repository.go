package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"lesson-service/internal/model"
)

var ErrLessonNotFound = errors.New("lesson not found")

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error)
	FindByID(ctx context.Context, lessonID string) (*model.Lesson, error)
	ListAll(ctx context.Context) ([]model.Lesson, error)
	ListByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error)
	UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error
}

type postgresLessonRepository struct {
	db *sqlx.DB
}

func NewPostgresLessonRepository(db *sqlx.DB) LessonRepository {
	return &postgresLessonRepository{db: db}
}

func (r *postgresLessonRepository) Create(ctx context.Context, lesson *model.Lesson) (*model.Lesson, error) {
	query := `
		INSERT INTO lessons (tutor_id, student_id, tutor_name, student_name, subject, lesson_date, lesson_time, duration, status, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		lesson.TutorID, lesson.StudentID, lesson.TutorName, lesson.StudentName,
		lesson.Subject, lesson.Date, lesson.Time, lesson.Duration, lesson.Status, lesson.Location)
	if err := row.Scan(&lesson.ID, &lesson.CreatedAt); err != nil {
		return nil, err
	}

	return lesson, nil
}

func (r *postgresLessonRepository) FindByID(ctx context.Context, lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	query := `SELECT * FROM lessons WHERE id = $1`
	err := r.db.GetContext(ctx, &lesson, query, lessonID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	return &lesson, nil
}

func (r *postgresLessonRepository) ListAll(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	query := `SELECT * FROM lessons ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &lessons, query); err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	return lessons, nil
}

func (r *postgresLessonRepository) ListByTutor(ctx context.Context, tutorID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	query := `SELECT * FROM lessons WHERE tutor_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &lessons, query, tutorID); err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	return lessons, nil
}

func (r *postgresLessonRepository) UpdateStatus(ctx context.Context, lessonID string, status model.LessonStatus) error {
	query := `UPDATE lessons SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, lessonID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLessonNotFound
	}
	return nil
}
