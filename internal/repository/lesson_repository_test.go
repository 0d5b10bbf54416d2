package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"lesson-service/internal/model"
	repo "lesson-service/internal/repository"
)

func lessonColumns() []string {
	return []string{
		"id", "tutor_id", "student_id", "tutor_name", "student_name",
		"subject", "lesson_date", "lesson_time", "duration", "status", "location", "created_at",
	}
}

func TestPostgresLessonRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO lessons (tutor_id, student_id, tutor_name, student_name, subject, lesson_date, lesson_time, duration, status, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`)).WithArgs("tutor1", "u1", sqlmock.AnyArg(), sqlmock.AnyArg(), "Math", "Jan 10, 2026", "3:00 PM", "1 hour", "Confirmed", "Online").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("l1", now))

	lesson := &model.Lesson{
		TutorID: "tutor1", StudentID: "u1", Subject: "Math",
		Date: "Jan 10, 2026", Time: "3:00 PM",
		Duration: model.DefaultDuration, Status: model.StatusConfirmed, Location: model.DefaultLocation,
	}
	created, err := r.Create(context.Background(), lesson)
	require.NoError(t, err)
	require.Equal(t, "l1", created.ID)
	require.Equal(t, now, created.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonRepository_FindByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM lessons WHERE id = $1`)).
		WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err = r.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, repo.ErrLessonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonRepository_ListByTutor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	rows := sqlmock.NewRows(lessonColumns()).
		AddRow("l1", "tutor1", "u1", "Tutor One", "User One", "Math", "Jan 10, 2026", "3:00 PM", "1 hour", "Confirmed", "Online", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM lessons WHERE tutor_id = $1 ORDER BY created_at ASC`)).
		WithArgs("tutor1").WillReturnRows(rows)

	lessons, err := r.ListByTutor(context.Background(), "tutor1")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	require.Equal(t, model.StatusConfirmed, lessons[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonRepository_ListAll_EmptyIsNotNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM lessons ORDER BY created_at ASC`)).
		WillReturnRows(sqlmock.NewRows(lessonColumns()))

	lessons, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, lessons)
	require.Empty(t, lessons)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lessons SET status = $1 WHERE id = $2`)).
		WithArgs("Cancelled", "l1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.UpdateStatus(context.Background(), "l1", model.StatusCancelled))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLessonRepository_UpdateStatus_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresLessonRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE lessons SET status = $1 WHERE id = $2`)).
		WithArgs("Cancelled", "missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err = r.UpdateStatus(context.Background(), "missing", model.StatusCancelled)
	require.ErrorIs(t, err, repo.ErrLessonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
