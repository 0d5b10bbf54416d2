package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	repo "lesson-service/internal/repository"
)

func TestPostgresDeviceTokenRepository_RegisterAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	r := repo.NewPostgresDeviceTokenRepository(sqlxDB)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_device_tokens (user_id, device_token)`)).
		WithArgs("u1", "token-a").WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT device_token FROM user_device_tokens WHERE user_id = $1`)).
		WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"device_token"}).AddRow("token-a"))

	require.NoError(t, r.Register(context.Background(), "u1", "token-a"))

	tokens, err := r.DeviceTokens(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"token-a"}, tokens)
	require.NoError(t, mock.ExpectationsWereMet())
}
