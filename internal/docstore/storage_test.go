package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewStorage(db), mock
}

func TestStorage_NodeNotFound(t *testing.T) {
	storage, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `documents`").
		WillReturnRows(sqlmock.NewRows([]string{"collection", "slot", "doc"}))

	_, ok, err := storage.Node(context.Background(), "tasks", 3)
	require.NoError(t, err, "a missing node is not an error")
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_NodeFound(t *testing.T) {
	storage, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `documents`").
		WillReturnRows(sqlmock.NewRows([]string{"collection", "slot", "doc"}).
			AddRow("tasks", 3, `{"id":4}`))

	doc, ok, err := storage.Node(context.Background(), "tasks", 3)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"id":4}`, string(doc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CollectionQueryErrorPropagates(t *testing.T) {
	storage, mock := setupMockStorage(t)

	mock.ExpectQuery("SELECT \\* FROM `documents`").
		WillReturnError(errors.New("connection refused"))

	_, _, err := storage.Collection(context.Background(), "tasks")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
	require.NoError(t, mock.ExpectationsWereMet())
}
