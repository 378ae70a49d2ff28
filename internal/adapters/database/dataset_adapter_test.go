package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recmetrics/recmetrics/internal/dataset"
	"github.com/recmetrics/recmetrics/internal/infrastructure/clients/postgres"
)

func setupMockAdapter(t *testing.T) (*DatasetAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewDatasetAdapter(postgres.NewClientFromDB(db)), mock
}

func TestDatasetAdapter_Recommendations(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	rows := sqlmock.NewRows([]string{"user_id", "item_id", "rank"}).
		AddRow("u1", "i1", 1).
		AddRow("u1", "i2", 2).
		AddRow("u2", "i3", 1)
	mock.ExpectQuery(`SELECT "user_id", "item_id", "rank" FROM "recommendations"`).
		WithArgs("run-7").
		WillReturnRows(rows)

	reco, err := adapter.Recommendations(context.Background(), "run-7")
	require.NoError(t, err)

	want := []dataset.RecoRow{
		{User: "u1", Item: "i1", Rank: 1},
		{User: "u1", Item: "i2", Rank: 2},
		{User: "u2", Item: "i3", Rank: 1},
	}
	assert.Equal(t, want, reco)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetAdapter_Interactions(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	rows := sqlmock.NewRows([]string{"user_id", "item_id"}).
		AddRow("u1", "i1").
		AddRow("u2", "i9")
	mock.ExpectQuery(`SELECT "user_id", "item_id" FROM "interactions"`).
		WithArgs("run-7").
		WillReturnRows(rows)

	interactions, err := adapter.Interactions(context.Background(), "run-7")
	require.NoError(t, err)

	want := []dataset.Interaction{
		{User: "u1", Item: "i1"},
		{User: "u2", Item: "i9"},
	}
	assert.Equal(t, want, interactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatasetAdapter_CatalogSize(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT "item_id"\) FROM "catalog_items"`).
		WithArgs("run-7").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	size, err := adapter.CatalogSize(context.Background(), "run-7")
	require.NoError(t, err)
	assert.Equal(t, 42, size)
}

func TestDatasetAdapter_QueryError(t *testing.T) {
	adapter, mock := setupMockAdapter(t)

	mock.ExpectQuery(`SELECT "user_id", "item_id", "rank" FROM "recommendations"`).
		WillReturnError(assert.AnError)

	_, err := adapter.Recommendations(context.Background(), "run-7")
	assert.Error(t, err)
}
