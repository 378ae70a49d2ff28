package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/recmetrics/recmetrics/internal/dataset"
	"github.com/recmetrics/recmetrics/internal/infrastructure/clients/postgres"
	apperrors "github.com/recmetrics/recmetrics/pkg/errors"
)

// DatasetAdapter loads recommendation and interaction tables from
// Postgres. Both tables are keyed by an evaluation run id so several
// model runs can live side by side.
type DatasetAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDatasetAdapter creates a new dataset adapter
func NewDatasetAdapter(client *postgres.Client) *DatasetAdapter {
	return &DatasetAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Recommendations loads the recommendation table for a run, ordered by
// user and rank.
func (a *DatasetAdapter) Recommendations(ctx context.Context, runID string) ([]dataset.RecoRow, error) {
	query, args, err := a.db.Select(dataset.ColUser, dataset.ColItem, dataset.ColRank).
		From("recommendations").
		Where(goqu.Ex{"run_id": runID}).
		Order(goqu.I(dataset.ColUser).Asc(), goqu.I(dataset.ColRank).Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build recommendations query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load recommendations", err)
	}
	defer rows.Close()

	var reco []dataset.RecoRow
	for rows.Next() {
		var r dataset.RecoRow
		if err := rows.Scan(&r.User, &r.Item, &r.Rank); err != nil {
			return nil, apperrors.NewInternalError("failed to scan recommendation row", err)
		}
		reco = append(reco, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate recommendations", err)
	}

	return reco, nil
}

// Interactions loads the ground-truth interaction table for a run.
func (a *DatasetAdapter) Interactions(ctx context.Context, runID string) ([]dataset.Interaction, error) {
	query, args, err := a.db.Select(dataset.ColUser, dataset.ColItem).
		From("interactions").
		Where(goqu.Ex{"run_id": runID}).
		Order(goqu.I(dataset.ColUser).Asc(), goqu.I(dataset.ColItem).Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build interactions query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load interactions", err)
	}
	defer rows.Close()

	var interactions []dataset.Interaction
	for rows.Next() {
		var it dataset.Interaction
		if err := rows.Scan(&it.User, &it.Item); err != nil {
			return nil, apperrors.NewInternalError("failed to scan interaction row", err)
		}
		interactions = append(interactions, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate interactions", err)
	}

	return interactions, nil
}

// CatalogSize counts the distinct items eligible for recommendation in a
// run's catalog table.
func (a *DatasetAdapter) CatalogSize(ctx context.Context, runID string) (int, error) {
	query, args, err := a.db.Select(goqu.COUNT(goqu.DISTINCT(goqu.I(dataset.ColItem)))).
		From("catalog_items").
		Where(goqu.Ex{"run_id": runID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build catalog query", err)
	}

	var size int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&size); err != nil {
		return 0, apperrors.NewInternalError("failed to count catalog items", err)
	}
	return size, nil
}
