package repository

import (
	"context"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/store"
)

type DatasetRepo struct{ Store store.Facade }

func NewDatasetRepo(s store.Facade) *DatasetRepo { return &DatasetRepo{Store: s} }

const datasetColumns = "id, dataset_name, file_size_mb, record_count, source"

// List returns all dataset metadata records.
func (r *DatasetRepo) List(ctx context.Context) ([]model.Dataset, error) {
	rows, err := r.Store.QueryMany(ctx,
		"SELECT "+datasetColumns+" FROM datasets_metadata ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	out := make([]model.Dataset, 0, len(rows))
	for _, row := range rows {
		out = append(out, datasetFromRow(row))
	}
	return out, nil
}

// GetByID fetches one dataset record or ErrNotFound.
func (r *DatasetRepo) GetByID(ctx context.Context, id int64) (model.Dataset, error) {
	row, err := r.Store.QueryOne(ctx,
		"SELECT "+datasetColumns+" FROM datasets_metadata WHERE id = ? LIMIT 1", id)
	if err != nil {
		return model.Dataset{}, err
	}
	if row == nil {
		return model.Dataset{}, ErrNotFound
	}
	return datasetFromRow(row), nil
}

// Create registers a new dataset's metadata.
func (r *DatasetRepo) Create(ctx context.Context, d model.Dataset) error {
	_, err := r.Store.Exec(ctx,
		`INSERT INTO datasets_metadata (dataset_name, file_size_mb, record_count, source)
		 VALUES (?, ?, ?, ?)`,
		d.Name, d.FileSizeMB, d.RecordCount, d.Source)
	return err
}

func datasetFromRow(row store.Row) model.Dataset {
	var d model.Dataset
	if len(row) < 5 {
		return d
	}
	d.ID = tupleInt64(row[0])
	d.Name = tupleString(row[1])
	d.FileSizeMB = tupleFloat64(row[2])
	d.RecordCount = tupleInt64(row[3])
	d.Source = tupleString(row[4])
	return d
}
