package repository

import (
	"context"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/store"
)

type IncidentRepo struct{ Store store.Facade }

func NewIncidentRepo(s store.Facade) *IncidentRepo { return &IncidentRepo{Store: s} }

const incidentColumns = "id, date, incident_type, severity, status, description, reported_by"

// List returns all incidents, newest first.
func (r *IncidentRepo) List(ctx context.Context) ([]model.Incident, error) {
	rows, err := r.Store.QueryMany(ctx,
		"SELECT "+incidentColumns+" FROM cyber_incidents ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	out := make([]model.Incident, 0, len(rows))
	for _, row := range rows {
		out = append(out, incidentFromRow(row))
	}
	return out, nil
}

// GetByID fetches one incident or ErrNotFound.
func (r *IncidentRepo) GetByID(ctx context.Context, id int64) (model.Incident, error) {
	row, err := r.Store.QueryOne(ctx,
		"SELECT "+incidentColumns+" FROM cyber_incidents WHERE id = ? LIMIT 1", id)
	if err != nil {
		return model.Incident{}, err
	}
	if row == nil {
		return model.Incident{}, ErrNotFound
	}
	return incidentFromRow(row), nil
}

// Create inserts a new incident and returns the stored value without ID
// resolution (the console re-lists after mutation).
func (r *IncidentRepo) Create(ctx context.Context, inc model.Incident) error {
	_, err := r.Store.Exec(ctx,
		`INSERT INTO cyber_incidents (date, incident_type, severity, status, description, reported_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inc.Date, inc.IncidentType, inc.Severity, inc.Status, inc.Description, inc.ReportedBy)
	return err
}

// UpdateStatus changes status and severity of an existing incident.
func (r *IncidentRepo) UpdateStatus(ctx context.Context, id int64, status, severity string) error {
	n, err := r.Store.Exec(ctx,
		"UPDATE cyber_incidents SET status = ?, severity = ? WHERE id = ?",
		status, severity, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an incident.
func (r *IncidentRepo) Delete(ctx context.Context, id int64) error {
	n, err := r.Store.Exec(ctx, "DELETE FROM cyber_incidents WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func incidentFromRow(row store.Row) model.Incident {
	var inc model.Incident
	if len(row) < 7 {
		return inc
	}
	inc.ID = tupleInt64(row[0])
	inc.Date = tupleString(row[1])
	inc.IncidentType = tupleString(row[2])
	inc.Severity = tupleString(row[3])
	inc.Status = tupleString(row[4])
	inc.Description = tupleString(row[5])
	inc.ReportedBy = tupleString(row[6])
	return inc
}
