package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/store"
)

// cannedFacade replays fixed tuples and records executed statements.
type cannedFacade struct {
	rows     []store.Row
	affected int64
	execs    int
}

func (f *cannedFacade) QueryMany(_ context.Context, _ string, _ ...any) ([]store.Row, error) {
	return f.rows, nil
}

func (f *cannedFacade) QueryOne(_ context.Context, _ string, _ ...any) (store.Row, error) {
	if len(f.rows) == 0 {
		return nil, nil
	}
	return f.rows[0], nil
}

func (f *cannedFacade) Exec(_ context.Context, _ string, _ ...any) (int64, error) {
	f.execs++
	return f.affected, nil
}

func TestIncidentListMapsTuples(t *testing.T) {
	f := &cannedFacade{rows: []store.Row{
		{int64(2), "2026-08-30", "Phishing", "High", "Open", "spoofed invoice", "alice"},
		{int64(1), "2026-08-12", "Malware", "Low", "Closed", "usb stick", "bob"},
	}}
	r := NewIncidentRepo(f)

	incidents, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, model.Incident{
		ID: 2, Date: "2026-08-30", IncidentType: "Phishing", Severity: "High",
		Status: "Open", Description: "spoofed invoice", ReportedBy: "alice",
	}, incidents[0])
	assert.Equal(t, 3, incidents[0].SeverityLevel())
}

func TestIncidentGetByIDAbsent(t *testing.T) {
	r := NewIncidentRepo(&cannedFacade{})

	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncidentUpdateMissingRow(t *testing.T) {
	r := NewIncidentRepo(&cannedFacade{affected: 0})

	err := r.UpdateStatus(context.Background(), 99, "Closed", "Low")
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIncidentCreateExecutesInsert(t *testing.T) {
	f := &cannedFacade{affected: 1}
	r := NewIncidentRepo(f)

	err := r.Create(context.Background(), model.Incident{
		Date: "2026-09-01", IncidentType: "DDoS", Severity: "Critical",
		Status: "Open", Description: "volumetric flood", ReportedBy: "alice",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.execs)
}
