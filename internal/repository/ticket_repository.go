package repository

import (
	"context"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/store"
)

type TicketRepo struct{ Store store.Facade }

func NewTicketRepo(s store.Facade) *TicketRepo { return &TicketRepo{Store: s} }

const ticketColumns = "id, subject, priority, status, assigned_to"

// List returns all IT tickets.
func (r *TicketRepo) List(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.Store.QueryMany(ctx,
		"SELECT "+ticketColumns+" FROM it_tickets ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	out := make([]model.Ticket, 0, len(rows))
	for _, row := range rows {
		out = append(out, ticketFromRow(row))
	}
	return out, nil
}

// GetByID fetches one ticket or ErrNotFound.
func (r *TicketRepo) GetByID(ctx context.Context, id int64) (model.Ticket, error) {
	row, err := r.Store.QueryOne(ctx,
		"SELECT "+ticketColumns+" FROM it_tickets WHERE id = ? LIMIT 1", id)
	if err != nil {
		return model.Ticket{}, err
	}
	if row == nil {
		return model.Ticket{}, ErrNotFound
	}
	return ticketFromRow(row), nil
}

// Create opens a new ticket.
func (r *TicketRepo) Create(ctx context.Context, t model.Ticket) error {
	_, err := r.Store.Exec(ctx,
		"INSERT INTO it_tickets (subject, priority, status, assigned_to) VALUES (?, ?, ?, ?)",
		t.Subject, t.Priority, t.Status, t.AssignedTo)
	return err
}

// UpdateStatus changes the status of an existing ticket.
func (r *TicketRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	n, err := r.Store.Exec(ctx,
		"UPDATE it_tickets SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func ticketFromRow(row store.Row) model.Ticket {
	var t model.Ticket
	if len(row) < 5 {
		return t
	}
	t.ID = tupleInt64(row[0])
	t.Subject = tupleString(row[1])
	t.Priority = tupleString(row[2])
	t.Status = tupleString(row[3])
	t.AssignedTo = tupleString(row[4])
	return t
}
