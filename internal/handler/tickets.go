package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/repository"
)

// TicketHandler exposes the IT ticket operations.
type TicketHandler struct {
	Repo *repository.TicketRepo
}

func NewTicketHandler(r *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Repo: r}
}

type ticketReq struct {
	Subject    string `json:"subject"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

type ticketPatchReq struct {
	Status string `json:"status"`
}

type ticketResp struct {
	ID         int64  `json:"id"`
	Subject    string `json:"subject"`
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
}

func ticketToResp(t model.Ticket) ticketResp {
	return ticketResp{
		ID:         t.ID,
		Subject:    t.Subject,
		Priority:   t.Priority,
		Status:     t.Status,
		AssignedTo: t.AssignedTo,
	}
}

// List returns all tickets.
func (h *TicketHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tickets, err := h.Repo.List(ctx)
	if err != nil {
		log.Printf("tickets: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketToResp(t))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one ticket by ID.
func (h *TicketHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("tickets: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ticketToResp(t))
}

// Create opens a new ticket.
func (h *TicketHandler) Create(c echo.Context) error {
	var req ticketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Subject) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject required"})
	}
	if req.Status == "" {
		req.Status = "Open"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Repo.Create(ctx, model.Ticket{
		Subject:    req.Subject,
		Priority:   req.Priority,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		log.Printf("tickets: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.NoContent(http.StatusCreated)
}

// Update changes the status of a ticket.
func (h *TicketHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req ticketPatchReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Repo.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("tickets: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
