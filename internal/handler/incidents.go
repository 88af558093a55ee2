package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkarov/intelconsole/internal/model"
	"github.com/mkarov/intelconsole/internal/repository"
)

// IncidentHandler exposes the security incident pages' operations.
type IncidentHandler struct {
	Repo *repository.IncidentRepo
}

func NewIncidentHandler(r *repository.IncidentRepo) *IncidentHandler {
	return &IncidentHandler{Repo: r}
}

type incidentReq struct {
	Date         string `json:"date"`
	IncidentType string `json:"incident_type"`
	Severity     string `json:"severity"`
	Status       string `json:"status"`
	Description  string `json:"description"`
	ReportedBy   string `json:"reported_by"`
}

type incidentPatchReq struct {
	Status   string `json:"status"`
	Severity string `json:"severity"`
}

type incidentResp struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	IncidentType  string `json:"incident_type"`
	Severity      string `json:"severity"`
	SeverityLevel int    `json:"severity_level"`
	Status        string `json:"status"`
	Description   string `json:"description"`
	ReportedBy    string `json:"reported_by"`
}

func incidentToResp(i model.Incident) incidentResp {
	return incidentResp{
		ID:            i.ID,
		Date:          i.Date,
		IncidentType:  i.IncidentType,
		Severity:      i.Severity,
		SeverityLevel: i.SeverityLevel(),
		Status:        i.Status,
		Description:   i.Description,
		ReportedBy:    i.ReportedBy,
	}
}

// List returns all incidents, newest first.
func (h *IncidentHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	incidents, err := h.Repo.List(ctx)
	if err != nil {
		log.Printf("incidents: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]incidentResp, 0, len(incidents))
	for _, i := range incidents {
		out = append(out, incidentToResp(i))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one incident by ID.
func (h *IncidentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	inc, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("incidents: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, incidentToResp(inc))
}

// Create records a new incident.
func (h *IncidentHandler) Create(c echo.Context) error {
	var req incidentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description required"})
	}
	if req.Date == "" {
		req.Date = time.Now().UTC().Format("2006-01-02")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Repo.Create(ctx, model.Incident{
		Date:         req.Date,
		IncidentType: req.IncidentType,
		Severity:     req.Severity,
		Status:       req.Status,
		Description:  req.Description,
		ReportedBy:   req.ReportedBy,
	})
	if err != nil {
		log.Printf("incidents: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.NoContent(http.StatusCreated)
}

// Update changes status and severity of an incident.
func (h *IncidentHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req incidentPatchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status == "" || req.Severity == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status/severity required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Repo.UpdateStatus(ctx, id, req.Status, req.Severity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("incidents: update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an incident.
func (h *IncidentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("incidents: delete failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// reqCtx bounds a handler's database work.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
