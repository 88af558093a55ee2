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

// DatasetHandler exposes the dataset metadata operations.
type DatasetHandler struct {
	Repo *repository.DatasetRepo
}

func NewDatasetHandler(r *repository.DatasetRepo) *DatasetHandler {
	return &DatasetHandler{Repo: r}
}

type datasetReq struct {
	Name        string  `json:"dataset_name"`
	FileSizeMB  float64 `json:"file_size_mb"`
	RecordCount int64   `json:"record_count"`
	Source      string  `json:"source"`
}

type datasetResp struct {
	ID          int64   `json:"id"`
	Name        string  `json:"dataset_name"`
	FileSizeMB  float64 `json:"file_size_mb"`
	RecordCount int64   `json:"record_count"`
	Source      string  `json:"source"`
}

func datasetToResp(d model.Dataset) datasetResp {
	return datasetResp{
		ID:          d.ID,
		Name:        d.Name,
		FileSizeMB:  d.FileSizeMB,
		RecordCount: d.RecordCount,
		Source:      d.Source,
	}
}

// List returns all dataset metadata records.
func (h *DatasetHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	datasets, err := h.Repo.List(ctx)
	if err != nil {
		log.Printf("datasets: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]datasetResp, 0, len(datasets))
	for _, d := range datasets {
		out = append(out, datasetToResp(d))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one dataset record by ID.
func (h *DatasetHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		log.Printf("datasets: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, datasetToResp(d))
}

// Create registers a new dataset's metadata.
func (h *DatasetHandler) Create(c echo.Context) error {
	var req datasetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dataset_name required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Repo.Create(ctx, model.Dataset{
		Name:        req.Name,
		FileSizeMB:  req.FileSizeMB,
		RecordCount: req.RecordCount,
		Source:      req.Source,
	})
	if err != nil {
		log.Printf("datasets: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.NoContent(http.StatusCreated)
}
