package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cell-monitor/internal/api/middleware"
	"cell-monitor/internal/api/models"
	"cell-monitor/internal/registry"
	"cell-monitor/internal/session"
)

// CellHandler handles the JSON API over a session's cell registry
type CellHandler struct {
	store    *session.Store
	maxCells int
}

// NewCellHandler creates a new cell handler
func NewCellHandler(store *session.Store, maxCells int) *CellHandler {
	return &CellHandler{store: store, maxCells: maxCells}
}

// withRegistry runs fn against the registry of the calling session.
func (h *CellHandler) withRegistry(c *gin.Context, fn func(*registry.Registry) error) error {
	return h.store.With(middleware.SessionID(c), fn)
}

func (h *CellHandler) validateCount(n int) error {
	if n < 1 || n > h.maxCells {
		return fmt.Errorf("count must be between 1 and %d, got %d", h.maxCells, n)
	}
	return nil
}

// Declare handles POST /api/v1/cells/declare
func (h *CellHandler) Declare(c *gin.Context) {
	var req models.DeclareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}
	if err := h.validateCount(req.Count); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidCount, err)
		return
	}

	_ = h.withRegistry(c, func(r *registry.Registry) error {
		r.Declare(req.Count)
		return nil
	})
	logrus.WithFields(logrus.Fields{
		"session": middleware.SessionID(c),
		"count":   req.Count,
	}).Info("cells declared")

	c.JSON(http.StatusOK, models.DeclareResponse{Count: req.Count})
}

// SetChemistries handles POST /api/v1/cells/chemistries.
// It stages the chemistries and materializes the cells in one step.
func (h *CellHandler) SetChemistries(c *gin.Context) {
	var req models.ChemistriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}

	var (
		resp     models.CellsResponse
		declared int
	)
	err := h.withRegistry(c, func(r *registry.Registry) error {
		declared = r.Count()
		if err := r.SetChemistries(req.Chemistries); err != nil {
			return err
		}
		r.Materialize()
		resp = buildCellsResponse(r)
		return nil
	})
	if errors.Is(err, registry.ErrCountMismatch) {
		abortWithDetails(c, http.StatusBadRequest, models.CodeCountMismatch, err, map[string]interface{}{
			"declared": declared,
			"got":      len(req.Chemistries),
		})
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SetCurrent handles PUT /api/v1/cells/:id/current
func (h *CellHandler) SetCurrent(c *gin.Context) {
	id := c.Param("id")
	var req models.CurrentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}

	var info models.CellInfo
	err := h.withRegistry(c, func(r *registry.Registry) error {
		if err := r.SetCurrent(id, *req.Current); err != nil {
			return err
		}
		for row := range r.Rows() {
			if row.ID == id {
				info = models.NewCellInfo(row)
				break
			}
		}
		return nil
	})
	if errors.Is(err, registry.ErrUnknownCell) {
		abortWithError(c, http.StatusNotFound, models.CodeCellNotFound, err)
		return
	}
	if errors.Is(err, registry.ErrInvalidCurrent) {
		abortWithError(c, http.StatusBadRequest, models.CodeInvalidRequest, err)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, models.CodeInternal, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// ListCells handles GET /api/v1/cells
func (h *CellHandler) ListCells(c *gin.Context) {
	var resp models.CellsResponse
	_ = h.withRegistry(c, func(r *registry.Registry) error {
		resp = buildCellsResponse(r)
		return nil
	})
	c.JSON(http.StatusOK, resp)
}

// Summary handles GET /api/v1/cells/summary
func (h *CellHandler) Summary(c *gin.Context) {
	var (
		sum registry.Summary
		ok  bool
	)
	_ = h.withRegistry(c, func(r *registry.Registry) error {
		sum, ok = r.Summary()
		return nil
	})
	if !ok {
		abortWithError(c, http.StatusNotFound, models.CodeNoCells, errors.New("no cells have been created"))
		return
	}
	c.JSON(http.StatusOK, models.NewSummaryInfo(sum))
}

// Reset handles DELETE /api/v1/cells. It drops the session's registry; the
// next request starts from an empty one.
func (h *CellHandler) Reset(c *gin.Context) {
	h.store.Delete(middleware.SessionID(c))
	c.Status(http.StatusNoContent)
}

// ExportCSV handles GET /api/v1/cells/export.csv and GET /cells/export.csv
func (h *CellHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", registry.DefaultCSVFileName))
	c.Status(http.StatusOK)

	err := h.withRegistry(c, func(r *registry.Registry) error {
		return registry.WriteCSV(c.Writer, r.Rows())
	})
	if err != nil {
		_ = c.Error(err)
	}
}

func buildCellsResponse(r *registry.Registry) models.CellsResponse {
	resp := models.CellsResponse{Cells: []models.CellInfo{}}
	for row := range r.Rows() {
		resp.Cells = append(resp.Cells, models.NewCellInfo(row))
	}
	resp.Count = len(resp.Cells)
	if sum, ok := r.Summary(); ok {
		resp.Summary = models.NewSummaryInfo(sum)
	}
	return resp
}

func abortWithError(c *gin.Context, status int, code string, err error) {
	abortWithDetails(c, status, code, err, nil)
}

func abortWithDetails(c *gin.Context, status int, code string, err error, details map[string]interface{}) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
			Details: details,
		},
	})
}
