package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinegrok-backend/internal/ingest"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/services"
)

// MaxIngestRows caps one ingest request.
const MaxIngestRows = 500

// Ingester loads legacy export rows.
type Ingester interface {
	Ingest(ctx context.Context, rows []json.RawMessage) (*ingest.Result, error)
}

// Processor computes and stores a profile embedding.
type Processor interface {
	Process(ctx context.Context, id uuid.UUID) (int, error)
}

type IngestHandler struct {
	ingester  Ingester
	processor Processor
}

func NewIngestHandler(ingester Ingester, processor Processor) *IngestHandler {
	return &IngestHandler{ingester: ingester, processor: processor}
}

// Ingest godoc
// @Summary     Import legacy filmmaker rows
// @Description Invalid rows are reported and skipped; valid rows are upserted.
// @Tags        ingest
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body models.IngestRequest true "Legacy rows"
// @Success     200 {object} ingest.Result
// @Failure     422 {object} models.ValidationErrorResponse
// @Router      /api/v1/ingest [post]
func (h *IngestHandler) Ingest(c *gin.Context) {
	if noDatabase(c, h.ingester) {
		return
	}
	if _, ok := currentUser(c); !ok {
		return
	}
	var req models.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	switch {
	case len(req.Rows) == 0:
		validationFailed(c, map[string]string{"rows": "At least one row is required"})
		return
	case len(req.Rows) > MaxIngestRows:
		validationFailed(c, map[string]string{"rows": "Too many rows in one request"})
		return
	}

	res, err := h.ingester.Ingest(c.Request.Context(), req.Rows)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to ingest rows", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ProcessAI godoc
// @Summary     Compute the profile embedding used by vector search
// @Tags        ingest
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       body body models.ProcessAIRequest true "Filmmaker"
// @Success     200 {object} models.ProcessAIResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /api/v1/process-ai [post]
func (h *IngestHandler) ProcessAI(c *gin.Context) {
	if noDatabase(c, h.processor) {
		return
	}
	if _, ok := currentUser(c); !ok {
		return
	}
	var req models.ProcessAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	id, err := uuid.Parse(req.FilmmakerID)
	if err != nil {
		validationFailed(c, map[string]string{"filmmaker_id": "Must be a valid id"})
		return
	}

	dims, err := h.processor.Process(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrEmbeddingsDisabled):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "embeddings are not configured"})
		return
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "filmmaker not found"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to process profile", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.ProcessAIResponse{FilmmakerID: id.String(), Dimensions: dims, Status: "processed"})
}
