package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cinegrok-backend/internal/ai"
	"cinegrok-backend/internal/browse"
	"cinegrok-backend/internal/models"
)

// Searcher runs text and embedding searches over the directory.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.FilmmakerCard, error)
	Match(ctx context.Context, embedding []float32, count int) ([]models.FilmmakerMatch, error)
}

type SearchHandler struct {
	searcher Searcher
	embedder ai.Embedder
}

// NewSearchHandler builds the search handler. A nil embedder disables
// vector search.
func NewSearchHandler(searcher Searcher, embedder ai.Embedder) *SearchHandler {
	return &SearchHandler{searcher: searcher, embedder: embedder}
}

type SearchResponse struct {
	Query   string                  `json:"query"`
	Vector  bool                    `json:"vector"`
	Results []models.FilmmakerMatch `json:"results"`
}

// Search godoc
// @Summary     Search filmmakers by text or by meaning
// @Tags        search
// @Produce     json
// @Param       q      query string true  "Query"
// @Param       vector query bool   false "Rank by embedding similarity"
// @Param       limit  query int    false "Result count"
// @Success     200 {object} SearchResponse
// @Failure     422 {object} models.ValidationErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /api/v1/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		validationFailed(c, map[string]string{"q": "Search text is required"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(browse.DefaultLimit)))
	if err != nil || limit < 1 {
		limit = browse.DefaultLimit
	}
	if limit > browse.MaxLimit {
		limit = browse.MaxLimit
	}

	resp := SearchResponse{Query: q, Vector: c.Query("vector") == "true", Results: []models.FilmmakerMatch{}}
	ctx := c.Request.Context()

	if resp.Vector {
		if h.embedder == nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "vector search is not configured"})
			return
		}
		vec, err := h.embedder.Embed(ctx, q)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to embed query", Message: err.Error()})
			return
		}
		matches, err := h.searcher.Match(ctx, vec, limit)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to search filmmakers", Message: err.Error()})
			return
		}
		resp.Results = append(resp.Results, matches...)
		c.JSON(http.StatusOK, resp)
		return
	}

	cards, err := h.searcher.Search(ctx, q, limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to search filmmakers", Message: err.Error()})
		return
	}
	for _, card := range cards {
		resp.Results = append(resp.Results, models.FilmmakerMatch{FilmmakerCard: card})
	}
	c.JSON(http.StatusOK, resp)
}
