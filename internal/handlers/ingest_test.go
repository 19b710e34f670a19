package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinegrok-backend/internal/handlers"
	"cinegrok-backend/internal/ingest"
	"cinegrok-backend/internal/models"
	"cinegrok-backend/internal/services"
	"cinegrok-backend/internal/supabase"
)

type savingStore struct{ saved int }

func (s *savingStore) SaveLegacy(_ context.Context, id uuid.UUID, p models.ProfileData) (*models.Filmmaker, error) {
	s.saved++
	return &models.Filmmaker{ID: id, StageName: p.StageName}, nil
}

type fakeProcessor struct{ err error }

func (f fakeProcessor) Process(context.Context, uuid.UUID) (int, error) {
	return 768, f.err
}

func newIngestRouter(t *testing.T, store *savingStore, proc handlers.Processor) *gin.Engine {
	t.Helper()
	ing, err := ingest.New(store, nil)
	require.NoError(t, err)
	h := handlers.NewIngestHandler(ing, proc)

	router := newRouter()
	router.Use(as(uuid.New()))
	router.POST("/api/v1/ingest", h.Ingest)
	router.POST("/api/v1/process-ai", h.ProcessAI)
	return router
}

func TestIngest(t *testing.T) {
	store := &savingStore{}
	router := newIngestRouter(t, store, fakeProcessor{})

	w := do(router, http.MethodPost, "/api/v1/ingest", `{"rows":[{"name":"Arjun","roles":"Director"},{"roles":["Editor"]}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[ingest.Result](t, w)
	assert.Len(t, res.Imported, 1)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, 1, store.saved)
}

func TestIngest_Limits(t *testing.T) {
	router := newIngestRouter(t, &savingStore{}, fakeProcessor{})

	assert.Equal(t, http.StatusUnprocessableEntity, do(router, http.MethodPost, "/api/v1/ingest", `{"rows":[]}`).Code)

	rows := strings.TrimSuffix(strings.Repeat(`{"name":"x"},`, handlers.MaxIngestRows+1), ",")
	w := do(router, http.MethodPost, "/api/v1/ingest", fmt.Sprintf(`{"rows":[%s]}`, rows))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProcessAI(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"processed", nil, http.StatusOK},
		{"disabled", services.ErrEmbeddingsDisabled, http.StatusServiceUnavailable},
		{"missing", supabase.ErrNotFound, http.StatusNotFound},
		{"upstream", fmt.Errorf("failed after 3 retries: %w", context.DeadlineExceeded), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newIngestRouter(t, &savingStore{}, fakeProcessor{err: tt.err})
			w := do(router, http.MethodPost, "/api/v1/process-ai", map[string]string{"filmmaker_id": id})
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, 768, decode[models.ProcessAIResponse](t, w).Dimensions)
			}
		})
	}
}
